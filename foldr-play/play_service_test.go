package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"foldr-lang-go/model"
)

func setupDb(t *testing.T, name string) {
	t.Helper()
	if err := OpenDb("file:" + name + "?mode=memory&cache=shared"); err != nil {
		t.Fatal(err)
	}
	saved := *config
	t.Cleanup(func() {
		CloseDb()
		DB = nil
		*config = saved
	})
}

func request(method, uri, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	ctx.Request.SetBodyString(body)
	return &ctx
}

func postRun(t *testing.T, uri, source string) runResponse {
	t.Helper()
	ctx := request(fasthttp.MethodPost, uri, source)
	requestHandler(ctx)
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var resp runResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHandleRun(t *testing.T) {
	setupDb(t, "handle_run")
	source := `let n = input(); print("hi " + n);`
	resp := postRun(t, "/run?stdin=bob", source)
	if resp.Stdout != "hi bob\n" || resp.ExitCode != 0 || resp.Error != "" {
		t.Errorf("got %+v", resp)
	}
	if resp.ID == 0 {
		t.Error("run was not stored")
	}
	if len(resp.SourceHash) != 64 {
		t.Errorf("source hash = %q", resp.SourceHash)
	}
}

func TestHandleRunFailure(t *testing.T) {
	setupDb(t, "handle_run_failure")
	resp := postRun(t, "/run", "print(1);\nprint(x);")
	if resp.ExitCode != 1 || resp.Stdout != "1\n" {
		t.Errorf("got %+v", resp)
	}
	if resp.Error != "Error: undefined variable 'x' (line 2, token='x', type=IDENTIFIER)" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestHandleRunLegacy(t *testing.T) {
	setupDb(t, "handle_run_legacy")
	resp := postRun(t, "/run?legacy=1", "print(x);")
	if resp.ExitCode != 0 || resp.Stdout != "null\n" {
		t.Errorf("got %+v", resp)
	}
}

func TestHandleRunTimeout(t *testing.T) {
	setupDb(t, "handle_run_timeout")
	config.RunTimeout = 20 * time.Millisecond
	before := runsTimedOut.Value()
	resp := postRun(t, "/run", "while (1) { }")
	if resp.ExitCode != 1 || !strings.Contains(resp.Error, "time limit exceeded") {
		t.Errorf("got %+v", resp)
	}
	if runsTimedOut.Value() != before+1 {
		t.Errorf("runsTimedOut = %d", runsTimedOut.Value())
	}
}

func TestHandleRunTruncatesOutput(t *testing.T) {
	setupDb(t, "handle_run_truncate")
	config.MaxOutputBytes = 4
	resp := postRun(t, "/run", `print("abcdefgh");`)
	if resp.Stdout != "abcd" {
		t.Errorf("stdout = %q", resp.Stdout)
	}
}

func TestHandleRunStopsAtOutputLimit(t *testing.T) {
	setupDb(t, "handle_run_output_limit")
	config.MaxOutputBytes = 1024
	config.RunTimeout = 10 * time.Second
	before := runsOutputCapped.Value()
	start := time.Now()
	resp := postRun(t, "/run", `while (1) { print("`+strings.Repeat("x", 200)+`"); }`)
	if len(resp.Stdout) != 1024 {
		t.Errorf("stdout length = %d", len(resp.Stdout))
	}
	if resp.ExitCode != 1 || !strings.Contains(resp.Error, "output limit exceeded") {
		t.Errorf("got exit %d, error %q", resp.ExitCode, resp.Error)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("run was not stopped at the limit, took %v", elapsed)
	}
	if runsOutputCapped.Value() != before+1 {
		t.Errorf("runsOutputCapped = %d", runsOutputCapped.Value())
	}
}

func TestNewServer(t *testing.T) {
	saved := *config
	defer func() { *config = saved }()
	config.MaxSourceBytes = 100
	s := newServer()
	if s.Handler == nil || s.MaxRequestBodySize != 100+4096 {
		t.Errorf("server = %+v", s)
	}
}

func TestHandleRunRejects(t *testing.T) {
	setupDb(t, "handle_run_rejects")
	ctx := request(fasthttp.MethodGet, "/run", "")
	requestHandler(ctx)
	if ctx.Response.StatusCode() != fasthttp.StatusMethodNotAllowed {
		t.Errorf("GET status = %d", ctx.Response.StatusCode())
	}

	config.MaxSourceBytes = 8
	ctx = request(fasthttp.MethodPost, "/run", "print(123456789);")
	requestHandler(ctx)
	if ctx.Response.StatusCode() != fasthttp.StatusRequestEntityTooLarge {
		t.Errorf("large status = %d", ctx.Response.StatusCode())
	}

	ctx = request(fasthttp.MethodGet, "/nowhere", "")
	requestHandler(ctx)
	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Errorf("unknown path status = %d", ctx.Response.StatusCode())
	}
}

func TestHandleRuns(t *testing.T) {
	setupDb(t, "handle_runs")
	for _, source := range []string{"print(1);", "print(2);", "print(3);"} {
		postRun(t, "/run", source)
	}

	ctx := request(fasthttp.MethodGet, "/runs?limit=2", "")
	requestHandler(ctx)
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	var runs []model.RunEntry
	if err := json.Unmarshal(ctx.Response.Body(), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].Stdout != "3\n" || runs[1].Stdout != "2\n" {
		t.Errorf("got %+v", runs)
	}

	ctx = request(fasthttp.MethodGet, "/runs?limit=zero", "")
	requestHandler(ctx)
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Errorf("bad limit status = %d", ctx.Response.StatusCode())
	}
}

func TestStats(t *testing.T) {
	ctx := request(fasthttp.MethodGet, "/stats", "")
	requestHandler(ctx)
	if !strings.Contains(string(ctx.Response.Body()), "runsTotal") {
		t.Errorf("stats = %s", ctx.Response.Body())
	}
}

func TestCleanTask(t *testing.T) {
	setupDb(t, "clean_task")
	config.Retention = time.Hour
	old := ExecuteRun("print(1);", "", false)
	old.CreatedAt = time.Now().Add(-2 * time.Hour).Unix()
	fresh := ExecuteRun("print(2);", "", false)
	for _, e := range []*model.RunEntry{old, fresh} {
		if err := SaveRunEntry(e); err != nil {
			t.Fatal(err)
		}
	}

	cleanTask()

	runs, err := FindRecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != fresh.ID {
		t.Errorf("live runs = %+v", runs)
	}
	var total int64
	if err := DB.Unscoped().Model(&model.RunEntry{}).Count(&total).Error; err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("expired run was removed instead of soft-deleted: %d rows", total)
	}
}

func TestCleanTaskSkipsWhileRunning(t *testing.T) {
	cleanRunning.Set()
	defer cleanRunning.UnSet()
	// Returns before touching the database, which is not open here.
	cleanTask()
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "play.yaml")
	data := "addr: \":9090\"\nrun_timeout: 2s\nretention: 1h\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Addr != ":9090" || c.RunTimeout != 2*time.Second || c.Retention != time.Hour {
		t.Errorf("got %+v", c)
	}
	if c.DB != DefaultConfig().DB || c.CleanInterval != DefaultConfig().CleanInterval {
		t.Errorf("defaults lost: %+v", c)
	}

	if err := os.WriteFile(path, []byte("run_timeout: 0s\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("zero run_timeout accepted")
	}
}
