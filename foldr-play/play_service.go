package main

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"log"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/expvarhandler"

	foldr_go "foldr-lang-go/foldr-go"
	"foldr-lang-go/model"
)

// Various counters - see https://pkg.go.dev/expvar for details.
var (
	runsTotal        = expvar.NewInt("runsTotal")
	runsFailed       = expvar.NewInt("runsFailed")
	runsTimedOut     = expvar.NewInt("runsTimedOut")
	runsOutputCapped = expvar.NewInt("runsOutputCapped")
	runsRejected     = expvar.NewInt("runsRejected")
	runsExpired      = expvar.NewInt("runsExpired")
	storageErrors    = expvar.NewInt("storageErrors")

	config     = DefaultConfig()
	playServer *fasthttp.Server
)

const (
	kDefaultRunsLimit = 20
	kMaxRunsLimit     = 200
)

type runResponse struct {
	ID         int64  `json:"id"`
	Stdout     string `json:"stdout"`
	ExitCode   int    `json:"exit_code"`
	Error      string `json:"error,omitempty"`
	SourceHash string `json:"source_hash"`
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	if kind, ok := foldr_go.KindOf(err); ok && kind == foldr_go.Interrupted {
		return 130
	}
	return 1
}

// ExecuteRun runs one submission under the configured time limit.
func ExecuteRun(source, stdin string, legacy bool) *model.RunEntry {
	entry := &model.RunEntry{
		SourceHash: foldr_go.HashSource(source),
		Source:     source,
		Stdin:      stdin,
		Legacy:     legacy,
	}
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), config.RunTimeout)
	defer cancel()
	stdout, err := foldr_go.RunStringLimit(ctx, source, stdin, config.MaxOutputBytes,
		foldr_go.EvalOptions{Legacy: legacy})
	end := time.Now()

	entry.Stdout = stdout
	entry.ExitCode = exitCodeOf(err)
	if err != nil {
		var e *foldr_go.Error
		if errors.As(err, &e) {
			entry.Error = e.Diagnostic()
			switch e.Kind {
			case foldr_go.TimeLimitExceeded:
				runsTimedOut.Add(1)
			case foldr_go.OutputLimitExceeded:
				runsOutputCapped.Add(1)
			}
		} else {
			entry.Error = "Error: " + err.Error()
		}
		runsFailed.Add(1)
	}
	entry.StartMillis = start.UnixMilli()
	entry.EndMillis = end.UnixMilli()
	entry.CreatedAt = end.Unix()
	return entry
}

func HandleRun(ctx *fasthttp.RequestCtx) {
	ctx.Response.Reset()
	if !ctx.IsPost() {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}
	body := ctx.PostBody()
	if len(body) > config.MaxSourceBytes {
		runsRejected.Add(1)
		ctx.Error("program too large", fasthttp.StatusRequestEntityTooLarge)
		return
	}
	args := ctx.QueryArgs()
	stdin := string(args.Peek("stdin"))
	legacy := string(args.Peek("legacy")) == "1"

	runsTotal.Add(1)
	entry := ExecuteRun(string(body), stdin, legacy)
	if err := SaveRunEntry(entry); err != nil {
		storageErrors.Add(1)
		log.Println(err)
	}
	buf, err := json.Marshal(runResponse{
		ID:         entry.ID,
		Stdout:     entry.Stdout,
		ExitCode:   entry.ExitCode,
		Error:      entry.Error,
		SourceHash: entry.SourceHash,
	})
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.Success("application/json", buf)
}

func HandleRuns(ctx *fasthttp.RequestCtx) {
	ctx.Response.Reset()
	limit := kDefaultRunsLimit
	if s := string(ctx.QueryArgs().Peek("limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			ctx.Error("limit must be a positive integer", fasthttp.StatusBadRequest)
			return
		}
		limit = min(n, kMaxRunsLimit)
	}
	runs, err := FindRecentRuns(limit)
	if err != nil {
		storageErrors.Add(1)
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	buf, err := json.Marshal(runs)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.Success("application/json", buf)
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/stats":
		expvarhandler.ExpvarHandler(ctx)
	case "/run":
		HandleRun(ctx)
	case "/runs":
		HandleRuns(ctx)
	default:
		ctx.Error("not found", fasthttp.StatusNotFound)
	}
}

func newServer() *fasthttp.Server {
	return &fasthttp.Server{
		Handler:            requestHandler,
		ReadTimeout:        time.Minute,
		WriteTimeout:       time.Minute,
		MaxRequestBodySize: config.MaxSourceBytes + 4096,
	}
}

// Serve blocks serving s on addr. s must be built before the goroutine
// starts so shutdown never races with it.
func Serve(s *fasthttp.Server, addr string) {
	log.Printf("Starting HTTP server on %q", addr)
	if err := s.ListenAndServe(addr); err != nil {
		log.Fatalf("error in ListenAndServe: %v", err)
	}
}

func shutdown(ctx context.Context) {
	if playServer != nil {
		if err := playServer.ShutdownWithContext(ctx); err != nil {
			log.Println(err)
		}
	}
	StopScheduler()
	if err := CloseDb(); err != nil {
		log.Println(err)
	}
}
