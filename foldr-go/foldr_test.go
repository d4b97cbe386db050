package foldr_go

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runFoldr(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("CLICOLOR_FORCE", "0")
	t.Setenv(kFoldrLogEnv, "")
	var stdout, stderr bytes.Buffer
	m := NewFoldrMain(strings.NewReader(stdin), &stdout, &stderr)
	code := m.Main(append([]string{"foldr"}, args...))
	return code, stdout.String(), stderr.String()
}

func writeProgram(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.fld")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMainLogoHelpVersion(t *testing.T) {
	code, out, _ := runFoldr(t, "")
	if code != 0 || !strings.Contains(out, "     Foldr Programming Language v1.0.1\n     Type 'foldr --help' for commands\n\n") {
		t.Errorf("logo: %d %q", code, out)
	}
	for _, flag := range []string{"--help", "-h"} {
		code, out, _ := runFoldr(t, "", flag)
		if code != 0 || !strings.Contains(out, "usage: foldr [options] [file.fld]") {
			t.Errorf("%s: %d %q", flag, code, out)
		}
	}
	for _, flag := range []string{"--version", "-v"} {
		code, out, _ := runFoldr(t, "", flag)
		if code != 0 || out != "Foldr v1.0.1\n" {
			t.Errorf("%s: %d %q", flag, code, out)
		}
	}
}

func TestMainRunsProgram(t *testing.T) {
	path := writeProgram(t, `let name = input("who? "); print("hello " + name);`)
	code, out, errOut := runFoldr(t, "world\n", path)
	if code != 0 || out != "who? hello world\n" || errOut != "" {
		t.Errorf("got %d %q %q", code, out, errOut)
	}
}

func TestMainCannotOpenFile(t *testing.T) {
	code, _, errOut := runFoldr(t, "", "nope.fld")
	if code != 1 || errOut != "Error: Cannot open file 'nope.fld'\n" {
		t.Errorf("got %d %q", code, errOut)
	}
}

func TestMainRuntimeError(t *testing.T) {
	path := writeProgram(t, "print(1);\nprint(y);\nprint(2);")
	code, out, errOut := runFoldr(t, "", path)
	if code != 1 {
		t.Errorf("exit = %d", code)
	}
	if out != "1\n" {
		t.Errorf("stdout = %q", out)
	}
	if errOut != "Error: undefined variable 'y' (line 2, token='y', type=IDENTIFIER)\n" {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestMainSyntaxErrorRunsNothing(t *testing.T) {
	path := writeProgram(t, "print(1);\nlet = 2;")
	code, out, errOut := runFoldr(t, "", path)
	if code != 1 || out != "" || !strings.HasPrefix(errOut, "Error: expected variable name") {
		t.Errorf("got %d %q %q", code, out, errOut)
	}
}

func TestMainConstAssignment(t *testing.T) {
	path := writeProgram(t, "const x = 1; x = 2;")
	code, _, errOut := runFoldr(t, "", path)
	if code != 1 || errOut != "Error: Cannot reassign const variable 'x'\n" {
		t.Errorf("got %d %q", code, errOut)
	}
}

func TestMainLegacyMode(t *testing.T) {
	path := writeProgram(t, "missing(); x += 2; print(x);")
	if code, _, _ := runFoldr(t, "", path); code != 1 {
		t.Errorf("strict exit = %d", code)
	}
	code, out, _ := runFoldr(t, "", "-c", path)
	if code != 0 || out != "2\n" {
		t.Errorf("legacy: %d %q", code, out)
	}
}

func TestMainLists(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-t", "list"}, "foldr subtools:\n        lex  print the token stream of a program\n"},
		{[]string{"-d", "list"}, "debugging modes:\n  stats"},
		{[]string{"-w", "list"}, "warning flags:\n  shadow={err,warn}"},
	}
	for _, tt := range tests {
		code, out, _ := runFoldr(t, "", tt.args...)
		if code != 0 || !strings.HasPrefix(out, tt.want) {
			t.Errorf("%v: %d %q", tt.args, code, out)
		}
	}
}

func TestMainUnknownNamesSuggest(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-t", "asts"}, "foldr: error: unknown tool 'asts', did you mean 'ast'?\n"},
		{[]string{"-d", "stat"}, "foldr: error: unknown debug setting 'stat', did you mean 'stats'?\n"},
		{[]string{"-w", "shadow=eror"}, "foldr: error: unknown warning flag 'shadow=eror', did you mean 'shadow=err'?\n"},
		{[]string{"-w", "bogus"}, "foldr: error: unknown warning flag 'bogus'\n"},
	}
	for _, tt := range tests {
		code, _, errOut := runFoldr(t, "", tt.args...)
		if code != 1 || errOut != tt.want {
			t.Errorf("%v: %d %q", tt.args, code, errOut)
		}
	}
}

func TestMainBadOptions(t *testing.T) {
	if code, _, errOut := runFoldr(t, "", "-x", "a.fld"); code != 1 || errOut == "" {
		t.Errorf("-x: %d %q", code, errOut)
	}
	if code, _, errOut := runFoldr(t, "", "-T", "soon", "a.fld"); code != 1 || !strings.Contains(errOut, "-T parameter") {
		t.Errorf("-T: %d %q", code, errOut)
	}
	if code, _, errOut := runFoldr(t, "", "-c"); code != 1 || !strings.Contains(errOut, "no input file") {
		t.Errorf("no file: %d %q", code, errOut)
	}
}

func TestMainToolAstAndLex(t *testing.T) {
	path := writeProgram(t, "let x = 1 + 2;\nprint(x);")
	code, out, _ := runFoldr(t, "", "-t", "ast", path)
	if code != 0 || out != "   1  (let x (+ 1 2))\n   2  (call print x)\n" {
		t.Errorf("ast: %d %q", code, out)
	}
	code, out, _ = runFoldr(t, "", "-t", "lex", path)
	if code != 0 {
		t.Errorf("lex exit = %d", code)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 13 || !strings.HasPrefix(lines[0], "   1  LET") || !strings.HasPrefix(lines[12], "   2  EOF") {
		t.Errorf("lex: %q", out)
	}
}

func TestMainWarnings(t *testing.T) {
	path := writeProgram(t, "func print(a) { }\nprint(5);")

	code, out, errOut := runFoldr(t, "", path)
	if code != 0 || out != "5\n" || errOut != "" {
		t.Errorf("default: %d %q %q", code, out, errOut)
	}

	code, out, errOut = runFoldr(t, "", "-w", "shadow=warn", path)
	want := "foldr: warning: " + path + ": line 1: function 'print' is shadowed by a built-in and can never be called\n"
	if code != 0 || out != "5\n" || errOut != want {
		t.Errorf("warn: %d %q %q", code, out, errOut)
	}

	code, out, _ = runFoldr(t, "", "-w", "shadow=err", path)
	if code != 1 || out != "" {
		t.Errorf("err: %d %q", code, out)
	}

	code, _, _ = runFoldr(t, "", "-w", "shadow=err", "-t", "check", path)
	if code != 1 {
		t.Errorf("check err: %d", code)
	}
	code, out, _ = runFoldr(t, "", "-w", "types=err", "-t", "check", path)
	if code != 0 || out != "foldr: "+path+": ok\n" {
		t.Errorf("check: %d %q", code, out)
	}
}

func TestMainTimeLimit(t *testing.T) {
	path := writeProgram(t, "print(1);\nwhile (1) { }")
	code, out, errOut := runFoldr(t, "", "-T", "0.05", path)
	if code != 1 || out != "1\n" || !strings.HasPrefix(errOut, "Error: time limit exceeded (line 2") {
		t.Errorf("got %d %q %q", code, out, errOut)
	}
}

func TestMainRunLogAndHistory(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "runs.db")
	ok := writeProgram(t, "print(1);")
	bad := writeProgram(t, "print(nope);")

	if code, _, _ := runFoldr(t, "", "-L", logPath, ok); code != 0 {
		t.Fatalf("ok exit = %d", code)
	}
	if code, _, _ := runFoldr(t, "", "-L", logPath, bad); code != 1 {
		t.Fatalf("bad exit = %d", code)
	}

	code, out, _ := runFoldr(t, "", "-L", logPath, "-t", "history")
	if code != 0 {
		t.Fatalf("history exit = %d", code)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("history = %q", out)
	}
	if !strings.Contains(lines[0], "exit 1") || !strings.HasSuffix(lines[0], bad) {
		t.Errorf("newest = %q", lines[0])
	}
	if !strings.Contains(lines[1], "undefined variable 'nope'") {
		t.Errorf("error line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "exit 0") || !strings.HasSuffix(lines[2], ok) {
		t.Errorf("oldest = %q", lines[2])
	}

	code, out, _ = runFoldr(t, "", "-L", logPath, "-t", "history", "1")
	if code != 0 || strings.Count(out, "\n") != 2 {
		t.Errorf("history 1: %d %q", code, out)
	}

	if code, _, errOut := runFoldr(t, "", "-t", "history"); code != 1 || !strings.Contains(errOut, "no run log") {
		t.Errorf("no log: %d %q", code, errOut)
	}
}

func TestMainStats(t *testing.T) {
	saved := GMetrics
	defer func() { GMetrics = saved }()

	path := writeProgram(t, "func f() { } f();")
	code, out, _ := runFoldr(t, "", "-d", "stats", path)
	if code != 0 || !strings.HasPrefix(out, "metric") || !strings.Contains(out, "call f") {
		t.Errorf("got %d %q", code, out)
	}
}

func TestMainTrace(t *testing.T) {
	path := writeProgram(t, "func f(a) { return a; } f(3);")
	code, _, errOut := runFoldr(t, "", "-d", "trace", path)
	if code != 0 || errOut != "trace: -> f(3) line 1\ntrace: <- f = 3\n" {
		t.Errorf("got %d %q", code, errOut)
	}
}

func TestMainChangeDirectory(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	path := writeProgram(t, "print(7);")
	code, out, _ := runFoldr(t, "", "-C", filepath.Dir(path), filepath.Base(path))
	want := "foldr: Entering directory `" + filepath.Dir(path) + "'\n7\n"
	if code != 0 || out != want {
		t.Errorf("got %d %q", code, out)
	}
}
