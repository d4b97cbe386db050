package foldr_go

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/go-co-op/gocron/v2"
)

const kFoldrVersion = "1.0.1"

const kFoldrLogEnv = "FOLDR_LOG"

type WarningAction int8

const (
	kWarningOff WarningAction = iota
	kWarningWarn
	kWarningError
)

// / Command-line options.
type Options struct {
	/// Program to run.
	InputFile string

	/// Directory to change into before running.
	WorkingDir string

	/// Tool to run rather than running the program.
	Tool *Tool

	/// Reproduce the silent failures of foldr 1.0.
	Legacy bool

	/// Print call entry and exit.
	Trace bool

	/// Run log path; empty disables recording.
	RunLog string

	/// Abort evaluation after this long; 0 means no limit.
	TimeLimit time.Duration

	/// What to do with lint findings, per -w flag family.
	Warnings map[string]WarningAction
}

// / When a tool runs relative to loading the program.
type When int8

const (
	/// Run after parsing command-line flags; no program is needed.
	RUN_AFTER_FLAGS When = iota

	/// Run after reading the source file.
	RUN_AFTER_READ

	/// Run after parsing the program.
	RUN_AFTER_LOAD
)

type ToolFunc func(*FoldrMain, []string) int

// / Subtools, accessible via "-t foo".
type Tool struct {
	Name  string
	Desc  string
	When  When
	Func1 ToolFunc
}

// / FoldrMain is the command line driver. It owns the console streams so
// / tests can run it against buffers.
type FoldrMain struct {
	Options Options

	/// Install a SIGINT/SIGTERM handler while the program runs.
	HandleSignals bool

	stdin_  io.Reader
	stdout_ io.Writer
	stderr_ io.Writer
	status_ *StatusPrinter

	source_  string
	program_ *Program
}

func NewFoldrMain(stdin io.Reader, stdout, stderr io.Writer) *FoldrMain {
	ret := FoldrMain{}
	ret.stdin_ = stdin
	ret.stdout_ = stdout
	ret.stderr_ = stderr
	ret.status_ = NewStatusPrinter(stdout, stderr)
	ret.Options.Warnings = map[string]WarningAction{
		kWarnShadow: kWarningOff,
		kWarnTypes:  kWarningOff,
	}
	if path := os.Getenv(kFoldrLogEnv); path != "" {
		ret.Options.RunLog = path
	}
	return &ret
}

// / RealMain runs the command line against the process streams and
// / returns the exit status.
func RealMain(args []string) int {
	m := NewFoldrMain(os.Stdin, os.Stdout, os.Stderr)
	m.HandleSignals = true
	return m.Main(args)
}

func (this *FoldrMain) ShowLogo() {
	fmt.Fprintf(this.stdout_, "\n"+
		"  ███████╗ ██████╗ ██╗     ██████╗ ██████╗ \n"+
		"  ██╔════╝██╔═══██╗██║     ██╔══██╗██╔══██╗\n"+
		"  █████╗  ██║   ██║██║     ██║  ██║██████╔╝\n"+
		"  ██╔══╝  ██║   ██║██║     ██║  ██║██╔══██╗\n"+
		"  ██║     ╚██████╔╝███████╗██████╔╝██║  ██║\n"+
		"  ╚═╝      ╚═════╝ ╚══════╝╚═════╝ ╚═╝  ╚═╝\n"+
		"\n"+
		"     Foldr Programming Language v%s\n"+
		"     Type 'foldr --help' for commands\n\n",
		kFoldrVersion)
}

func (this *FoldrMain) UsageMain() {
	fmt.Fprintf(this.stdout_,
		"Foldr Programming Language v%s\n"+
			"\n"+
			"usage: foldr [options] [file.fld]\n"+
			"\n"+
			"with no file, shows the logo and version.\n"+
			"\n"+
			"options:\n"+
			"  -h, --help     show this help message\n"+
			"  -v, --version  show version information\n"+
			"  -c             legacy mode: fail silently like foldr 1.0\n"+
			"\n"+
			"  -C DIR   change to DIR before doing anything else\n"+
			"  -L FILE  record runs in the SQLite run log FILE [default=$%s]\n"+
			"  -T SECS  abort the program after SECS seconds\n"+
			"\n"+
			"  -d MODE  enable debugging (use '-d list' to list modes)\n"+
			"  -t TOOL  run a subtool (use '-t list' to list subtools)\n"+
			"  -w FLAG  adjust warnings (use '-w list' to list warnings)\n",
		kFoldrVersion, kFoldrLogEnv)
}

// / Parse args for command-line options. args[0] is the program name.
// / Returns an exit code, or -1 if foldr should continue.
func (this *FoldrMain) ReadFlags(args *[]string) int {
	if len(*args) < 2 {
		this.ShowLogo()
		return 0
	}
	switch (*args)[1] {
	case "--help":
		this.UsageMain()
		return 0
	case "--version":
		fmt.Fprintf(this.stdout_, "Foldr v%s\n", kFoldrVersion)
		return 0
	}

	opts, optind, err := getopt.Getopts(*args, "cd:ht:vw:C:L:T:")
	if err != nil {
		this.status_.Error("%v", err)
		this.UsageMain()
		return 1
	}
	*args = (*args)[optind:]
	for _, optV := range opts {
		optarg := optV.Value
		switch optV.Option {
		case 'c':
			this.Options.Legacy = true
		case 'd':
			if !this.DebugEnable(optarg) {
				return listExitCode(optarg)
			}
		case 't':
			this.Options.Tool = this.ChooseTool(optarg)
			if this.Options.Tool == nil {
				return listExitCode(optarg)
			}
		case 'w':
			if !this.WarningEnable(optarg) {
				return listExitCode(optarg)
			}
		case 'C':
			this.Options.WorkingDir = optarg
		case 'L':
			this.Options.RunLog = optarg
		case 'T':
			secs, err := strconv.ParseFloat(optarg, 64)
			if err != nil || secs <= 0 {
				this.status_.Error("-T parameter must be a positive number of seconds")
				return 1
			}
			this.Options.TimeLimit = time.Duration(secs * float64(time.Second))
		case 'v':
			fmt.Fprintf(this.stdout_, "Foldr v%s\n", kFoldrVersion)
			return 0
		case 'h':
			this.UsageMain()
			return 0
		}
	}
	return -1
}

// / Listing the choices of -d, -t or -w is a successful run.
func listExitCode(optarg string) int {
	if optarg == "list" {
		return 0
	}
	return 1
}

// / Enable a debugging mode. Returns false if foldr should exit instead
// / of continuing.
func (this *FoldrMain) DebugEnable(name string) bool {
	switch name {
	case "list":
		fmt.Fprintf(this.stdout_, "debugging modes:\n"+
			"  stats        print operation counts/timing info\n"+
			"  trace        print each function call and its result\n"+
			"multiple modes can be enabled via -d FOO -d BAR\n")
		return false
	case "stats":
		GMetrics = NewMetrics()
		return true
	case "trace":
		this.Options.Trace = true
		return true
	}
	suggestion := SpellcheckString(name, "stats", "trace")
	if suggestion != "" {
		this.status_.Error("unknown debug setting '%s', did you mean '%s'?", name, suggestion)
	} else {
		this.status_.Error("unknown debug setting '%s'", name)
	}
	return false
}

// / Set a warning flag. Returns false if foldr should exit instead of
// / continuing.
func (this *FoldrMain) WarningEnable(name string) bool {
	if name == "list" {
		fmt.Fprintf(this.stdout_, "warning flags:\n"+
			"  shadow={err,warn}  function declaration can never be called\n"+
			"  types={err,warn}   unknown type annotation\n")
		return false
	}
	flags := []string{}
	for _, family := range []string{kWarnShadow, kWarnTypes} {
		for _, action := range []string{"err", "warn"} {
			flags = append(flags, family+"="+action)
		}
	}
	family, action, _ := strings.Cut(name, "=")
	if _, ok := this.Options.Warnings[family]; ok {
		switch action {
		case "err":
			this.Options.Warnings[family] = kWarningError
			return true
		case "warn":
			this.Options.Warnings[family] = kWarningWarn
			return true
		}
	}
	suggestion := SpellcheckStringV(name, flags)
	if suggestion != "" {
		this.status_.Error("unknown warning flag '%s', did you mean '%s'?", name, suggestion)
	} else {
		this.status_.Error("unknown warning flag '%s'", name)
	}
	return false
}

// / Find the function to execute for tool_name and return it. Returns nil
// / after listing the tools or reporting an unknown name.
func (this *FoldrMain) ChooseTool(tool_name string) *Tool {
	kTools := []Tool{
		{"lex", "print the token stream of a program",
			RUN_AFTER_READ, (*FoldrMain).ToolLex},
		{"ast", "print the parsed program as S-expressions",
			RUN_AFTER_LOAD, (*FoldrMain).ToolAst},
		{"check", "parse and lint a program without running it",
			RUN_AFTER_LOAD, (*FoldrMain).ToolCheck},
		{"history", "show recent runs from the run log",
			RUN_AFTER_FLAGS, (*FoldrMain).ToolHistory},
		{"repl", "read and run statements interactively",
			RUN_AFTER_FLAGS, (*FoldrMain).ToolRepl},
	}

	if tool_name == "list" {
		fmt.Fprintf(this.stdout_, "foldr subtools:\n")
		for _, tool := range kTools {
			fmt.Fprintf(this.stdout_, "%11s  %s\n", tool.Name, tool.Desc)
		}
		return nil
	}

	for _, tool := range kTools {
		if tool.Name == tool_name {
			return &tool
		}
	}

	words := []string{}
	for _, tool := range kTools {
		words = append(words, tool.Name)
	}
	suggestion := SpellcheckStringV(tool_name, words)
	if suggestion != "" {
		this.status_.Error("unknown tool '%s', did you mean '%s'?", tool_name, suggestion)
	} else {
		this.status_.Error("unknown tool '%s'", tool_name)
	}
	return nil
}

func (this *FoldrMain) ToolLex(args []string) int {
	lexer := NewLexer(this.source_)
	for {
		t := lexer.ReadToken()
		fmt.Fprintf(this.stdout_, "%4d  %-12s %s\n", t.Line, t.Kind, t.Lexeme)
		if t.Kind == TEOF {
			return 0
		}
		if t.Kind == ERROR {
			return 1
		}
	}
}

func (this *FoldrMain) ToolAst(args []string) int {
	DumpProgram(this.stdout_, this.program_)
	return 0
}

func (this *FoldrMain) ToolCheck(args []string) int {
	if !this.reportWarnings() {
		return 1
	}
	this.status_.Info("%s: ok", this.Options.InputFile)
	return 0
}

func (this *FoldrMain) ToolHistory(args []string) int {
	if this.Options.RunLog == "" {
		this.status_.Error("no run log; pass -L FILE or set $%s", kFoldrLogEnv)
		return 1
	}
	limit := 20
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			this.status_.Error("history limit must be a positive number, got '%s'", args[0])
			return 1
		}
		limit = n
	}
	runLog := NewRunLog()
	defer runLog.Close()
	status, err := runLog.Load(this.Options.RunLog)
	switch status {
	case LOAD_NOT_FOUND:
		return 0
	case LOAD_ERROR:
		this.status_.Error("loading run log %s: %v", this.Options.RunLog, err)
		return 1
	}
	entries, err := runLog.Recent(limit)
	if err != nil {
		this.status_.Error("reading run log: %v", err)
		return 1
	}
	for _, e := range entries {
		start := time.UnixMilli(e.StartMillis).Format("2006-01-02 15:04:05")
		fmt.Fprintf(this.stdout_, "%5d  %s  %6dms  exit %-3d %s  %s\n",
			e.ID, start, e.EndMillis-e.StartMillis, e.ExitCode, e.SourceHash[:min(12, len(e.SourceHash))], e.Path)
		if e.Error != "" {
			fmt.Fprintf(this.stdout_, "       %s\n", e.Error)
		}
	}
	return 0
}

// / Print lint findings per the -w settings. Returns false if any finding
// / is configured as an error.
func (this *FoldrMain) reportWarnings() bool {
	ok := true
	for _, w := range Lint(this.program_) {
		switch this.Options.Warnings[w.Flag] {
		case kWarningWarn:
			this.status_.Warning("%s: %s", this.Options.InputFile, w)
		case kWarningError:
			this.status_.Error("%s: %s", this.Options.InputFile, w)
			ok = false
		}
	}
	return ok
}

// / Main runs the whole command line and returns the exit status.
func (this *FoldrMain) Main(args []string) int {
	exit_code := this.ReadFlags(&args)
	if exit_code >= 0 {
		return exit_code
	}

	if this.Options.WorkingDir != "" {
		if this.Options.Tool == nil {
			this.status_.Info("Entering directory `%s'", this.Options.WorkingDir)
		}
		if err := os.Chdir(this.Options.WorkingDir); err != nil {
			this.status_.Error("chdir to '%s' - %v", this.Options.WorkingDir, err)
			return 1
		}
	}

	if this.Options.Tool != nil && this.Options.Tool.When == RUN_AFTER_FLAGS {
		return this.Options.Tool.Func1(this, args)
	}

	if len(args) == 0 {
		this.status_.Error("no input file; try 'foldr --help'")
		return 1
	}
	this.Options.InputFile = args[0]
	args = args[1:]

	content, err := os.ReadFile(this.Options.InputFile)
	if err != nil {
		fmt.Fprintf(this.stderr_, "Error: Cannot open file '%s'\n", this.Options.InputFile)
		return 1
	}
	this.source_ = string(content)

	if this.Options.Tool != nil && this.Options.Tool.When == RUN_AFTER_READ {
		return this.Options.Tool.Func1(this, args)
	}

	start := time.Now()
	exit_code, err = this.load()
	if err == nil {
		if this.Options.Tool != nil && this.Options.Tool.When == RUN_AFTER_LOAD {
			return this.Options.Tool.Func1(this, args)
		}
		exit_code, err = this.run()
	}
	this.recordRun(start, exit_code, err)

	if GMetrics != nil {
		GMetrics.Report(this.stdout_)
	}
	return exit_code
}

// / Parse and lint the source.
func (this *FoldrMain) load() (int, error) {
	prog, err := ParseSource(this.source_)
	if err != nil {
		this.status_.Diagnostic(err)
		return 1, err
	}
	this.program_ = prog
	if this.Options.Tool == nil && !this.reportWarnings() {
		return 1, errors.New("warnings treated as errors")
	}
	return 0, nil
}

func (this *FoldrMain) run() (int, error) {
	options := EvalOptions{Legacy: this.Options.Legacy}
	if this.Options.Trace {
		options.Tracer = this.status_
	}
	interp := NewInterpreter(this.stdin_, this.stdout_, options)

	if this.HandleSignals {
		stop := TerminateHandler(interp.Interrupter())
		defer stop()
	}
	if this.Options.TimeLimit > 0 {
		scheduler, err := this.scheduleTimeLimit(interp.Interrupter())
		if err != nil {
			this.status_.Error("time limit: %v", err)
			return 1, err
		}
		defer scheduler.Shutdown()
	}

	err := interp.RunProgram(this.program_)
	if err == nil {
		return 0, nil
	}
	this.status_.Diagnostic(err)
	if kind, ok := KindOf(err); ok && kind == Interrupted {
		return 130, err
	}
	return 1, err
}

func (this *FoldrMain) scheduleTimeLimit(interrupter *Interrupter) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(time.Now().Add(this.Options.TimeLimit))),
		gocron.NewTask(func() {
			interrupter.Interrupt(TimeLimitExceeded)
		}),
	)
	if err != nil {
		scheduler.Shutdown()
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}

func (this *FoldrMain) recordRun(start time.Time, exit_code int, runErr error) {
	if this.Options.RunLog == "" {
		return
	}
	runLog := NewRunLog()
	defer runLog.Close()
	if err := runLog.OpenForWrite(this.Options.RunLog); err != nil {
		this.status_.Warning("opening run log %s: %v", this.Options.RunLog, err)
		return
	}
	entry := RunEntry{
		Path:        this.Options.InputFile,
		SourceHash:  HashSource(this.source_),
		StartMillis: start.UnixMilli(),
		EndMillis:   time.Now().UnixMilli(),
		ExitCode:    exit_code,
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if err := runLog.RecordRun(&entry); err != nil {
		this.status_.Warning("writing run log: %v", err)
	}
}
