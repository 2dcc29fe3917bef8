package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/phroun/gibscript"
	"github.com/phroun/gibscript/src/pkg/conchars"
	"github.com/phroun/gibscript/src/pkg/cvars"
	"github.com/phroun/gibscript/src/pkg/sandbox"
	"github.com/phroun/gibscript/src/pkg/settings"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var version = "dev" // set via -ldflags at build time

// ANSI color codes for terminal output
const (
	colorYellow = "\x1b[93m" // Bright yellow foreground
	colorReset  = "\x1b[0m"  // Reset to default
)

// errorPrintf prints an error message to stderr, using color if supported
func errorPrintf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if gibscript.StderrSupportsColor() {
		fmt.Fprintf(os.Stderr, "%s%s%s", colorYellow, message, colorReset)
	} else {
		fmt.Fprint(os.Stderr, message)
	}
}

func main() {
	configFlag := flag.String("config", "", "Configuration file (default ~/.gib/gib.toml)")
	debugFlag := flag.Bool("debug", false, "Enable debug output")
	flag.BoolVar(debugFlag, "d", false, "Enable debug output (short)")
	sandboxFlag := flag.String("sandbox", "", "Directory scripts may read and write")
	dbFlag := flag.String("db", "", "SQLite database for archived variables (\"none\" keeps them in memory)")
	maxLoopFlag := flag.Int("maxloop", -1, "Maximum loop iterations (0 = unbounded)")
	noWarnFlag := flag.Bool("nowarn", false, "Do not report unknown commands")
	fpsFlag := flag.Int("fps", 0, "Scheduler frames per second")
	logFlag := flag.String("log", "", "Write diagnostics to this file instead of stderr")
	versionFlag := flag.Bool("version", false, "Show version and exit")

	flag.Usage = showUsage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("gib %s\n", version)
		os.Exit(0)
	}

	// Load host configuration, creating the default file on first run
	configPath := *configFlag
	if configPath == "" {
		configPath = settings.DefaultPath()
		if err := settings.WriteDefault(configPath); err != nil {
			errorPrintf("Warning: %v\n", err)
		}
	}
	cfg, err := settings.Load(configPath)
	if err != nil {
		errorPrintf("Error: %v\n", err)
		os.Exit(1)
	}

	// Command line overrides
	if *debugFlag {
		cfg.Engine.Debug = true
	}
	if *sandboxFlag != "" {
		cfg.Sandbox.Root = *sandboxFlag
	}
	if *dbFlag != "" {
		cfg.Cvars.Database = *dbFlag
	}
	if *maxLoopFlag >= 0 {
		cfg.Engine.MaxLoopIterations = *maxLoopFlag
	}
	if *noWarnFlag {
		cfg.Engine.WarnUnknownCommand = false
	}
	if *fpsFlag > 0 {
		cfg.Engine.FrameRate = *fpsFlag
	}
	if *logFlag != "" {
		cfg.Log.Path = *logFlag
	}

	configureLogging(cfg)

	root, err := openSandbox(cfg.Sandbox)
	if err != nil {
		errorPrintf("Error: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore(cfg.Cvars)
	if err != nil {
		errorPrintf("Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	if err := cvars.RegisterDefaults(store); err != nil {
		errorPrintf("Warning: seeding variables: %v\n", err)
	}

	gs := gibscript.New(&gibscript.Config{
		Debug:              cfg.Engine.Debug,
		LogCategories:      logCategories(cfg.Log.Categories),
		WarnUnknownCommand: cfg.Engine.WarnUnknownCommand,
		MaxLoopIterations:  cfg.Engine.MaxLoopIterations,
		Output:             conchars.NewWriter(os.Stdout, gibscript.OutputSupportsColor()),
		ErrOutput:          os.Stderr,
		Variables:          store,
		FileSystem:         root,
	})
	gs.RegisterVariableLib(store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := flag.Args()
	var scriptFile string
	if len(args) > 0 && !strings.HasPrefix(args[0], "+") {
		scriptFile = args[0]
		args = args[1:]
	}

	// +set lines are applied at once, other +commands run ahead of the input
	gs.LoadCommandLine(args)

	interval := time.Second / time.Duration(cfg.Engine.FrameRate)

	switch {
	case scriptFile != "":
		content, err := os.ReadFile(scriptFile)
		if err != nil {
			errorPrintf("Error reading script file: %v\n", err)
			os.Exit(1)
		}
		gs.InjectText(gibscript.StackConsole, string(content))

	case !gibscript.IsInteractive():
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			errorPrintf("Error reading from stdin: %v\n", err)
			os.Exit(1)
		}
		gs.InjectText(gibscript.StackConsole, string(content))

	default:
		repl := gibscript.NewREPL(gs, gibscript.REPLConfig{
			Prompt:      cfg.REPL.Prompt,
			HistoryPath: cfg.REPL.History,
			ShowBanner:  true,
			Interval:    interval,
		})
		if err := repl.Run(ctx); err != nil {
			errorPrintf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !runFrames(ctx, gs, interval) {
		os.Exit(130)
	}
	if gs.LastError() != nil {
		os.Exit(1)
	}
}

// runFrames ticks the scheduler until nothing is pending. It reports false
// when interrupted.
func runFrames(ctx context.Context, gs *gibscript.GibScript, interval time.Duration) bool {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	gs.Frame()
	for !gs.Idle() {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			gs.Frame()
		}
	}
	return true
}

// configureLogging points the commonlog backend at stderr or the log file
func configureLogging(cfg *settings.Settings) {
	verbosity := cfg.Log.Verbosity
	if cfg.Engine.Debug && verbosity < 2 {
		verbosity = 2
	}
	var path *string
	if cfg.Log.Path != "" {
		path = &cfg.Log.Path
	}
	commonlog.Configure(verbosity, path)
}

// logCategories keeps the configured names that match a known category
func logCategories(names []string) []gibscript.LogCategory {
	var cats []gibscript.LogCategory
	for _, name := range names {
		for _, cat := range gibscript.AllLogCategories() {
			if strings.EqualFold(name, string(cat)) {
				cats = append(cats, cat)
			}
		}
	}
	return cats
}

func openSandbox(cfg settings.Sandbox) (*sandbox.Root, error) {
	perm := sandbox.PermRead | sandbox.PermWrite
	if cfg.ReadOnly {
		perm = sandbox.PermRead
	}
	dir := cfg.Root
	if dir == "" {
		dir = "."
	}
	return sandbox.New(dir, perm)
}

func openStore(cfg settings.Cvars) (cvars.Store, error) {
	if cfg.Database == "" || cfg.Database == "none" {
		return cvars.NewMemoryStore(), nil
	}
	store, err := cvars.OpenSQLStore(filepath.Clean(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("opening variable database: %w", err)
	}
	return store, nil
}

func showUsage() {
	usage := `Usage: gib [options] [script.gib] [+command args...]
       gib [options] < input.gib
       echo "commands" | gib [options]

Execute GIB commands from a file, stdin, or an interactive console.

Options:
  -config FILE        Configuration file (default ~/.gib/gib.toml)
  -d, -debug          Enable debug output
  -sandbox DIR        Directory exec and the file commands may use (default .)
  -db FILE            SQLite database for archived variables ("none" = memory only)
  -maxloop N          Maximum loop iterations (0 = unbounded)
  -nowarn             Do not report unknown commands
  -fps N              Scheduler frames per second (default 60)
  -log FILE           Write diagnostics to FILE instead of stderr
  -version            Show version and exit

Arguments:
  script.gib          Script file to run on the console stack
  +command args...    Console commands queued at startup; +set lines run first

Examples:
  gib autoexec.gib
  gib -sandbox ./data +set developer 1 +exec startup.cfg
  echo 'for {i = 0; #{$i < 3}; i = #{$i + 1}} {echo $i}' | gib
`
	fmt.Fprint(os.Stderr, usage)
}
