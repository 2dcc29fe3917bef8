package gibscript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
)

// REPLConfig configures the interactive console
type REPLConfig struct {
	Prompt      string        // Primary prompt, "] " when empty
	HistoryPath string        // File the history is loaded from and saved to; "" keeps it in memory
	ShowBanner  bool          // Print a greeting before the first prompt
	Interval    time.Duration // Time between frames; 0 means 1/60 s
	SettleLimit int           // Frames to wait for console output before prompting again
}

// REPL reads console lines with line editing and feeds them to the console
// stack while a background goroutine ticks the scheduler
type REPL struct {
	gs     *GibScript
	config REPLConfig
	line   *liner.State
}

// NewREPL creates a console for gs. Nothing touches the terminal until Run.
func NewREPL(gs *GibScript, config REPLConfig) *REPL {
	if config.Prompt == "" {
		config.Prompt = "] "
	}
	if config.Interval <= 0 {
		config.Interval = time.Second / 60
	}
	if config.SettleLimit <= 0 {
		config.SettleLimit = 120
	}
	return &REPL{gs: gs, config: config}
}

// Run prompts until end of input, "quit" or "exit", or until ctx is done.
// Frames keep running between prompts so threads and waits make progress.
func (r *REPL) Run(ctx context.Context) error {
	r.line = liner.NewLiner()
	defer r.line.Close()
	r.line.SetCtrlCAborts(true)
	r.line.SetTabCompletionStyle(liner.TabPrints)
	r.line.SetCompleter(r.complete)
	r.loadHistory()
	defer r.saveHistory()

	// the ticker must be gone before saveHistory logs
	ctx, stop := r.startTicker(ctx)
	defer stop()

	if r.config.ShowBanner {
		fmt.Println("GIB console. Type 'cmdlist' for commands, 'quit' to leave.")
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := r.readStatement()
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			fmt.Println()
			return nil
		case err != nil:
			return fmt.Errorf("reading console input: %w", err)
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		r.line.AppendHistory(strings.ReplaceAll(trimmed, "\n", " "))

		lower := strings.ToLower(trimmed)
		if lower == "quit" || lower == "exit" {
			return nil
		}

		r.gs.InjectText(StackConsole, input)
		r.settle()
	}
}

// readStatement reads lines until every brace and quote is closed
func (r *REPL) readStatement() (string, error) {
	prompt := r.config.Prompt
	var lines []string
	for {
		text, err := r.line.Prompt(prompt)
		if err != nil {
			return "", err
		}
		lines = append(lines, text)
		input := strings.Join(lines, "\n")
		open := openDelimiters(input)
		if open == "" {
			return input, nil
		}
		prompt = open + "* "
	}
}

// openDelimiters returns the braces and quote still open at the end of
// input, outermost first
func openDelimiters(input string) string {
	var stack []byte
	for i := 0; i < len(input); i++ {
		c := input[i]
		if escaped(input, i) {
			continue
		}
		inQuote := len(stack) > 0 && stack[len(stack)-1] == '"'
		switch {
		case c == '"' && inQuote:
			stack = stack[:len(stack)-1]
		case inQuote:
		case c == '"' || c == '{':
			stack = append(stack, c)
		case c == '}' && len(stack) > 0:
			stack = stack[:len(stack)-1]
		}
	}
	return string(stack)
}

// complete offers command names for the word being typed at the start of a statement
func (r *REPL) complete(line string) []string {
	start := strings.LastIndexAny(line, ";{") + 1
	word := strings.TrimLeft(line[start:], " \t")
	if word == "" || strings.ContainsAny(word, " \t\"") {
		return nil
	}
	head := line[:len(line)-len(word)]

	var out []string
	for _, name := range r.gs.Complete(word) {
		out = append(out, head+name)
	}
	return out
}

// startTicker runs tick in the background. The returned stop cancels it and
// returns only once no frame is running.
func (r *REPL) startTicker(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	ticking := make(chan struct{})
	go func() {
		defer close(ticking)
		r.tick(ctx)
	}()
	return ctx, func() {
		cancel()
		<-ticking
	}
}

// tick drives the scheduler until ctx is done
func (r *REPL) tick(ctx context.Context) {
	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.gs.Frame()
		}
	}
}

// settle waits for the console stack to drain so its output lands before the
// next prompt. Long-running statements are left to the background ticker.
func (r *REPL) settle() {
	for i := 0; i < r.config.SettleLimit && !r.gs.StackIdle(StackConsole); i++ {
		time.Sleep(r.config.Interval)
	}
}

func (r *REPL) loadHistory() {
	if r.config.HistoryPath == "" {
		return
	}
	f, err := os.Open(r.config.HistoryPath)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := r.line.ReadHistory(f); err != nil {
		r.gs.logger.DebugCat(CatIO, "reading history %s: %v", r.config.HistoryPath, err)
	}
}

func (r *REPL) saveHistory() {
	if r.config.HistoryPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.config.HistoryPath), 0o755); err != nil {
		r.gs.logger.DebugCat(CatIO, "creating history directory: %v", err)
		return
	}
	f, err := os.Create(r.config.HistoryPath)
	if err != nil {
		r.gs.logger.DebugCat(CatIO, "writing history %s: %v", r.config.HistoryPath, err)
		return
	}
	defer f.Close()
	if _, err := r.line.WriteHistory(f); err != nil {
		r.gs.logger.DebugCat(CatIO, "writing history %s: %v", r.config.HistoryPath, err)
	}
}
