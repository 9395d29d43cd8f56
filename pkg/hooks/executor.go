package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/vanderheijden86/mindmap/pkg/debug"
)

// HookResult records one hook run.
type HookResult struct {
	Hook     string
	Phase    HookPhase
	Success  bool
	Error    error
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Executor runs configured hooks and keeps their results.
type Executor struct {
	config  *Config
	ctx     ExportContext
	dir     string // working directory, empty for the current one
	results []HookResult
}

// NewExecutor creates an executor for config.
func NewExecutor(config *Config, ctx ExportContext) *Executor {
	if config == nil {
		config = &Config{}
	}
	return &Executor{config: config, ctx: ctx}
}

// SetExport points later post-export runs at a written file.
func (e *Executor) SetExport(path, format string) {
	e.ctx.ExportPath = path
	e.ctx.ExportFormat = format
}

// RunPreExport runs pre-export hooks in order and stops at the first
// failing hook whose policy is fail.
func (e *Executor) RunPreExport() error {
	for _, h := range e.config.Hooks.PreExport {
		r := e.run(h, PreExport)
		if !r.Success && h.OnError != OnErrorContinue {
			return fmt.Errorf("pre-export hook %q failed: %w", h.Name, r.Error)
		}
	}
	return nil
}

// RunPostExport runs every post-export hook and returns the failures whose
// policy is fail.
func (e *Executor) RunPostExport() error {
	var errs []error
	for _, h := range e.config.Hooks.PostExport {
		r := e.run(h, PostExport)
		if !r.Success && h.OnError == OnErrorFail {
			errs = append(errs, fmt.Errorf("post-export hook %q failed: %w", h.Name, r.Error))
		}
	}
	return errors.Join(errs...)
}

// Results returns the runs so far, oldest first.
func (e *Executor) Results() []HookResult {
	return e.results
}

func (e *Executor) run(h Hook, phase HookPhase) HookResult {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := shellCommand(ctx, h.Command)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), e.ctx.ToEnv()...)
	for k, v := range h.Env {
		cmd.Env = append(cmd.Env, k+"="+os.ExpandEnv(v))
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	cmd.WaitDelay = 100 * time.Millisecond

	start := time.Now()
	err := cmd.Run()
	r := HookResult{
		Hook:     h.Name,
		Phase:    phase,
		Success:  err == nil,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %v", timeout)
		}
		r.Error = err
	}
	debug.Logw("hook ran", "hook", h.Name, "phase", phase, "ok", r.Success, "elapsed", r.Duration)
	e.results = append(e.results, r)
	return r
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}

// Summary describes the runs for the terminal. Empty when nothing ran.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	ok := 0
	for _, r := range e.results {
		if r.Success {
			ok++
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "hooks: %d succeeded, %d failed", ok, len(e.results)-ok)
	for _, r := range e.results {
		if r.Success {
			continue
		}
		fmt.Fprintf(&b, "\n  %s (%s): %v", r.Hook, r.Phase, r.Error)
		if r.Stderr != "" {
			fmt.Fprintf(&b, "\n    stderr: %s", truncate(r.Stderr, 200))
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// RunHooks loads the hooks of projectDir; they run with projectDir as the
// working directory. It returns a nil executor when hooks are disabled or
// none are configured.
func RunHooks(projectDir string, ctx ExportContext, noHooks bool) (*Executor, error) {
	if noHooks {
		return nil, nil
	}
	loader := NewLoader(WithProjectDir(projectDir))
	if err := loader.Load(); err != nil {
		return nil, err
	}
	for _, w := range loader.Warnings() {
		debug.Log("hooks: %s", w)
	}
	if !loader.HasHooks() {
		return nil, nil
	}
	e := NewExecutor(loader.Config(), ctx)
	e.dir = projectDir
	return e, nil
}

// LoadDefault loads hooks from the current directory.
func LoadDefault() (*Loader, error) {
	loader := NewLoader()
	if err := loader.Load(); err != nil {
		return nil, err
	}
	return loader, nil
}
