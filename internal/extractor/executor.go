package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/pavelc4/aether-fetch/internal/provider"
	"github.com/pavelc4/aether-fetch/pkg/logger"
	"github.com/pavelc4/aether-fetch/pkg/utils"
)

const (
	maxLoggedOutput   = 4000
	genericDiagnostic = "yt-dlp error"
)

var ErrExtractionFailed = errors.New("extraction failed")

// ExtractionError reports that every attempt failed. Diagnostic comes from the last one.
type ExtractionError struct {
	Attempts   int
	Diagnostic string
}

func (e *ExtractionError) Error() string {
	return e.Diagnostic
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}

// Result is the tagged outcome of one attempt.
type Result struct {
	Ordinal    int
	OK         bool
	Diagnostic string
	Duration   time.Duration
}

type Outcome struct {
	Results []Result
	Err     error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Executed is the number of attempts that actually ran.
func (o Outcome) Executed() int {
	return len(o.Results)
}

type Executor struct {
	bin    string
	runner Runner
}

func NewExecutor(bin string, runner Runner) *Executor {
	if bin == "" {
		bin = "yt-dlp"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Executor{bin: bin, runner: runner}
}

// Run tries attempts in order and stops at the first success.
func (e *Executor) Run(ctx context.Context, attempts []provider.Attempt, log *slog.Logger) Outcome {
	if log == nil {
		log = logger.Log
	}
	if len(attempts) == 0 {
		return Outcome{Err: &ExtractionError{Diagnostic: genericDiagnostic}}
	}

	var out Outcome
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			out.Err = errors.Wrap(err, "extraction aborted")
			return out
		}

		res := e.runAttempt(ctx, a, len(attempts), log)
		out.Results = append(out.Results, res)
		if res.OK {
			return out
		}
		log.Warn("yt-dlp attempt failed", "try", fmt.Sprintf("%d/%d", a.Ordinal, len(attempts)), "error", utils.Truncate(res.Diagnostic, 300))
	}

	last := out.Results[len(out.Results)-1]
	out.Err = &ExtractionError{Attempts: len(out.Results), Diagnostic: last.Diagnostic}
	return out
}

func (e *Executor) runAttempt(ctx context.Context, a provider.Attempt, total int, log *slog.Logger) Result {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = provider.AttemptTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Info("Running yt-dlp", "try", fmt.Sprintf("%d/%d", a.Ordinal, total), "cmd", e.bin+" "+strings.Join(a.Args, " "))
	start := time.Now()

	stdout, stderr, err := e.runner.Run(attemptCtx, e.bin, a.Args)
	res := Result{Ordinal: a.Ordinal, Duration: time.Since(start)}

	if s := strings.TrimSpace(string(stdout)); s != "" {
		log.Debug("yt-dlp stdout", "try", a.Ordinal, "output", utils.Truncate(s, maxLoggedOutput))
	}
	if s := strings.TrimSpace(string(stderr)); s != "" {
		log.Debug("yt-dlp stderr", "try", a.Ordinal, "output", utils.Truncate(s, maxLoggedOutput))
	}

	if err == nil {
		res.OK = true
		log.Info("yt-dlp attempt succeeded", "try", a.Ordinal, "duration", res.Duration.Round(time.Millisecond))
		return res
	}

	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		res.Diagnostic = fmt.Sprintf("yt-dlp timed out after %s", timeout)
		return res
	}
	res.Diagnostic = diagnostic(stdout, stderr, err)
	return res
}

func diagnostic(stdout, stderr []byte, err error) string {
	if s := strings.TrimSpace(string(stderr)); s != "" {
		return s
	}
	if s := strings.TrimSpace(string(stdout)); s != "" {
		return s
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return err.Error()
	}
	return genericDiagnostic
}
