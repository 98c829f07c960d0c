package extraction

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/cecomcrede1/enturmacao/internal/config"
	"github.com/cecomcrede1/enturmacao/internal/infrastructure"
)

// Messages shown to the user after a run
const (
	MessageSuccess = "Dados baixados com sucesso."
	MessageTimeout = "Tempo esgotado (o download pode demorar vários minutos)."
	MessageFailure = "Erro ao executar script."
)

// Run outcomes, used as the metrics label
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
	OutcomeError   = "error"
)

// waitDelay bounds how long Wait blocks on output pipes after the process
// has been killed
const waitDelay = 5 * time.Second

// Result reports how an extraction run ended
type Result struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Outcome  string        `json:"outcome"`
	Duration time.Duration `json:"duration"`
}

// Runner executes the external script that downloads a fresh report
type Runner struct {
	command []string
	dir     string
	timeout time.Duration
	logger  *slog.Logger
	metrics *infrastructure.Metrics
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the runner logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics counts runs by outcome into m
func WithMetrics(m *infrastructure.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// NewRunner creates a runner for cfg.Command, executed in dir
func NewRunner(cfg config.ExtractionConfig, dir string, opts ...Option) *Runner {
	r := &Runner{
		command: append([]string(nil), cfg.Command...),
		dir:     dir,
		timeout: cfg.Timeout,
		logger:  slog.Default(),
	}
	if r.timeout <= 0 {
		r.timeout = config.DefaultExtractionTimeout
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = infrastructure.WithComponent(r.logger, "extraction")
	return r
}

// Run executes the extraction command and waits for it, up to the configured
// timeout. Failures are reported in the Result, never as a Go error.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()
	res := r.run(ctx)
	res.Duration = time.Since(start)

	r.metrics.ObserveExtraction(res.Outcome)
	if res.Success {
		r.logger.InfoContext(ctx, "Extraction completed",
			slog.Duration("duration", res.Duration))
	} else {
		r.logger.ErrorContext(ctx, "Extraction failed",
			slog.String("outcome", res.Outcome),
			slog.String("message", res.Message),
			slog.Duration("duration", res.Duration))
	}
	return res
}

func (r *Runner) run(ctx context.Context) Result {
	if len(r.command) == 0 {
		return Result{Outcome: OutcomeError, Message: "extraction command is not configured"}
	}

	ctx, span := infrastructure.StartSpan(ctx, "extraction.Run")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	cmd.Dir = r.dir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.InfoContext(ctx, "Running extraction",
		slog.String("command", strings.Join(r.command, " ")),
		slog.String("dir", r.dir),
		slog.Duration("timeout", r.timeout))

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		infrastructure.RecordError(ctx, ctx.Err())
		return Result{Outcome: OutcomeTimeout, Message: MessageTimeout}
	}
	if err == nil {
		return Result{Success: true, Outcome: OutcomeSuccess, Message: MessageSuccess}
	}

	infrastructure.RecordError(ctx, err)

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return Result{Outcome: OutcomeError, Message: err.Error()}
	}

	r.logger.DebugContext(ctx, "Extraction output",
		slog.Int("exit_code", exitErr.ExitCode()),
		slog.String("stdout", stdout.String()),
		slog.String("stderr", stderr.String()))

	return Result{Outcome: OutcomeFailure, Message: failureMessage(stderr.Bytes(), stdout.Bytes())}
}

// failureMessage prefers stderr, then stdout, then a generic message.
// Invalid UTF-8 is replaced so the text is always displayable.
func failureMessage(stderr, stdout []byte) string {
	for _, out := range [][]byte{stderr, stdout} {
		if len(out) > 0 {
			return strings.ToValidUTF8(string(out), "�")
		}
	}
	return MessageFailure
}
