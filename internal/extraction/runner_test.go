package extraction

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecomcrede1/enturmacao/internal/config"
	"github.com/cecomcrede1/enturmacao/internal/infrastructure"
	"github.com/cecomcrede1/enturmacao/internal/shared/testutil"
)

func shell(script string, timeout time.Duration) config.ExtractionConfig {
	return config.ExtractionConfig{Command: []string{"sh", "-c", script}, Timeout: timeout}
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name        string
		script      string
		wantSuccess bool
		wantOutcome string
		wantMessage string
	}{
		{
			name:        "success",
			script:      "echo baixado",
			wantSuccess: true,
			wantOutcome: OutcomeSuccess,
			wantMessage: MessageSuccess,
		},
		{
			name:        "stderr preferred",
			script:      "echo saida; echo 'login falhou' >&2; exit 1",
			wantOutcome: OutcomeFailure,
			wantMessage: "login falhou\n",
		},
		{
			name:        "stdout when stderr is empty",
			script:      "echo 'sem sessao'; exit 2",
			wantOutcome: OutcomeFailure,
			wantMessage: "sem sessao\n",
		},
		{
			name:        "silent failure",
			script:      "exit 3",
			wantOutcome: OutcomeFailure,
			wantMessage: MessageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(shell(tt.script, 10*time.Second), t.TempDir())
			res := r.Run(context.Background())

			assert.Equal(t, tt.wantSuccess, res.Success)
			assert.Equal(t, tt.wantOutcome, res.Outcome)
			assert.Equal(t, tt.wantMessage, res.Message)
			assert.True(t, res.Duration > 0)
		})
	}
}

func TestRunner_Timeout(t *testing.T) {
	r := NewRunner(shell("exec sleep 5", 200*time.Millisecond), t.TempDir())

	start := time.Now()
	res := r.Run(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, OutcomeTimeout, res.Outcome)
	assert.Equal(t, MessageTimeout, res.Message)
	assert.True(t, time.Since(start) < 4*time.Second, "the process is killed at the deadline")
}

func TestRunner_StartFailure(t *testing.T) {
	cfg := config.ExtractionConfig{Command: []string{"/nonexistent/python3", "enturmacao.py"}, Timeout: time.Second}
	res := NewRunner(cfg, t.TempDir()).Run(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, OutcomeError, res.Outcome)
	assert.Contains(t, res.Message, "/nonexistent/python3")
}

func TestRunner_EmptyCommand(t *testing.T) {
	res := NewRunner(config.ExtractionConfig{}, t.TempDir()).Run(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, OutcomeError, res.Outcome)
}

func TestRunner_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(shell("echo 01/10/2026 10:00 > ultima_extracao.txt", 10*time.Second), dir)

	res := r.Run(context.Background())
	require.True(t, res.Success, res.Message)

	data, err := os.ReadFile(filepath.Join(dir, "ultima_extracao.txt"))
	require.NoError(t, err)
	assert.Equal(t, "01/10/2026 10:00\n", string(data))
}

func TestRunner_InvalidUTF8Output(t *testing.T) {
	r := NewRunner(shell(`printf 'erro \377' >&2; exit 1`, 10*time.Second), t.TempDir())

	res := r.Run(context.Background())
	assert.Equal(t, "erro �", res.Message)
}

func TestRunner_DefaultTimeout(t *testing.T) {
	r := NewRunner(config.ExtractionConfig{Command: []string{"true"}}, t.TempDir())
	assert.Equal(t, config.DefaultExtractionTimeout, r.timeout)
}

func TestRunner_MetricsAndLogging(t *testing.T) {
	m := infrastructure.NewMetrics()
	logger, rec := testutil.NewLogRecorder(slog.LevelInfo)

	NewRunner(shell("true", 10*time.Second), t.TempDir(), WithMetrics(m), WithLogger(logger)).Run(context.Background())
	NewRunner(shell("echo falhou >&2; exit 1", 10*time.Second), t.TempDir(), WithMetrics(m), WithLogger(logger)).Run(context.Background())

	assert.Equal(t, 1.0, promtest.ToFloat64(m.ExtractionRuns.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ExtractionRuns.WithLabelValues(OutcomeFailure)))

	_, ok := rec.Find(slog.LevelInfo, "Extraction completed")
	assert.True(t, ok)

	failed, ok := rec.Find(slog.LevelError, "Extraction failed")
	require.True(t, ok)
	assert.Equal(t, "extraction", failed.Attrs["component"])
	assert.Equal(t, OutcomeFailure, failed.Attrs["outcome"])
	assert.Equal(t, "falhou\n", failed.Attrs["message"])
}
