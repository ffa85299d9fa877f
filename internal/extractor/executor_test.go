package extractor

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pavelc4/aether-fetch/internal/provider"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
	ret := m.Called(ctx, name, args)
	stdout, _ := ret.Get(0).([]byte)
	stderr, _ := ret.Get(1).([]byte)
	return stdout, stderr, ret.Error(2)
}

func threeAttempts() []provider.Attempt {
	return []provider.Attempt{
		{Ordinal: 1, Args: []string{"a1"}, Timeout: time.Minute},
		{Ordinal: 2, Args: []string{"a2"}, Timeout: time.Minute},
		{Ordinal: 3, Args: []string{"a3"}, Timeout: time.Minute},
	}
}

var exitErr = &exec.ExitError{}

func TestExecutorStopsAtFirstSuccess(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "yt-dlp", []string{"a1"}).Return([]byte(nil), []byte("ERROR: blocked"), exitErr).Once()
	runner.On("Run", mock.Anything, "yt-dlp", []string{"a2"}).Return([]byte("done"), []byte(nil), nil).Once()

	out := NewExecutor("yt-dlp", runner).Run(context.Background(), threeAttempts(), nil)

	require.True(t, out.Succeeded())
	assert.Equal(t, 2, out.Executed())
	assert.False(t, out.Results[0].OK)
	assert.Equal(t, "ERROR: blocked", out.Results[0].Diagnostic)
	assert.True(t, out.Results[1].OK)
	runner.AssertNumberOfCalls(t, "Run", 2)
	runner.AssertNotCalled(t, "Run", mock.Anything, "yt-dlp", []string{"a3"})
}

func TestExecutorSurfacesLastError(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "/opt/yt-dlp", []string{"a1"}).Return([]byte(nil), []byte("first"), exitErr)
	runner.On("Run", mock.Anything, "/opt/yt-dlp", []string{"a2"}).Return([]byte(nil), []byte("second"), exitErr)
	runner.On("Run", mock.Anything, "/opt/yt-dlp", []string{"a3"}).Return([]byte("  only stdout \n"), []byte("  "), exitErr)

	out := NewExecutor("/opt/yt-dlp", runner).Run(context.Background(), threeAttempts(), nil)

	require.False(t, out.Succeeded())
	assert.Equal(t, 3, out.Executed())
	assert.ErrorIs(t, out.Err, ErrExtractionFailed)

	var extErr *ExtractionError
	require.ErrorAs(t, out.Err, &extErr)
	assert.Equal(t, 3, extErr.Attempts)
	assert.Equal(t, "only stdout", extErr.Diagnostic)
	runner.AssertExpectations(t)
}

func TestExecutorGenericDiagnostic(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "yt-dlp", mock.Anything).Return([]byte(nil), []byte(nil), exitErr)

	out := NewExecutor("", runner).Run(context.Background(), threeAttempts()[:1], nil)
	assert.EqualError(t, out.Err, genericDiagnostic)
}

func TestExecutorStartFailureUsesErrorText(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "yt-dlp", mock.Anything).Return([]byte(nil), []byte(nil), errors.New(`exec: "yt-dlp": executable file not found in $PATH`))

	out := NewExecutor("yt-dlp", runner).Run(context.Background(), threeAttempts()[:1], nil)
	assert.Contains(t, out.Err.Error(), "executable file not found")
}

type blockingRunner struct{ calls int }

func (b *blockingRunner) Run(ctx context.Context, _ string, _ []string) ([]byte, []byte, error) {
	b.calls++
	<-ctx.Done()
	return nil, nil, ctx.Err()
}

func TestExecutorTimeoutIsAnAttemptFailure(t *testing.T) {
	runner := &blockingRunner{}
	attempts := []provider.Attempt{
		{Ordinal: 1, Args: []string{"a1"}, Timeout: 10 * time.Millisecond},
		{Ordinal: 2, Args: []string{"a2"}, Timeout: 10 * time.Millisecond},
	}

	out := NewExecutor("yt-dlp", runner).Run(context.Background(), attempts, nil)

	assert.Equal(t, 2, runner.calls)
	assert.ErrorIs(t, out.Err, ErrExtractionFailed)
	assert.Contains(t, out.Err.Error(), "timed out")
}

func TestExecutorCancelledContext(t *testing.T) {
	runner := new(MockRunner)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := NewExecutor("yt-dlp", runner).Run(ctx, threeAttempts(), nil)

	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.Equal(t, 0, out.Executed())
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecutorNoAttempts(t *testing.T) {
	out := NewExecutor("yt-dlp", new(MockRunner)).Run(context.Background(), nil, nil)
	assert.ErrorIs(t, out.Err, ErrExtractionFailed)
}

type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler { return h }

func (h *recordHandler) attr(msg, key string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.records {
		if r.Message != msg {
			continue
		}
		var val string
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				val = a.Value.String()
				return false
			}
			return true
		})
		return val
	}
	return ""
}

func TestExecutorLogsWholeRunes(t *testing.T) {
	stderr := strings.Repeat("a", maxLoggedOutput-1) + strings.Repeat("é", 10)
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "yt-dlp", mock.Anything).Return([]byte(nil), []byte(stderr), exitErr)

	h := &recordHandler{}
	NewExecutor("", runner).Run(context.Background(), threeAttempts()[:1], slog.New(h))

	logged := h.attr("yt-dlp stderr", "output")
	assert.True(t, utf8.ValidString(logged))
	assert.Equal(t, maxLoggedOutput, utf8.RuneCountInString(logged))
	assert.True(t, strings.HasSuffix(logged, "é"))
}
