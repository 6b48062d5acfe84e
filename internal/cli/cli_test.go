package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/sortstep/internal/config"
	"github.com/aretw0/sortstep/internal/logging"
	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reading test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Delay = 0
	return cfg
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(FlagConfig, "", "")
	flags.String(FlagLogLevel, "", "")
	flags.String(FlagLogFormat, "", "")
	flags.String(FlagTheme, "", "")
	flags.String(FlagAddr, "", "")
	AddRunFlags(flags)
	AddRedisFlags(flags)
	return flags
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sortstep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("algorithm: merge\ndelay: 25\ngenerate:\n  size: 12\n"), 0644))

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--config", path, "--algorithm", "heap", "--max", "500", "--redis-addr", "localhost:6379"}))

	cfg, err := LoadConfig(flags)
	require.NoError(t, err)
	assert.Equal(t, "heap", cfg.Algorithm, "flag wins over file")
	assert.Equal(t, 25*time.Millisecond, cfg.Delay, "unset flag keeps the file value")
	assert.Equal(t, 12, cfg.Generate.Size)
	assert.Equal(t, 500, cfg.Generate.Max)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--algorithm", "bogo"}))

	_, err := LoadConfig(flags)
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}

func TestExecute_JSON(t *testing.T) {
	cfg := testConfig()
	cfg.Algorithm = "quick"
	var out bytes.Buffer

	summary, err := Execute(context.Background(), RunOptions{
		Config: cfg,
		Out:    &out,
		Values: "5,3,8,1",
		JSON:   true,
	})
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, domain.OutcomeCompleted, summary.Outcome)
	assert.Equal(t, 4, summary.Size)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Greater(t, len(lines), 1)

	var last struct {
		Summary *domain.RunSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))
	require.NotNil(t, last.Summary)
	assert.Equal(t, summary.ID, last.Summary.ID)

	// The input array is shown before the first step.
	var restore, first domain.StepEvent
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &restore))
	assert.Equal(t, domain.EventRestore, restore.Type)
	assert.Equal(t, domain.Array{5, 3, 8, 1}, restore.Values)
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &first))
	assert.Equal(t, 1, first.Seq)
	assert.Equal(t, summary.ID, first.RunID)
}

func TestExecute_Text(t *testing.T) {
	cfg := testConfig()
	cfg.Generate.Size = 6
	var out bytes.Buffer

	summary, err := Execute(context.Background(), RunOptions{Config: cfg, Out: &out})
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Size)
	assert.Contains(t, out.String(), ">>> Sorting 6 values with bubble.")
}

func TestExecute_InvalidValues(t *testing.T) {
	_, err := Execute(context.Background(), RunOptions{Config: testConfig(), Out: io.Discard, Values: "a,b"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExecute_CancelledIsNotAnError(t *testing.T) {
	cfg := testConfig()
	cfg.Delay = 50 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	summary, err := Execute(ctx, RunOptions{Config: cfg, Out: io.Discard, Quiet: true, Values: "9,8,7,6,5,4,3,2,1"})
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, domain.OutcomeCancelled, summary.Outcome)
}

func TestServeListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- ServeListener(ctx, ln, testConfig(), logging.NewNop()) }()

	base := "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "go_goroutines")

	// An open event stream must not hold up shutdown.
	stream, err := http.Get(base + "/events")
	require.NoError(t, err)
	defer stream.Body.Close()

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_BadAddress(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.Addr = "not-an-address"
	assert.Error(t, Serve(context.Background(), cfg, logging.NewNop()))
}

func TestWatch_RendersPublishedRun(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Redis.Addr = mr.Addr()
	cfg.Algorithm = "selection"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watched := &syncBuffer{}
	errc := make(chan error, 1)
	go func() { errc <- Watch(ctx, cfg, logging.NewNop(), watched, true) }()

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(cfg.Redis.Channel)[cfg.Redis.Channel] == 1
	}, 2*time.Second, 5*time.Millisecond)

	summary, err := Execute(context.Background(), RunOptions{Config: cfg, Out: io.Discard, Values: "3,1,2", JSON: true})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return strings.Count(watched.String(), "\n") == summary.Steps+1
	}, 2*time.Second, 10*time.Millisecond, "every step plus the initial restore")

	scanner := bufio.NewScanner(strings.NewReader(watched.String()))
	for scanner.Scan() {
		var ev domain.StepEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		if ev.Type != domain.EventRestore {
			assert.Equal(t, summary.ID, ev.RunID)
		}
	}

	cancel()
	assert.NoError(t, <-errc)
}

func TestWatch_RequiresRedis(t *testing.T) {
	err := Watch(context.Background(), testConfig(), logging.NewNop(), io.Discard, false)
	assert.True(t, errors.Is(err, ErrNoRedis))
}

func TestPrintAlgorithms(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, PrintAlgorithms(&out, true, ""))

	var infos []domain.AlgorithmInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &infos))
	assert.Len(t, infos, 6)

	out.Reset()
	require.NoError(t, PrintAlgorithms(&out, false, "notty"))
	assert.Contains(t, out.String(), "Insertion Sort")
}

func TestChart(t *testing.T) {
	cfg := testConfig()
	cfg.Algorithm = "bubble"
	var out bytes.Buffer

	// Step 1 of bubble on [5,3,8,1] compares the first pair.
	require.NoError(t, Chart(context.Background(), &out, ChartOptions{
		RunOptions: RunOptions{Config: cfg, Values: "5,3,8,1"},
		Step:       1,
	}))
	assert.Contains(t, out.String(), "i0[\"5\"]")
	assert.Contains(t, out.String(), "class i0,i1 comparing;")

	out.Reset()
	require.NoError(t, Chart(context.Background(), &out, ChartOptions{
		RunOptions: RunOptions{Config: cfg, Values: "5,3,8,1"},
	}))
	assert.Contains(t, out.String(), "i0[\"1\"]")
	assert.Contains(t, out.String(), "sorted;")
}

func TestSignalContext_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sc := NewSignalContext(parent)

	cancel()
	select {
	case <-sc.Done():
	case <-time.After(time.Second):
		t.Fatal("signal context did not follow its parent")
	}
	assert.Nil(t, sc.Signal(), "no signal was delivered")
}
