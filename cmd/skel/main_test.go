package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phanxgames/skel/internal/logging"
	"github.com/phanxgames/skel/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	armRig     = filepath.Join("..", "..", "examples", "rigs", "arm.yaml")
	robotRig   = filepath.Join("..", "..", "examples", "rigs", "robot.yaml")
	invalidRig = filepath.Join("..", "..", "rig", "testdata", "invalid.yaml")
)

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runValidate(&out, armRig))
	assert.Contains(t, out.String(), `Rig "arm" is valid.`)
}

func TestValidateInvalid(t *testing.T) {
	var out bytes.Buffer
	err := runValidate(&out, invalidRig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "duplicate name")
	assert.Empty(t, out.String())
}

func TestRunFastForward(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runRig(context.Background(), &out, armRig, runOptions{}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "arm: 15 ticks, clock 1.50s", lines[0])
	assert.Contains(t, lines[1], "upper")
	assert.Contains(t, lines[2], "lower")
}

func TestRunRobot(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runRig(context.Background(), &out, robotRig, runOptions{}))
	assert.Contains(t, out.String(), "robot: 150 ticks")
	assert.Contains(t, out.String(), "lower_leg_l")
}

func TestRunRealtimeCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := runRig(ctx, io.Discard, robotRig, runOptions{realtime: true})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunServesMetrics(t *testing.T) {
	addr, stop := startMetricsForTest(t)
	defer stop()

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func startMetricsForTest(t *testing.T) (string, func()) {
	t.Helper()
	var out bytes.Buffer
	logger := logging.NewWriter(&out, 0)
	stop, err := serveMetrics("127.0.0.1:0", newTestRegistry(t), logger)
	require.NoError(t, err)
	_, addr, ok := strings.Cut(out.String(), "addr=")
	require.True(t, ok, "log = %q", out.String())
	return strings.TrimSpace(addr), stop
}

func TestRunMissingFile(t *testing.T) {
	err := runRig(context.Background(), io.Discard, "nope.yaml", runOptions{})
	assert.Error(t, err)
}

func TestBuildViewLoopReplays(t *testing.T) {
	v, stage, err := buildView(armRig, viewOptions{loop: true, level: slog.LevelError})
	require.NoError(t, err)

	// The arm runs for 1.5s; 200 frames at 60 TPS covers two runs.
	for i := 0; i < 200; i++ {
		require.NoError(t, v.Update())
	}
	assert.Equal(t, 1, stage.Root().NumChildren(), "only the current run stays on the stage")
	assert.Len(t, stage.Definitions(), 3, "two shapes plus the current group")
	assert.Contains(t, v.Overlay(), "running")
}

func TestBuildViewPlaysOnce(t *testing.T) {
	v, stage, err := buildView(armRig, viewOptions{level: slog.LevelError})
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		require.NoError(t, v.Update())
	}
	assert.Equal(t, 1, stage.Root().NumChildren())
	assert.Contains(t, v.Overlay(), "arm: 1.50 / 1.50s done")
}

func TestBuildViewMissingFile(t *testing.T) {
	_, _, err := buildView("nope.yaml", viewOptions{})
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"validate", "run", "view"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRunCommandRejectsBadLogLevel(t *testing.T) {
	rootCmd.SetArgs([]string{"run", "--log-level", "loud", armRig})
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}

func newTestRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	return reg
}
