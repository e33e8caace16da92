package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	nullbench "github.com/tphakala/go-nullbench"
)

func smallOptions() options {
	config := nullbench.DefaultConfig()
	config.N = 1000
	config.Threads = 2
	config.Iterations = 2
	config.Kernels = []string{"sum_sentinel_nulls_if", "sum_bitmask_nulls_reduce"}
	return options{config: config, logLevel: slog.LevelError}
}

func TestRun(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), smallOptions(), &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "Input parameters:")
	assert.Contains(t, out, "sum_sentinel_nulls_if: ")
	assert.Contains(t, out, "sum_bitmask_nulls_reduce: ")
}

func TestRunInvalidConfig(t *testing.T) {
	opts := smallOptions()
	opts.config.N = 0

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), opts, &stdout, &stderr)
	require.ErrorIs(t, err, nullbench.ErrInvalidConfig)
	assert.Empty(t, stdout.String())
}

func TestRunCancelled(t *testing.T) {
	opts := smallOptions()
	opts.config.Verify = false

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	err := run(ctx, opts, &stdout, &stderr)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, stdout.String(), "Input parameters:")
	assert.NotContains(t, stdout.String(), "sum_sentinel_nulls_if: ")
}
