package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	lines []string
	limit int
}

func (c *collector) send(line string) bool {
	if c.limit > 0 && len(c.lines) >= c.limit {
		return false
	}
	c.lines = append(c.lines, line)
	return true
}

func TestNewRunnerNilSend(t *testing.T) {
	_, err := NewRunner(nil)
	assert.EqualError(t, err, "send function must not be nil")
}

func TestRunSendsLines(t *testing.T) {
	var c collector
	r, err := NewRunner(c.send)
	require.NoError(t, err)

	err = r.Run(context.Background(), `
		for f = 100, 300, 100 do
			send(f)
		end
		send("5017")
		send("F:2000,A:1.65,W:1")
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200", "300", "5017", "F:2000,A:1.65,W:1"}, c.lines)
	assert.Equal(t, 5, r.Sent())
}

func TestRunSendReportsFullQueue(t *testing.T) {
	c := collector{limit: 1}
	r, err := NewRunner(c.send)
	require.NoError(t, err)

	err = r.Run(context.Background(), `
		assert(send("9001") == true)
		assert(send("9002") == false)
	`)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Sent())
}

func TestRunErrors(t *testing.T) {
	var c collector
	r, err := NewRunner(c.send)
	require.NoError(t, err)

	testCases := []string{
		`send(`,
		`send({})`,
		`error("boom")`,
		`sleep("x")`,
	}
	for _, src := range testCases {
		err := r.Run(context.Background(), src)
		assert.Error(t, err, src)
	}
}

func TestRunSleep(t *testing.T) {
	var c collector
	r, err := NewRunner(c.send)
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, r.Run(context.Background(), `sleep(20) sleep(0) sleep(-1)`))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestRunCancelledDuringSleep(t *testing.T) {
	var c collector
	r, err := NewRunner(c.send)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = r.Run(ctx, `send("1000") sleep(10000) send("2000")`)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, []string{"1000"}, c.lines)
}

func TestRunCancelledBusyLoop(t *testing.T) {
	var c collector
	r, err := NewRunner(c.send)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = r.Run(ctx, `while true do end`)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.lua")
	require.NoError(t, os.WriteFile(path, []byte(`send("9003")`), 0o600))

	var c collector
	r, err := NewRunner(c.send)
	require.NoError(t, err)

	require.NoError(t, r.RunFile(context.Background(), path))
	assert.Equal(t, []string{"9003"}, c.lines)

	assert.Error(t, r.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua")))
}
