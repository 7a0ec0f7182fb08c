package command

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sherwood-core/engine/internal/models"
)

func recvCmd(t *testing.T, ch <-chan models.EngineCommand) models.EngineCommand {
	t.Helper()
	select {
	case cmd, ok := <-ch:
		require.True(t, ok, "channel closed before a command arrived")
		return cmd
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for command")
		return 0
	}
}

func TestStdinSourceParsesKnownCommands(t *testing.T) {
	input := strings.NewReader("start\nPAUSE\nresume\nstop\nreset_drawdown\n")
	src := NewStdinSource(context.Background(), input)

	assert.Equal(t, models.CmdStart, recvCmd(t, src.Commands()))
	assert.Equal(t, models.CmdPause, recvCmd(t, src.Commands()))
	assert.Equal(t, models.CmdResume, recvCmd(t, src.Commands()))
	assert.Equal(t, models.CmdStop, recvCmd(t, src.Commands()))
	assert.Equal(t, models.CmdResetDrawdown, recvCmd(t, src.Commands()))

	_, ok := <-src.Commands()
	assert.False(t, ok, "channel should close once input is exhausted")
}

func TestStdinSourceIgnoresUnrecognizedLines(t *testing.T) {
	input := strings.NewReader("banana\nstart\n")
	src := NewStdinSource(context.Background(), input)

	assert.Equal(t, models.CmdStart, recvCmd(t, src.Commands()))
}

func TestStdinSourceStopsOnCancellation(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	go func() {
		_, _ = w.Write([]byte("start\n"))
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := NewStdinSource(ctx, r)

	// Give the source goroutine time to parse "start" and reach the send
	// select with no receiver present, so ctx.Done() is the only ready
	// case and the outcome is deterministic.
	time.Sleep(50 * time.Millisecond)

	select {
	case _, ok := <-src.Commands():
		assert.False(t, ok, "an already-cancelled source should close without delivering")
	case <-time.After(time.Second):
		t.Fatal("source did not stop after cancellation")
	}
}
