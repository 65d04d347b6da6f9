package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"go.uber.org/zap"
)

// Result reports how a playback run ended.
type Result int

const (
	// ResultCompleted means every chunk was written.
	ResultCompleted Result = iota
	// ResultInterrupted means the cancellation token was set and
	// playback stopped before the remaining chunks were written.
	ResultInterrupted
)

// Token is a cooperative cancellation flag shared between a playback
// run and whoever wants to interrupt it. A fresh token is created per
// playback call so concurrent sessions never contend on one flag.
type Token struct {
	cancelled atomic.Bool
}

// NewToken returns an unset cancellation token.
func NewToken() *Token {
	return &Token{}
}

// Cancel sets the flag. Safe to call from any goroutine, repeatedly.
func (t *Token) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}

// SinkOpener opens the output sink playback writes to. The sink is
// opened lazily, only once the first chunk arrives, so empty input
// never touches the audio device.
type SinkOpener func() (io.WriteCloser, error)

// Coordinator plays synthesized audio chunk by chunk with cooperative
// interruption. Device-level sinks block on hardware I/O, so a playback
// run is expected to execute on its own goroutine rather than inside a
// session's event handling.
type Coordinator struct {
	logger *zap.Logger
}

// NewCoordinator creates a playback coordinator.
func NewCoordinator(logger *zap.Logger) *Coordinator {
	return &Coordinator{logger: logger}
}

// Play writes chunks to the sink in arrival order, checking the
// cancellation token and the context before each write. A chunk whose
// write has started always completes. The sink is closed exactly once
// on every exit path; it is never opened when no chunk arrives.
func (c *Coordinator) Play(ctx context.Context, chunks <-chan []byte, open SinkOpener, tok *Token) (Result, error) {
	var sink io.WriteCloser
	closed := false
	closeSink := func() {
		if sink != nil && !closed {
			closed = true
			if err := sink.Close(); err != nil {
				c.logger.Warn("Failed to close playback sink", zap.Error(err))
			}
		}
	}
	defer closeSink()

	written := 0
	for chunk := range chunks {
		if tok != nil && tok.Cancelled() {
			c.logger.Info("Playback interrupted", zap.Int("chunksWritten", written))
			return ResultInterrupted, nil
		}
		if err := ctx.Err(); err != nil {
			return ResultInterrupted, nil
		}
		if len(chunk) == 0 {
			continue
		}

		if sink == nil {
			s, err := open()
			if err != nil {
				return ResultCompleted, fmt.Errorf("failed to open playback sink: %w", err)
			}
			sink = s
		}

		if _, err := sink.Write(chunk); err != nil {
			return ResultCompleted, fmt.Errorf("failed to write audio chunk: %w", err)
		}
		written++
	}

	if tok != nil && tok.Cancelled() {
		return ResultInterrupted, nil
	}
	return ResultCompleted, nil
}

// Buffer is an in-memory sink used when synthesized audio is shipped to
// the client as a single binary frame instead of a local device.
type Buffer struct {
	buf bytes.Buffer
}

// NewBuffer returns an empty buffer sink.
func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

// Close is a no-op; the buffer stays readable after playback.
func (b *Buffer) Close() error {
	return nil
}

// Bytes returns everything written so far.
func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()
}
