package logger

import (
	"bufio"
	"io"
	"sync"
)

// asyncWriter decouples log emission from the sink. Formatted lines are
// queued on a channel and drained by a single goroutine, so handler calls
// never block on disk unless the queue is full.
type asyncWriter struct {
	queue chan []byte
	done  chan struct{}
	once  sync.Once

	mu  sync.Mutex
	out *bufio.Writer
	err error
}

func newAsyncWriter(sink io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	aw := &asyncWriter{
		queue: make(chan []byte, 256),
		done:  make(chan struct{}),
		out:   bufio.NewWriterSize(sink, bufSize),
	}
	go aw.loop()
	return aw
}

func (w *asyncWriter) loop() {
	for line := range w.queue {
		w.mu.Lock()
		if w.err == nil {
			if _, err := w.out.Write(line); err != nil {
				w.err = err
			} else if err := w.out.Flush(); err != nil {
				w.err = err
			}
		}
		w.mu.Unlock()
	}
	w.mu.Lock()
	if err := w.out.Flush(); err != nil && w.err == nil {
		w.err = err
	}
	w.mu.Unlock()
	close(w.done)
}

// Write enqueues one formatted line. A full queue blocks the caller instead
// of dropping the line.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.getErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	line := make([]byte, len(p))
	copy(line, p)
	w.queue <- line
	return nil
}

// Close drains the queue, flushes the sink and reports the first write error.
func (w *asyncWriter) Close() error {
	w.once.Do(func() {
		close(w.queue)
	})
	<-w.done
	return w.getErr()
}

func (w *asyncWriter) getErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
