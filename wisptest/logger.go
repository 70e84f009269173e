// Copyright © 2025 The Wisp authors

package wisptest

import (
	"bytes"
	"io"
	"testing"
)

// Logger is an io.WriteCloser that forwards complete lines to t.Log, so
// output produced inside a test lands in that test's log.  It buffers
// partial lines between writes; Flush emits whatever remains.
type Logger struct {
	t   testing.TB
	buf []byte
}

var _ io.WriteCloser = (*Logger)(nil)

func NewLogger(t testing.TB) *Logger {
	return &Logger{
		t: t,
	}
}

func (log *Logger) Write(b []byte) (int, error) {
	log.buf = append(log.buf, b...)
	for {
		i := bytes.IndexByte(log.buf, '\n')
		if i < 0 {
			return len(b), nil
		}
		log.t.Log(string(log.buf[:i])) // slice does not include \n
		log.buf = log.buf[i+1:]
	}
}

// Close flushes; the underlying t.Log needs no teardown.
func (log *Logger) Close() error {
	log.Flush()
	return nil
}

func (log *Logger) Flush() {
	if len(log.buf) == 0 {
		return
	}
	log.t.Log(string(log.buf))
	log.buf = nil
}
