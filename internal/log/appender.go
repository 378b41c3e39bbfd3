package log

import (
	"io"
	"os"
)

// MultiWriter fans a formatted entry out to every appender. A failing
// appender does not stop the others.
type MultiWriter struct {
	writers []io.Writer
}

func (m *MultiWriter) Write(p []byte) (n int, err error) {
	for _, w := range m.writers {
		_, e := w.Write(p)
		if e != nil {
			err = e
		}
	}
	return len(p), err
}

func (m *MultiWriter) Add(writer io.Writer) *MultiWriter {
	m.writers = append(m.writers, writer)
	return m
}

// AddConsoleAppender writes entries to stderr so command output on stdout
// stays machine readable.
func (m *MultiWriter) AddConsoleAppender() *MultiWriter {
	return m.Add(os.Stderr)
}

func NewMultiWriter() *MultiWriter {
	return &MultiWriter{writers: make([]io.Writer, 0)}
}
