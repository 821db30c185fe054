package ammo

import (
	"bufio"
	"io"
)

const writerBufferSize = 1 << 20

// Writer appends encoded records to an underlying writer through a buffer.
// Call Flush once all records are written.
type Writer struct {
	w       *bufio.Writer
	scratch []byte
	records int64
	bytes   int64
}

// NewWriter returns a Writer buffering writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, writerBufferSize)}
}

// Write encodes one request and appends it. It returns the number of bytes
// the record occupies, header line included.
func (w *Writer) Write(method, url, tag string, body []byte) (int, error) {
	w.scratch = AppendEncode(w.scratch[:0], method, url, tag, body)
	n, err := w.w.Write(w.scratch)
	w.bytes += int64(n)
	if err != nil {
		return n, err
	}
	w.records++
	return n, nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Records returns the number of records written.
func (w *Writer) Records() int64 {
	return w.records
}

// Bytes returns the number of bytes written, including buffered ones.
func (w *Writer) Bytes() int64 {
	return w.bytes
}
