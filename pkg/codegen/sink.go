package codegen

import (
	"bufio"
	"fmt"
	"io"
)

// LineSink receives emitted instruction lines in order.
type LineSink interface {
	WriteLine(line string) error
}

// WriterSink writes newline-terminated lines to an io.Writer through a buffer.
// Call Flush when done.
type WriterSink struct {
	w *bufio.Writer
}

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

// WriteLine implements LineSink.
func (s *WriterSink) WriteLine(line string) error {
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

// Flush writes any buffered data to the underlying writer.
func (s *WriterSink) Flush() error {
	return s.w.Flush()
}

// SliceSink collects lines in memory.
type SliceSink struct {
	Lines []string
}

// WriteLine implements LineSink.
func (s *SliceSink) WriteLine(line string) error {
	s.Lines = append(s.Lines, line)
	return nil
}

// Emit writes every instruction to sink, stopping at the first error.
func Emit(sink LineSink, instrs []Instruction, mnemonic string) error {
	for i, ins := range instrs {
		if err := sink.WriteLine(ins.Format(mnemonic)); err != nil {
			return fmt.Errorf("failed to write instruction %d: %w", i, err)
		}
	}
	return nil
}
