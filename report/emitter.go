package report

import (
	"bufio"
	"io"
	"strconv"

	"github.com/davidemerli/polimi-progetto-api-2019/errors"
)

// DefaultBufferSize is the emitter's default write buffer in bytes.
const DefaultBufferSize = 64 * 1024

// Emitter writes report fragments in the tracker's wire format:
//
//	"type" "dest1" "dest2" ... N;<space>
//
// per type, or the literal token "none" when no relation exists, with a
// single newline terminating each report line.
type Emitter struct {
	w   *bufio.Writer
	err error
}

// NewEmitter creates an Emitter over w. A bufferSize of zero or less
// selects DefaultBufferSize.
func NewEmitter(w io.Writer, bufferSize int) *Emitter {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Emitter{w: bufio.NewWriterSize(w, bufferSize)}
}

// None emits the empty-report token.
func (e *Emitter) None() {
	e.writeString("none")
}

// BeginType emits the quoted type name opening one report entry.
func (e *Emitter) BeginType(name string) {
	e.quote(name)
}

// Destination emits one quoted destination identifier.
func (e *Emitter) Destination(id string) {
	e.quote(id)
}

// EndType emits the shared maximum closing one report entry.
func (e *Emitter) EndType(max int) {
	e.writeString(strconv.Itoa(max))
	e.writeString("; ")
}

// End terminates the report line and flushes it to the underlying writer,
// so each report is observable as soon as it is produced.
func (e *Emitter) End() {
	e.writeByte('\n')
	e.flush()
}

// Flush forces buffered output to the underlying writer and returns the
// sticky error, if any.
func (e *Emitter) Flush() error {
	e.flush()
	return e.err
}

// Err returns the first write error encountered, or nil.
func (e *Emitter) Err() error {
	return e.err
}

// quote writes s surrounded by double quotes and followed by a space.
func (e *Emitter) quote(s string) {
	e.writeByte('"')
	e.writeString(s)
	e.writeByte('"')
	e.writeByte(' ')
}

func (e *Emitter) writeString(s string) {
	if e.err != nil {
		return
	}
	if _, err := e.w.WriteString(s); err != nil {
		e.err = errors.WrapFatal(err, "Emitter", "writeString", "write report fragment")
	}
}

func (e *Emitter) writeByte(b byte) {
	if e.err != nil {
		return
	}
	if err := e.w.WriteByte(b); err != nil {
		e.err = errors.WrapFatal(err, "Emitter", "writeByte", "write report fragment")
	}
}

func (e *Emitter) flush() {
	if e.err != nil {
		return
	}
	if err := e.w.Flush(); err != nil {
		e.err = errors.WrapFatal(err, "Emitter", "flush", "flush report output")
	}
}
