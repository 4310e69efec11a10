package save

import (
	"bytes"
	"encoding/binary"
	"math"
)

// writer and reader wrap bytes.Buffer/bytes.Reader with the small set of
// fixed-width primitives the save layout uses, latching the first error
// so call sites don't need to check one at every field (the same
// sticky-error pattern a binary ROM builder uses for its own writes).
type writer struct {
	buf *bytes.Buffer
	err error
}

func (w *writer) u16(v uint16) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(w.buf, binary.BigEndian, v)
}

func (w *writer) u64(v uint64) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(w.buf, binary.BigEndian, v)
}

func (w *writer) i32(v int32) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(w.buf, binary.BigEndian, v)
}

func (w *writer) f64(v float64) {
	w.u64(math.Float64bits(v))
}

func (w *writer) bool(v bool) {
	if v {
		w.u16(1)
	} else {
		w.u16(0)
	}
}

func (w *writer) str(s string) {
	if w.err != nil {
		return
	}
	b := []byte(s)
	w.i32(int32(len(b)))
	if w.err != nil {
		return
	}
	_, w.err = w.buf.Write(b)
}

type reader struct {
	buf *bytes.Reader
	err error
}

func (r *reader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	var v uint16
	r.err = binary.Read(r.buf, binary.BigEndian, &v)
	return v
}

func (r *reader) u64() uint64 {
	if r.err != nil {
		return 0
	}
	var v uint64
	r.err = binary.Read(r.buf, binary.BigEndian, &v)
	return v
}

func (r *reader) i32() int32 {
	if r.err != nil {
		return 0
	}
	var v int32
	r.err = binary.Read(r.buf, binary.BigEndian, &v)
	return v
}

func (r *reader) f64() float64 {
	return math.Float64frombits(r.u64())
}

func (r *reader) bool() bool {
	return r.u16() != 0
}

func (r *reader) str() string {
	if r.err != nil {
		return ""
	}
	n := r.i32()
	if r.err != nil || n < 0 {
		return ""
	}
	b := make([]byte, n)
	_, r.err = r.buf.Read(b)
	return string(b)
}
