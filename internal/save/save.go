// Package save implements the fixed binary save-state layout: variable
// slots, declared arrays, the call stack, current address/label/line, the
// sprite table, and the kidoku bitmap, written with explicit field widths
// via encoding/binary (the same way a binary ROM builder writes its ROM
// image), rather than leaning on encoding/gob — a fixed, versioned,
// checksummed layout needs to be parseable by a non-Go tool too, which
// gob's self-describing format does not give us. Every record is
// terminated by an Adler-32 trailer over the preceding bytes.
package save

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/adler32"

	"scenario-vn-core/internal/callstack"
	"scenario-vn-core/internal/sprite"
	"scenario-vn-core/internal/vars"
)

// FormatVersion is bumped whenever the on-disk layout changes
// incompatibly; Decode rejects any other version.
const FormatVersion uint16 = 1

// State is everything that gets persisted.
type State struct {
	CurrentAddress int
	CurrentLabel   string
	CurrentLine    int

	SlotRange int
	Ints      []int32 // index 0..SlotRange-1
	Strs      []string

	Arrays []ArrayDump

	CallStack []FrameDump

	Sprites []sprite.Entry

	KidokuBits []uint64
}

// ArrayDump is one declared array's on-disk shape.
type ArrayDump struct {
	No   int
	Dims []int
	Data []int32
}

// FrameDump is one call-stack frame's on-disk shape — a flattened form
// of callstack.Frame's tagged sum.
type FrameDump struct {
	IsFor bool
	Label callstack.LabelFrame
	For   callstack.ForFrame
}

// Encode serializes state into buf, a fixed big-endian binary layout
// (multi-byte fields are not little-endian) terminated by an Adler-32
// checksum over every byte written before it.
func Encode(s *State) ([]byte, error) {
	var buf bytes.Buffer
	w := &writer{buf: &buf}

	w.u16(FormatVersion)
	w.i32(int32(s.CurrentAddress))
	w.str(s.CurrentLabel)
	w.i32(int32(s.CurrentLine))

	w.i32(int32(s.SlotRange))
	w.i32(int32(len(s.Ints)))
	for _, v := range s.Ints {
		w.i32(v)
	}
	w.i32(int32(len(s.Strs)))
	for _, v := range s.Strs {
		w.str(v)
	}

	w.i32(int32(len(s.Arrays)))
	for _, a := range s.Arrays {
		w.i32(int32(a.No))
		w.i32(int32(len(a.Dims)))
		for _, d := range a.Dims {
			w.i32(int32(d))
		}
		w.i32(int32(len(a.Data)))
		for _, v := range a.Data {
			w.i32(v)
		}
	}

	w.i32(int32(len(s.CallStack)))
	for _, f := range s.CallStack {
		w.bool(f.IsFor)
		if f.IsFor {
			w.i32(int32(f.For.NextScriptAddress))
			w.i32(int32(f.For.InductionVarNo))
			w.i32(f.For.To)
			w.i32(f.For.Step)
			w.bool(f.For.BreakFlag)
		} else {
			w.i32(int32(f.Label.ReturnAddress))
			w.str(f.Label.ReturnLabel)
			w.i32(int32(f.Label.ReturnLine))
			w.bool(f.Label.HasPushedStringBuffer)
			w.i32(int32(f.Label.PushedStringBufferOffset))
			w.bool(f.Label.DialogueReturnEvent)
			w.bool(f.Label.Uninterruptible)
		}
	}

	w.i32(int32(len(s.Sprites)))
	for _, e := range s.Sprites {
		w.i32(int32(e.No))
		w.i32(int32(e.Kind))
		w.bool(e.Visible)
		w.f64(e.X)
		w.f64(e.Y)
		w.f64(e.ScaleX)
		w.f64(e.ScaleY)
		w.f64(e.Opacity)
		w.f64(e.Rotation)
		w.i32(int32(e.ZOrder))
		w.str(e.Source)
		w.i32(int32(len(e.Extra)))
		for k, v := range e.Extra {
			w.str(k)
			w.f64(v)
		}
	}

	w.i32(int32(len(s.KidokuBits)))
	for _, word := range s.KidokuBits {
		w.u64(word)
	}

	if w.err != nil {
		return nil, w.err
	}

	payload := buf.Bytes()
	checksum := adler32.Checksum(payload)
	out := make([]byte, len(payload)+4)
	copy(out, payload)
	binary.BigEndian.PutUint32(out[len(payload):], checksum)
	return out, nil
}

// Decode parses a buffer written by Encode, verifying its trailer first.
func Decode(data []byte) (*State, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("save data too short: %d bytes", len(data))
	}
	payload, trailer := data[:len(data)-4], data[len(data)-4:]
	want := binary.BigEndian.Uint32(trailer)
	got := adler32.Checksum(payload)
	if want != got {
		return nil, fmt.Errorf("save data checksum mismatch: file corrupt or truncated")
	}

	r := &reader{buf: bytes.NewReader(payload)}
	version := r.u16()
	if version != FormatVersion {
		return nil, fmt.Errorf("unsupported save format version %d (want %d)", version, FormatVersion)
	}

	s := &State{}
	s.CurrentAddress = int(r.i32())
	s.CurrentLabel = r.str()
	s.CurrentLine = int(r.i32())

	s.SlotRange = int(r.i32())
	n := int(r.i32())
	s.Ints = make([]int32, n)
	for i := range s.Ints {
		s.Ints[i] = r.i32()
	}
	n = int(r.i32())
	s.Strs = make([]string, n)
	for i := range s.Strs {
		s.Strs[i] = r.str()
	}

	n = int(r.i32())
	s.Arrays = make([]ArrayDump, n)
	for i := range s.Arrays {
		s.Arrays[i].No = int(r.i32())
		dimCount := int(r.i32())
		s.Arrays[i].Dims = make([]int, dimCount)
		for d := range s.Arrays[i].Dims {
			s.Arrays[i].Dims[d] = int(r.i32())
		}
		dataCount := int(r.i32())
		s.Arrays[i].Data = make([]int32, dataCount)
		for d := range s.Arrays[i].Data {
			s.Arrays[i].Data[d] = r.i32()
		}
	}

	n = int(r.i32())
	s.CallStack = make([]FrameDump, n)
	for i := range s.CallStack {
		isFor := r.bool()
		s.CallStack[i].IsFor = isFor
		if isFor {
			s.CallStack[i].For.NextScriptAddress = int(r.i32())
			s.CallStack[i].For.InductionVarNo = int(r.i32())
			s.CallStack[i].For.To = r.i32()
			s.CallStack[i].For.Step = r.i32()
			s.CallStack[i].For.BreakFlag = r.bool()
		} else {
			s.CallStack[i].Label.ReturnAddress = int(r.i32())
			s.CallStack[i].Label.ReturnLabel = r.str()
			s.CallStack[i].Label.ReturnLine = int(r.i32())
			s.CallStack[i].Label.HasPushedStringBuffer = r.bool()
			s.CallStack[i].Label.PushedStringBufferOffset = int(r.i32())
			s.CallStack[i].Label.DialogueReturnEvent = r.bool()
			s.CallStack[i].Label.Uninterruptible = r.bool()
		}
	}

	n = int(r.i32())
	s.Sprites = make([]sprite.Entry, n)
	for i := range s.Sprites {
		s.Sprites[i].No = int(r.i32())
		s.Sprites[i].Kind = sprite.Kind(r.i32())
		s.Sprites[i].Visible = r.bool()
		s.Sprites[i].X = r.f64()
		s.Sprites[i].Y = r.f64()
		s.Sprites[i].ScaleX = r.f64()
		s.Sprites[i].ScaleY = r.f64()
		s.Sprites[i].Opacity = r.f64()
		s.Sprites[i].Rotation = r.f64()
		s.Sprites[i].ZOrder = int(r.i32())
		s.Sprites[i].Source = r.str()
		extraN := int(r.i32())
		if extraN > 0 {
			s.Sprites[i].Extra = make(map[string]float64, extraN)
			for j := 0; j < extraN; j++ {
				key := r.str()
				s.Sprites[i].Extra[key] = r.f64()
			}
		}
	}

	n = int(r.i32())
	s.KidokuBits = make([]uint64, n)
	for i := range s.KidokuBits {
		s.KidokuBits[i] = r.u64()
	}

	if r.err != nil {
		return nil, r.err
	}
	return s, nil
}

// CaptureVars flattens a vars.Store into the Ints/Strs/Arrays fields of
// State (the fixed-slot range only; sparse overflow slots are not
// persisted — only the fixed slot range is saved).
func CaptureVars(s *State, store *vars.Store) {
	s.SlotRange = store.SlotRange()
	s.Ints = make([]int32, s.SlotRange)
	s.Strs = make([]string, s.SlotRange)
	for i := 0; i < s.SlotRange; i++ {
		s.Ints[i] = store.Int(i)
		s.Strs[i] = store.Str(i)
	}
	for av := store.Arrays(); av != nil; av = av.Next {
		s.Arrays = append(s.Arrays, ArrayDump{No: av.No, Dims: append([]int(nil), av.Dims...), Data: append([]int32(nil), av.Data...)})
	}
}

// RestoreVars writes State's captured variables back into a fresh store.
func RestoreVars(s *State, store *vars.Store) error {
	for i, v := range s.Ints {
		store.SetInt(i, v)
	}
	for i, v := range s.Strs {
		store.SetStr(i, v)
	}
	for _, a := range s.Arrays {
		if err := store.Dim(a.No, a.Dims); err != nil {
			return err
		}
		for flat, v := range a.Data {
			idx, err := unflatten(a.Dims, flat)
			if err != nil {
				return err
			}
			if err := store.ArraySet(a.No, idx, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func unflatten(dims []int, flat int) ([]int, error) {
	idx := make([]int, len(dims))
	for i := len(dims) - 1; i >= 0; i-- {
		idx[i] = flat % dims[i]
		flat /= dims[i]
	}
	return idx, nil
}

// CaptureCallStack flattens a callstack.Stack's frames into FrameDumps.
func CaptureCallStack(s *State, stack *callstack.Stack) {
	for _, f := range stack.Frames() {
		if f.Kind == callstack.KindFor {
			s.CallStack = append(s.CallStack, FrameDump{IsFor: true, For: *f.For})
		} else {
			s.CallStack = append(s.CallStack, FrameDump{IsFor: false, Label: *f.Label})
		}
	}
}

// RestoreCallStack rebuilds a callstack.Stack's frames from FrameDumps.
func RestoreCallStack(s *State, stack *callstack.Stack) {
	frames := make([]callstack.Frame, len(s.CallStack))
	for i, fd := range s.CallStack {
		if fd.IsFor {
			ff := fd.For
			frames[i] = callstack.Frame{Kind: callstack.KindFor, For: &ff}
		} else {
			lf := fd.Label
			frames[i] = callstack.Frame{Kind: callstack.KindLabel, Label: &lf}
		}
	}
	stack.Restore(frames)
}
