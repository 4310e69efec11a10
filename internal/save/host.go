package save

import (
	"fmt"

	"scenario-vn-core/internal/callstack"
	"scenario-vn-core/internal/logstate"
	"scenario-vn-core/internal/script"
	"scenario-vn-core/internal/sprite"
	"scenario-vn-core/internal/vars"
)

// Backend persists one slot's encoded bytes. FileBackend in this package
// is the real filesystem-backed implementation; tests use an in-memory one.
type Backend interface {
	WriteSlot(slot int, data []byte) error
	ReadSlot(slot int) ([]byte, error)
}

// MemoryBackend is a Backend kept entirely in memory, for tests and for
// the "quicksave to RAM" path some frontends want.
type MemoryBackend struct {
	slots map[int][]byte
}

func NewMemoryBackend() *MemoryBackend { return &MemoryBackend{slots: make(map[int][]byte)} }

func (b *MemoryBackend) WriteSlot(slot int, data []byte) error {
	cp := append([]byte(nil), data...)
	b.slots[slot] = cp
	return nil
}

func (b *MemoryBackend) ReadSlot(slot int) ([]byte, error) {
	data, ok := b.slots[slot]
	if !ok {
		return nil, fmt.Errorf("save slot %d is empty", slot)
	}
	return data, nil
}

// Host implements eval.SaveHost, capturing and restoring every piece of
// state that gets persisted.
type Host struct {
	Buf     *script.Buffer
	Vars    *vars.Store
	Stack   *callstack.Stack
	Sprites *sprite.Table
	Log     *logstate.Log
	Backend Backend

	// Position is read at save time and written at load time; internal/
	// engine supplies closures so Host doesn't need to import eval (which
	// would create an import cycle, since eval.Hosts embeds SaveHost).
	GetPosition func() (addr int, label string, line int)
	SetPosition func(addr int, label string, line int)
}

// SaveGame encodes the current engine state and writes it to slot.
func (h *Host) SaveGame(slot int) error {
	if h.Backend == nil {
		return fmt.Errorf("savegame: no backend installed")
	}
	s := &State{}
	if h.GetPosition != nil {
		s.CurrentAddress, s.CurrentLabel, s.CurrentLine = h.GetPosition()
	}
	CaptureVars(s, h.Vars)
	CaptureCallStack(s, h.Stack)
	if h.Sprites != nil {
		s.Sprites = h.Sprites.Ordered()
	}
	if h.Buf != nil {
		s.KidokuBits = append([]uint64(nil), h.Buf.KidokuBits()...)
	}

	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("savegame: %w", err)
	}
	if err := h.Backend.WriteSlot(slot, data); err != nil {
		return fmt.Errorf("savegame: %w", err)
	}
	return nil
}

// LoadGame reads slot and restores every subsystem from it.
func (h *Host) LoadGame(slot int) error {
	if h.Backend == nil {
		return fmt.Errorf("loadgame: no backend installed")
	}
	data, err := h.Backend.ReadSlot(slot)
	if err != nil {
		return fmt.Errorf("loadgame: %w", err)
	}
	s, err := Decode(data)
	if err != nil {
		return fmt.Errorf("loadgame: %w", err)
	}

	if err := RestoreVars(s, h.Vars); err != nil {
		return fmt.Errorf("loadgame: %w", err)
	}
	RestoreCallStack(s, h.Stack)
	if h.Sprites != nil {
		for _, e := range s.Sprites {
			h.Sprites.Set(e)
		}
	}
	if h.Buf != nil {
		if err := h.Buf.RestoreKidokuBits(s.KidokuBits); err != nil {
			return fmt.Errorf("loadgame: %w", err)
		}
	}
	if h.SetPosition != nil {
		h.SetPosition(s.CurrentAddress, s.CurrentLabel, s.CurrentLine)
	}
	return nil
}
