package save

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend persists slots as individual files under Dir, named
// save%d.dat — the on-disk counterpart of the fixed binary save layout
// (MemoryBackend exists purely for tests and RAM-only quicksave use).
type FileBackend struct {
	Dir string
}

// NewFileBackend creates a FileBackend rooted at dir, creating dir if it
// doesn't already exist.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	return &FileBackend{Dir: dir}, nil
}

func (b *FileBackend) path(slot int) string {
	return filepath.Join(b.Dir, fmt.Sprintf("save%d.dat", slot))
}

func (b *FileBackend) WriteSlot(slot int, data []byte) error {
	return os.WriteFile(b.path(slot), data, 0o644)
}

func (b *FileBackend) ReadSlot(slot int) ([]byte, error) {
	data, err := os.ReadFile(b.path(slot))
	if err != nil {
		return nil, fmt.Errorf("save slot %d: %w", slot, err)
	}
	return data, nil
}
