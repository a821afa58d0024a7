package icon

import (
	"fmt"
	"os"
	"path/filepath"
)

// Slots is a two-entry ring of artifact paths. Consecutive writes never reuse
// the path handed out by the previous write, so a reader still loading the
// previous icon is not handed a file that is being rewritten.
type Slots struct {
	paths [2]string
	next  int
}

// NewSlots returns slots "<dir>/<prefix>_a.<ext>" and "<dir>/<prefix>_b.<ext>".
func NewSlots(dir, prefix, ext string) *Slots {
	return &Slots{paths: [2]string{
		filepath.Join(dir, fmt.Sprintf("%s_a.%s", prefix, ext)),
		filepath.Join(dir, fmt.Sprintf("%s_b.%s", prefix, ext)),
	}}
}

// Next returns the path to write next and advances the ring. The first call
// returns slot A.
func (s *Slots) Next() string {
	p := s.paths[s.next]
	s.next ^= 1
	return p
}

func (s *Slots) Paths() [2]string {
	return s.paths
}

// fsync before the path is handed out
func writeFile(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create icon file %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write icon file %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync icon file %s: %w", path, err)
	}
	return f.Close()
}
