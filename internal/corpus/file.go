package corpus

import (
	"bytes"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"disambig/internal/window"
)

// ReadFile memory-maps a corpus file and parses it.
func ReadFile(path string) ([]window.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat corpus %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap corpus %s: %w", path, err)
	}
	defer m.Unmap()

	examples, err := Parse(bytes.NewReader(m))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return examples, nil
}
