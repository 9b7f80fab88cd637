// Package archmap memory-maps files read-only for the search driver, so the
// archive and dictionary are paged in by the OS rather than copied into the
// process's heap up front.
package archmap

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// Mapping owns a read-only mapping over a file. Close unmaps and closes the
// underlying descriptor; it is safe to call once. A zero Mapping behaves as
// an empty, already-closed mapping (Bytes returns nil, Close is a no-op);
// Open returns one for an empty file.
type Mapping struct {
	f *os.File
	m mmap.MMap
}

// Open maps path read-only in its entirety.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		// mmap.Map rejects empty files; an empty archive or dictionary is
		// well-formed input (just one with no candidates or entries), so
		// hand back an empty, already-"closed" mapping rather than erroring.
		f.Close()
		return &Mapping{}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Mapping{f: f, m: m}, nil
}

// Bytes returns the mapped region. It is valid until Close.
func (mp *Mapping) Bytes() []byte {
	if mp == nil || mp.m == nil {
		return nil
	}
	return mp.m
}

// Close unmaps the region and closes the file descriptor.
func (mp *Mapping) Close() error {
	if mp == nil {
		return nil
	}
	var err error
	if mp.m != nil {
		err = mp.m.Unmap()
	}
	if mp.f != nil {
		if cerr := mp.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
