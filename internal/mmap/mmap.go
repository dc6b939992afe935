// Package mmap provides read-only memory mapping of files, with a portable
// fallback that reads the file into memory.
package mmap

import "os"

// Mapping is a read-only view of a file's contents.
type Mapping struct {
	data    []byte
	unmap   func([]byte) error
	backing *os.File
}

// Open maps the named file read-only. Empty files yield a valid mapping
// with no bytes.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	size := info.Size()
	if size == 0 {
		_ = f.Close()
		return &Mapping{}, nil
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Mapping{data: data, unmap: unmap, backing: f}, nil
}

// Bytes returns the mapped contents. The slice is valid until Close.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Close unmaps the view and releases the file.
func (m *Mapping) Close() error {
	var err error
	if m.unmap != nil && m.data != nil {
		err = m.unmap(m.data)
		m.data = nil
	}
	if m.backing != nil {
		if cerr := m.backing.Close(); err == nil {
			err = cerr
		}
		m.backing = nil
	}
	return err
}
