package itemsource

import (
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// MMapWriter writes sequentially into a memory-mapped region.
type MMapWriter struct {
	data   mmap.MMap
	offset int
}

func NewMMapWriter(data mmap.MMap) *MMapWriter {
	return &MMapWriter{data: data}
}

// Write implements io.Writer. Writing past the end of the mapping fails
// with io.ErrShortWrite.
func (w *MMapWriter) Write(p []byte) (int, error) {
	n := copy(w.data[w.offset:], p)
	w.offset += n
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Offset is the number of bytes written so far.
func (w *MMapWriter) Offset() int { return w.offset }

// MMapReader reads sequentially from a memory-mapped region.
type MMapReader struct {
	data   mmap.MMap
	offset int
}

func NewMMapReader(data mmap.MMap) *MMapReader {
	return &MMapReader{data: data}
}

// Read implements io.Reader.
func (r *MMapReader) Read(p []byte) (int, error) {
	if r.offset >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.offset:])
	r.offset += n
	return n, nil
}

// SaveMMap writes features uncompressed through a memory mapping of
// filename. The file is sized exactly to the encoding.
func SaveMMap(filename string, features []*Feature) error {
	var counter countingWriter
	if err := encodeFeatures(&counter, features); err != nil {
		return err
	}

	file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := file.Truncate(counter.n); err != nil {
		return fmt.Errorf("failed to truncate file: %w", err)
	}

	mmapData, err := mmap.Map(file, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to mmap file: %w", err)
	}
	defer mmapData.Unmap()

	writer := NewMMapWriter(mmapData)
	if err := encodeFeatures(writer, features); err != nil {
		return err
	}
	if int64(writer.Offset()) != counter.n {
		return fmt.Errorf("mmap write size mismatch: wrote %d of %d bytes", writer.Offset(), counter.n)
	}

	return mmapData.Flush()
}

// LoadMMap reads a dataset written by SaveMMap.
func LoadMMap(filename string) ([]*Feature, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	mmapData, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap file: %w", err)
	}
	defer mmapData.Unmap()

	features, err := decodeFeatures(NewMMapReader(mmapData))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return features, nil
}
