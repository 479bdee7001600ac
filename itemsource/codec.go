package itemsource

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"
)

// Dataset layout, little endian:
//
//	magic "LODC" | version uint16 | count uint32 | record*
//	record: id uint32 | missing uint8 | x float64 | y float64 |
//	        nMetrics uint32 | (key, float32)* |
//	        nMetadata uint32 | (key, tag uint8, value)*
//
// Keys and values are a uint32 length followed by the bytes. Metadata values
// are JSON except time.Time, which is stored as RFC 3339 text so summaries
// still see a time after a round trip.
const (
	formatVersion uint16 = 1

	tagJSON uint8 = 0
	tagTime uint8 = 1

	maxFieldLen = 1 << 20
)

var magic = [4]byte{'L', 'O', 'D', 'C'}

type recordWriter struct {
	w   io.Writer
	err error
}

func (rw *recordWriter) write(v interface{}) {
	if rw.err != nil {
		return
	}
	rw.err = binary.Write(rw.w, binary.LittleEndian, v)
}

func (rw *recordWriter) writeBytes(b []byte) {
	rw.write(uint32(len(b)))
	if rw.err != nil {
		return
	}
	_, rw.err = rw.w.Write(b)
}

func encodeFeatures(w io.Writer, features []*Feature) error {
	rw := &recordWriter{w: w}
	rw.write(magic)
	rw.write(formatVersion)
	rw.write(uint32(len(features)))

	for _, f := range features {
		rw.write(f.ID)
		var missing uint8
		if f.Missing {
			missing = 1
		}
		rw.write(missing)
		rw.write(f.Point[0])
		rw.write(f.Point[1])

		rw.write(uint32(len(f.Metrics)))
		for _, k := range sortedKeys(f.Metrics) {
			rw.writeBytes([]byte(k))
			rw.write(f.Metrics[k])
		}

		rw.write(uint32(len(f.Metadata)))
		for _, k := range sortedKeys(f.Metadata) {
			rw.writeBytes([]byte(k))
			switch v := f.Metadata[k].(type) {
			case time.Time:
				rw.write(tagTime)
				rw.writeBytes([]byte(v.Format(time.RFC3339Nano)))
			default:
				valueBytes, err := json.Marshal(v)
				if err != nil {
					return fmt.Errorf("failed to marshal metadata %q of feature %d: %w", k, f.ID, err)
				}
				rw.write(tagJSON)
				rw.writeBytes(valueBytes)
			}
		}
		if rw.err != nil {
			break
		}
	}

	if rw.err != nil {
		return fmt.Errorf("failed to write dataset: %w", rw.err)
	}
	return nil
}

type recordReader struct {
	r   io.Reader
	err error
}

func (rr *recordReader) read(v interface{}) {
	if rr.err != nil {
		return
	}
	rr.err = binary.Read(rr.r, binary.LittleEndian, v)
}

func (rr *recordReader) readBytes() []byte {
	var n uint32
	rr.read(&n)
	if rr.err != nil {
		return nil
	}
	if n > maxFieldLen {
		rr.err = fmt.Errorf("%w: field of %d bytes", ErrCorruptRecord, n)
		return nil
	}
	b := make([]byte, n)
	_, rr.err = io.ReadFull(rr.r, b)
	return b
}

func decodeFeatures(r io.Reader) ([]*Feature, error) {
	rr := &recordReader{r: r}

	var m [4]byte
	rr.read(&m)
	if rr.err != nil {
		return nil, fmt.Errorf("failed to read header: %w", rr.err)
	}
	if m != magic {
		return nil, ErrBadMagic
	}
	var version uint16
	rr.read(&version)
	var count uint32
	rr.read(&count)
	if rr.err != nil {
		return nil, fmt.Errorf("failed to read header: %w", rr.err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	// Cap the up-front allocation; a corrupt count must not reserve gigabytes.
	features := make([]*Feature, 0, min(int(count), 1<<16))
	for i := uint32(0); i < count; i++ {
		f := &Feature{}
		var missing uint8
		rr.read(&f.ID)
		rr.read(&missing)
		rr.read(&f.Point[0])
		rr.read(&f.Point[1])
		f.Missing = missing != 0

		var numMetrics uint32
		rr.read(&numMetrics)
		if numMetrics > 0 && rr.err == nil {
			f.Metrics = make(map[string]float32, min(int(numMetrics), 64))
			for j := uint32(0); j < numMetrics && rr.err == nil; j++ {
				key := string(rr.readBytes())
				var value float32
				rr.read(&value)
				f.Metrics[key] = value
			}
		}

		var numMetadata uint32
		rr.read(&numMetadata)
		if numMetadata > 0 && rr.err == nil {
			f.Metadata = make(map[string]interface{}, min(int(numMetadata), 64))
			for j := uint32(0); j < numMetadata && rr.err == nil; j++ {
				key := string(rr.readBytes())
				var tag uint8
				rr.read(&tag)
				raw := rr.readBytes()
				if rr.err != nil {
					break
				}
				value, err := decodeMetadataValue(tag, raw)
				if err != nil {
					return nil, fmt.Errorf("feature %d metadata %q: %w", f.ID, key, err)
				}
				f.Metadata[key] = value
			}
		}

		if rr.err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", i, rr.err)
		}
		features = append(features, f)
	}
	return features, nil
}

func decodeMetadataValue(tag uint8, raw []byte) (interface{}, error) {
	switch tag {
	case tagTime:
		t, err := time.Parse(time.RFC3339Nano, string(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
		}
		return t, nil
	case tagJSON:
		var value interface{}
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("%w: unknown value tag %d", ErrCorruptRecord, tag)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// countingWriter sizes an encoding without keeping it.
type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
