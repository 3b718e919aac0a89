package credential

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// The registry layout is bincode 1 compatible so vaults written by earlier
// versions keep decoding. All integers are little endian.
//
//   8:count
//   count * (
//     str:key | str:id | str:issuer | str:secret | str:name |
//     4:algorithm | 8:digits | 8:period | str:icon
//   )
//
// where str is 8:length|utf8 bytes.
const (
	strHeader = 8
	// minEntrySize is the size of an entry where every string is empty
	minEntrySize = 6*strHeader + 4 + 8 + 8
)

// Encode the registry. Entries are written in sorted id order so equal maps
// encode to equal bytes.
func Encode(m Map) []byte {
	size := 8
	for id, c := range m {
		size += minEntrySize + len(id) + len(c.ID) + len(c.Issuer) +
			len(c.Secret) + len(c.Name) + len(c.Icon)
	}

	buf := make([]byte, 0, size)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(m)))
	for _, id := range m.IDs() {
		c := m[id]
		buf = appendString(buf, id)
		buf = appendString(buf, c.ID)
		buf = appendString(buf, c.Issuer)
		buf = appendString(buf, c.Secret)
		buf = appendString(buf, c.Name)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(c.Algorithm))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(c.Digits))
		buf = binary.LittleEndian.AppendUint64(buf, c.Period)
		buf = appendString(buf, c.Icon)
	}

	return buf
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s)))
	return append(buf, s...)
}

// Decode a registry produced by Encode. Malformed input of any kind results
// in a *DecodeError.
func Decode(data []byte) (Map, error) {
	d := decoder{data: data}

	count := d.uint64()
	if d.err != nil {
		return nil, d.err
	}
	if count > uint64(d.remaining()/minEntrySize) {
		return nil, d.fail("entry count %d exceeds remaining data", count)
	}

	m := make(Map, count)
	for i := uint64(0); i < count; i++ {
		key := d.string()
		var c Credential
		c.ID = d.string()
		c.Issuer = d.string()
		c.Secret = d.string()
		c.Name = d.string()
		c.Algorithm = Algorithm(d.uint32())
		digits := d.uint64()
		c.Period = d.uint64()
		c.Icon = d.string()

		if d.err != nil {
			return nil, d.err
		}
		if !c.Algorithm.Valid() {
			return nil, d.fail("unknown algorithm %d", uint32(c.Algorithm))
		}
		if digits > math.MaxInt32 {
			return nil, d.fail("digits %d out of range", digits)
		}
		c.Digits = int(digits)

		if _, ok := m[key]; ok {
			return nil, d.fail("duplicate id %q", key)
		}
		m[key] = c
	}

	if d.remaining() != 0 {
		return nil, d.fail("%d trailing bytes", d.remaining())
	}

	return m, nil
}

type decoder struct {
	data   []byte
	offset int
	err    error
}

func (d *decoder) remaining() int {
	return len(d.data) - d.offset
}

func (d *decoder) fail(format string, args ...interface{}) error {
	if d.err == nil {
		d.err = &DecodeError{Offset: d.offset, Reason: fmt.Sprintf(format, args...)}
	}
	return d.err
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > d.remaining() {
		d.fail("need %d bytes, have %d", n, d.remaining())
		return nil
	}

	b := d.data[d.offset : d.offset+n]
	d.offset += n
	return b
}

func (d *decoder) uint32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) uint64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *decoder) string() string {
	length := d.uint64()
	if d.err != nil {
		return ""
	}
	if length > uint64(d.remaining()) {
		d.fail("string length %d exceeds remaining data", length)
		return ""
	}

	b := d.take(int(length))
	if b == nil {
		return ""
	}
	if !utf8.Valid(b) {
		d.fail("string is not valid utf8")
		return ""
	}

	return string(b)
}
