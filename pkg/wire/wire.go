// Package wire encodes and decodes the fixed width fields exchanged between stages.
//
// A field is 12 bytes: a 4 byte big-endian tag followed by an 8 byte big-endian value.
// There is no length prefix and no trailer, the stream simply ends.
package wire

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	// TagSize is the number of bytes of an encoded tag.
	TagSize = 4
	// ValueSize is the number of bytes of an encoded value.
	ValueSize = 8
	// FieldSize is the number of bytes of an encoded field.
	FieldSize = TagSize + ValueSize
)

// ErrTruncatedField is returned when the stream ends in the middle of a field.
var ErrTruncatedField = errors.New("truncated field")

// Tag identifies the kind of a field.
type Tag uint32

// Field is the atomic unit carried on every pipe.
type Field struct {
	Tag   Tag
	Value uint64
}

// Append appends the encoded field to b.
func Append(b []byte, f Field) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(f.Tag))

	return binary.BigEndian.AppendUint64(b, f.Value)
}

// Write writes the tag immediately followed by the value.
func Write(w io.Writer, f Field) error {
	var buf [FieldSize]byte

	_, err := w.Write(Append(buf[:0], f))
	if err != nil {
		return errors.Wrapf(err, "unable to write field with tag %d", f.Tag)
	}

	return nil
}

// Read reads exactly one field. It returns io.EOF when the stream ends cleanly on a
// field boundary and ErrTruncatedField when it ends inside a field.
func Read(r io.Reader) (Field, error) {
	var buf [FieldSize]byte

	_, err := io.ReadFull(r, buf[:])
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return Field{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return Field{}, ErrTruncatedField
	default:
		return Field{}, errors.Wrap(err, "unable to read field")
	}

	return Field{
		Tag:   Tag(binary.BigEndian.Uint32(buf[:TagSize])),
		Value: binary.BigEndian.Uint64(buf[TagSize:]),
	}, nil
}
