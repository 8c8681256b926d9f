// Package codec encodes cached entities into the compact binary form shared
// by the remote and SQL backends.
//
// Values are MessagePack maps keyed by field name, so external tools reading
// the store can decode them without this module.
package codec

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrEncode is returned when an entity cannot be serialized
	ErrEncode = errors.New("codec: encode failed")

	// ErrDecode is returned when stored bytes are not a valid entity
	ErrDecode = errors.New("codec: decode failed")
)

// Marshal encodes v
func Marshal[T any](v T) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}

// Unmarshal decodes data into a new T. The decoder yields times in the local
// zone; values with a Normalize() T method get it applied afterwards so that
// entities come back exactly as they were encoded.
func Unmarshal[T any](data []byte) (T, error) {
	var v T
	if len(data) == 0 {
		return v, fmt.Errorf("%w: empty value", ErrDecode)
	}
	if err := msgpack.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if n, ok := any(v).(interface{ Normalize() T }); ok {
		v = n.Normalize()
	}
	return v, nil
}

// IsDecode checks if an error is a deserialization fault
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}
