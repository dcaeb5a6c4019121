package hex

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = Axial{}
	_ msgpack.CustomDecoder = (*Axial)(nil)
)

// EncodeMsgpack writes the wire form: a two-element array [q, r].
func (a Axial) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(a.Q)); err != nil {
		return err
	}
	return enc.EncodeInt(int64(a.R))
}

// DecodeMsgpack reads the wire form written by EncodeMsgpack.
func (a *Axial) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return &FormatError{Input: "msgpack", Reason: err.Error()}
	}
	if n != 2 {
		return &FormatError{Input: "msgpack", Reason: fmt.Sprintf("expected 2 components, got %d", n)}
	}
	var parts [2]int32
	for i := range parts {
		v, err := dec.DecodeInt64()
		if err != nil {
			return &FormatError{Input: "msgpack", Reason: err.Error()}
		}
		parts[i], err = safecast.Conv[int32](v)
		if err != nil {
			return &FormatError{Input: "msgpack", Reason: err.Error()}
		}
	}
	*a = Axial{Q: parts[0], R: parts[1]}
	return nil
}
