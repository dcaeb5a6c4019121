package network

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects how messages are framed on a connection.
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
)

// ParseEncoding accepts "", "json" or "msgpack".
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case "", EncodingJSON:
		return EncodingJSON, nil
	case EncodingMsgpack:
		return EncodingMsgpack, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", s)
	}
}

// Binary reports whether frames should be sent as binary messages.
func (e Encoding) Binary() bool { return e == EncodingMsgpack }

// Marshal encodes v.
func (e Encoding) Marshal(v any) ([]byte, error) {
	if e == EncodingMsgpack {
		return msgpack.Marshal(v)
	}
	return json.Marshal(v)
}

// Unmarshal decodes data into v.
func (e Encoding) Unmarshal(data []byte, v any) error {
	if e == EncodingMsgpack {
		return msgpack.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}
