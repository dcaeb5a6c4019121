package network

import (
	"github.com/gravitas-games/hexgeo/pkg/hex"
)

// Message types - Client → Server. Set queries use the operation name
// as their type: hexes_in_range, linedraw, neighbors, diagonals,
// ring_path, spiral_path.
const (
	MsgTypePing     = "ping"
	MsgTypeDistance = "distance"
	MsgTypeStatus   = "status"
)

// Message types - Server → Client
const (
	MsgTypeWelcome       = "welcome"
	MsgTypeHexes         = "hexes"
	MsgTypeDone          = "done"
	MsgTypeDistanceReply = "distance"
	MsgTypeSessionStatus = "session_status"
	MsgTypeError         = "error"
	MsgTypePong          = "pong"
)

// Error codes carried in ErrorPayload
const (
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeUnknownType    = "unknown_message_type"
	ErrCodeFormat         = "format_error"
	ErrCodeDomain         = "domain_error"
	ErrCodeOverflow       = "overflow"
	ErrCodeLimit          = "limit_exceeded"
	ErrCodeInvalidRequest = "invalid_request"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	ID      string       `json:"id,omitempty" msgpack:"id,omitempty"`
	Type    string       `json:"type" msgpack:"type"`
	Payload QueryPayload `json:"payload" msgpack:"payload"`
}

// ServerMessage represents any message from server to client. ID echoes
// the client message it answers.
type ServerMessage struct {
	ID      string      `json:"id,omitempty" msgpack:"id,omitempty"`
	Type    string      `json:"type" msgpack:"type"`
	Payload interface{} `json:"payload" msgpack:"payload"`
}

// --- Client Message Payloads ---

// QueryPayload carries the arguments of every query type. Fields are
// named after the operation parameters; unused ones are omitted.
type QueryPayload struct {
	Center *hex.Axial `json:"center,omitempty" msgpack:"center,omitempty"`
	A      *hex.Axial `json:"a,omitempty" msgpack:"a,omitempty"`
	B      *hex.Axial `json:"b,omitempty" msgpack:"b,omitempty"`
	Radius *int64     `json:"radius,omitempty" msgpack:"radius,omitempty"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to client after successful connection
type WelcomePayload struct {
	ClientID     string        `json:"client_id" msgpack:"client_id"`
	ConnectionID string        `json:"connection_id" msgpack:"connection_id"`
	Username     string        `json:"username" msgpack:"username"`
	Encoding     string        `json:"encoding" msgpack:"encoding"`
	Limits       LimitsPayload `json:"limits" msgpack:"limits"`
}

// LimitsPayload tells clients how large a query may be. Zero means unlimited.
type LimitsPayload struct {
	MaxRadius       int   `json:"max_radius" msgpack:"max_radius"`
	MaxLineDistance int64 `json:"max_line_distance" msgpack:"max_line_distance"`
	BatchSize       int   `json:"batch_size" msgpack:"batch_size"`
}

// HexesPayload is one batch of a streamed set result
type HexesPayload struct {
	Op    string      `json:"op" msgpack:"op"`
	Batch int         `json:"batch" msgpack:"batch"`
	Hexes []hex.Axial `json:"hexes" msgpack:"hexes"`
}

// DonePayload ends a streamed set result
type DonePayload struct {
	Op    string `json:"op" msgpack:"op"`
	Count int64  `json:"count" msgpack:"count"`
}

// DistancePayload answers a distance query
type DistancePayload struct {
	Distance int64 `json:"distance" msgpack:"distance"`
}

// PongPayload answers a ping
type PongPayload struct {
	Timestamp int64 `json:"timestamp" msgpack:"timestamp"`
}

// SessionStatus represents the current service state
type SessionStatus struct {
	State         string `json:"state" msgpack:"state"`
	ClientCount   int    `json:"client_count" msgpack:"client_count"`
	QueriesServed int64  `json:"queries_served" msgpack:"queries_served"`
	HexesServed   int64  `json:"hexes_served" msgpack:"hexes_served"`
	Uptime        int64  `json:"uptime" msgpack:"uptime"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code" msgpack:"code"`
	Message string `json:"message" msgpack:"message"`
}
