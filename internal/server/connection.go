package server

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gravitas-games/hexgeo/internal/network"
	"github.com/gravitas-games/hexgeo/internal/query"
	"github.com/gravitas-games/hexgeo/pkg/hex"
	"github.com/gravitas-games/hexgeo/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	defaultBatchSize = 256
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	id       string
	ws       *websocket.Conn
	server   *Server
	client   *models.Client
	encoding network.Encoding
	logger   *log.Logger

	// Buffered channel for outbound messages
	send chan []byte

	// Closed once the connection is shutting down
	done      chan struct{}
	closeOnce sync.Once
}

// NewConnection creates a new connection
func NewConnection(ws *websocket.Conn, server *Server, client *models.Client, encoding network.Encoding) *Connection {
	id := uuid.NewString()
	client.ConnectionID = id
	return &Connection{
		id:       id,
		ws:       ws,
		server:   server,
		client:   client,
		encoding: encoding,
		logger:   server.logger.With("conn", id),
		send:     make(chan []byte, 256),
		done:     make(chan struct{}),
	}
}

// ID returns the connection id
func (c *Connection) ID() string { return c.id }

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.server.session.AddClient(c)
	c.sendWelcome()

	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the server
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", "err", err)
			}
			return
		}
		c.server.session.Touch(c.id)

		var clientMsg network.ClientMessage
		if err := c.encoding.Unmarshal(message, &clientMsg); err != nil {
			c.logger.Debug("failed to parse client message", "err", err)
			if errors.Is(err, hex.ErrFormat) {
				c.SendError(clientMsg.ID, network.ErrCodeFormat, err.Error())
			} else {
				c.SendError(clientMsg.ID, network.ErrCodeInvalidMessage, "Failed to parse message")
			}
			continue
		}

		if !c.handleMessage(&clientMsg) {
			return
		}
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	frameType := websocket.TextMessage
	if c.encoding.Binary() {
		frameType = websocket.BinaryMessage
	}

	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(frameType, message); err != nil {
				c.logger.Warn("websocket write error", "err", err)
				c.Close()
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.done:
			c.flush(frameType)
			return

		case <-c.server.ctx.Done():
			c.flush(frameType)
			return
		}
	}
}

// flush writes whatever is still queued, then a close frame
func (c *Connection) flush(frameType int) {
	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(frameType, message); err != nil {
				return
			}
		default:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage routes messages to appropriate handlers. It returns false
// once the connection can no longer accept replies.
func (c *Connection) handleMessage(msg *network.ClientMessage) bool {
	c.logger.Debug("received message", "type", msg.Type, "id", msg.ID)

	switch msg.Type {
	case network.MsgTypePing:
		return c.reply(msg.ID, network.MsgTypePong, network.PongPayload{Timestamp: time.Now().Unix()})

	case network.MsgTypeStatus:
		return c.reply(msg.ID, network.MsgTypeSessionStatus, c.server.session.GetStatus())

	case network.MsgTypeDistance:
		return c.handleDistance(msg)

	default:
		op, ok := query.Lookup(msg.Type)
		if !ok {
			return c.SendError(msg.ID, network.ErrCodeUnknownType, fmt.Sprintf("Unknown message type %q", msg.Type))
		}
		return c.handleQuery(msg, op)
	}
}

func (c *Connection) handleDistance(msg *network.ClientMessage) bool {
	p := &msg.Payload
	if p.A == nil || p.B == nil {
		return c.SendError(msg.ID, network.ErrCodeInvalidRequest, "distance: payload needs a and b")
	}
	c.server.session.RecordQuery(0)
	return c.reply(msg.ID, network.MsgTypeDistanceReply, network.DistancePayload{Distance: hex.Distance(*p.A, *p.B)})
}

// handleQuery streams a set result in batches followed by a done message
func (c *Connection) handleQuery(msg *network.ClientMessage, op query.SetOp) bool {
	args, err := payloadArgs(op, &msg.Payload)
	if err != nil {
		return c.sendQueryError(msg.ID, err)
	}

	seq, err := op.Open(c.server.config.Limits.Query(), args)
	if err != nil {
		return c.sendQueryError(msg.ID, err)
	}

	batchSize := c.server.config.Limits.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	batch := make([]hex.Axial, 0, batchSize)
	var count int64
	var batchNo int
	flush := func() bool {
		ok := c.reply(msg.ID, network.MsgTypeHexes, network.HexesPayload{Op: op.Name, Batch: batchNo, Hexes: batch})
		batchNo++
		batch = batch[:0]
		return ok
	}

	for cell := range seq {
		batch = append(batch, cell)
		count++
		if len(batch) == batchSize && !flush() {
			return false
		}
	}
	if len(batch) > 0 && !flush() {
		return false
	}

	c.server.session.RecordQuery(count)
	return c.reply(msg.ID, network.MsgTypeDone, network.DonePayload{Op: op.Name, Count: count})
}

// payloadArgs maps payload fields onto the operation's parameters by name
func payloadArgs(op query.SetOp, p *network.QueryPayload) ([]query.Arg, error) {
	args := make([]query.Arg, len(op.Params))
	for i, param := range op.Params {
		var cell *hex.Axial
		switch param.Name {
		case "center":
			cell = p.Center
		case "a":
			cell = p.A
		case "b":
			cell = p.B
		case "radius":
			if p.Radius == nil {
				return nil, fmt.Errorf("%s: payload needs %s", op.Name, param.Name)
			}
			args[i] = query.Arg{Int: *p.Radius}
			continue
		}
		if cell == nil {
			return nil, fmt.Errorf("%s: payload needs %s", op.Name, param.Name)
		}
		args[i] = query.Arg{Hex: *cell}
	}
	return args, nil
}

func (c *Connection) sendQueryError(id string, err error) bool {
	return c.SendError(id, network.ErrorCode(err), err.Error())
}

// reply queues a message, waiting for room in the send buffer
func (c *Connection) reply(id, msgType string, payload any) bool {
	data, err := c.encoding.Marshal(&network.ServerMessage{ID: id, Type: msgType, Payload: payload})
	if err != nil {
		c.logger.Error("failed to marshal message", "type", msgType, "err", err)
		return true
	}

	select {
	case c.send <- data:
		return true
	case <-c.done:
		return false
	case <-c.server.ctx.Done():
		return false
	}
}

// SendMessage queues a message without waiting, dropping it if the send
// buffer is full
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := c.encoding.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to marshal message", "type", msg.Type, "err", err)
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping message", "type", msg.Type)
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(id, code, message string) bool {
	return c.reply(id, network.MsgTypeError, network.ErrorPayload{Code: code, Message: message})
}

func (c *Connection) sendWelcome() {
	limits := c.server.config.Limits
	bounds := limits.Query()
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			ClientID:     c.client.ID,
			ConnectionID: c.id,
			Username:     c.client.Username,
			Encoding:     string(c.encoding),
			Limits: network.LimitsPayload{
				MaxRadius:       bounds.MaxRadius,
				MaxLineDistance: bounds.MaxLineDistance,
				BatchSize:       limits.BatchSize,
			},
		},
	})
}

// Close closes the connection
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.server.session.RemoveClient(c.id)
		close(c.done)
	})
}
