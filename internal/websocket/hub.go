// Package websocket is the duplex channel between the round server and its
// clients. Inbound frames are operation requests answered under the same
// correlation id; outbound pushes (odds moves, settlements, predictions) fan
// out to every connected client. A single hub goroutine owns the client set,
// so no locks.
package websocket

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/beargallbladder/fairwaylive/internal/coordinator"
	"github.com/beargallbladder/fairwaylive/internal/metrics"
)

// Push frame types emitted by the hub.
const (
	PushOddsUpdate  = "odds:update"
	PushSettlements = "bets:settled"
	PushPrediction  = "prediction"
)

const (
	defaultMaxClients = 50
	writeTimeout      = 5 * time.Second
	sendBufferSize    = 16
)

// Dispatcher answers one operation request. The session actor implements it.
type Dispatcher interface {
	Dispatch(op string, args json.RawMessage) (any, error)
}

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	conn  *websocket.Conn
	errCh chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	conn *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdBroadcast struct {
	data []byte
}

func (cmdBroadcast) hubCmd() {}

type cmdSendTo struct {
	conn *websocket.Conn
	data []byte
}

func (cmdSendTo) hubCmd() {}

type cmdClientCount struct {
	replyCh chan int
}

func (cmdClientCount) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Per-connection writer ---

type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg, ok := <-cw.sendCh:
			if !ok {
				return
			}
			cw.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	cw.conn.Close()
}

// --- Hub ---

type Hub struct {
	cmdCh      chan hubCmd
	clients    map[*websocket.Conn]*clientWriter
	dispatcher Dispatcher
	maxClients int
}

func NewHub(dispatcher Dispatcher) *Hub {
	hub := &Hub{
		cmdCh:      make(chan hubCmd, 256),
		clients:    make(map[*websocket.Conn]*clientWriter),
		dispatcher: dispatcher,
		maxClients: defaultMaxClients,
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.conn)
		case cmdBroadcast:
			h.handleBroadcast(c.data)
		case cmdSendTo:
			h.handleSendTo(c)
		case cmdClientCount:
			c.replyCh <- len(h.clients)
		case cmdStop:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	if len(h.clients) >= h.maxClients {
		slog.Warn("rejecting client: max clients reached", "max", h.maxClients)
		c.conn.Close()
		c.errCh <- ErrHubFull
		return
	}
	h.clients[c.conn] = newClientWriter(c.conn)
	metrics.ConnectedClients.Set(float64(len(h.clients)))
	slog.Info("client connected", "total_clients", len(h.clients))
	c.errCh <- nil
}

func (h *Hub) handleUnregister(conn *websocket.Conn) {
	cw, exists := h.clients[conn]
	if !exists {
		return
	}
	cw.stop()
	delete(h.clients, conn)
	metrics.ConnectedClients.Set(float64(len(h.clients)))
	slog.Info("client disconnected", "remaining_clients", len(h.clients))
}

func (h *Hub) handleBroadcast(data []byte) {
	var slow []*websocket.Conn
	for conn, cw := range h.clients {
		select {
		case cw.sendCh <- data:
		default:
			// client is slow, mark for removal
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		slog.Warn("disconnecting slow client")
		metrics.SlowClientsEvicted.Inc()
		h.handleUnregister(conn)
	}
}

func (h *Hub) handleSendTo(c cmdSendTo) {
	cw, exists := h.clients[c.conn]
	if !exists {
		return
	}
	select {
	case cw.sendCh <- c.data:
	default:
		slog.Warn("disconnecting slow client")
		metrics.SlowClientsEvicted.Inc()
		h.handleUnregister(c.conn)
	}
}

func (h *Hub) handleStop() {
	for conn, cw := range h.clients {
		cw.stop()
		delete(h.clients, conn)
	}
	metrics.ConnectedClients.Set(0)
}

// --- Public API ---

// HandleConn registers the connection and pumps its frames until the peer
// goes away. It blocks for the lifetime of the connection.
func (h *Hub) HandleConn(conn *websocket.Conn) error {
	if err := h.register(conn); err != nil {
		return err
	}
	defer h.unregister(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("client read failed", "error", err)
			}
			return nil
		}
		h.handleFrame(conn, data)
	}
}

// handleFrame decodes one inbound request and answers it under the same
// correlation id. Each request runs on its own goroutine so a slow operation
// never blocks the read pump; ordering comes from correlation ids, not
// arrival order.
func (h *Hub) handleFrame(conn *websocket.Conn, data []byte) {
	var req coordinator.Request
	if err := json.Unmarshal(data, &req); err != nil || req.CorrelationID == "" || req.OperationType == "" {
		slog.Warn("undecodable request frame dropped", "error", err)
		return
	}

	go func() {
		resp := coordinator.Response{CorrelationID: req.CorrelationID}
		result, err := h.dispatcher.Dispatch(req.OperationType, req.Args)
		if err != nil {
			resp.Error = err.Error()
		} else {
			encoded, err := json.Marshal(result)
			if err != nil {
				resp.Error = "encode result: " + err.Error()
			} else {
				resp.Result = encoded
			}
		}

		frame, err := json.Marshal(resp)
		if err != nil {
			slog.Error("marshal response failed", "error", err)
			return
		}
		h.cmdCh <- cmdSendTo{conn: conn, data: frame}
	}()
}

// BroadcastPush fans a typed push frame out to every client.
func (h *Hub) BroadcastPush(pushType string, payload any) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal push payload failed", "type", pushType, "error", err)
		return
	}
	frame, err := json.Marshal(coordinator.Push{Type: pushType, Payload: encoded})
	if err != nil {
		slog.Error("marshal push frame failed", "type", pushType, "error", err)
		return
	}
	h.cmdCh <- cmdBroadcast{data: frame}
}

func (h *Hub) ClientCount() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdClientCount{replyCh: replyCh}
	return <-replyCh
}

func (h *Hub) Stop() {
	h.cmdCh <- cmdStop{}
}

func (h *Hub) register(conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- cmdRegister{conn: conn, errCh: errCh}
	return <-errCh
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{conn: conn}
}
