package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	mdwerror "github.com/patelanuj7/calculatorapp/foundation/core/error"
	"github.com/patelanuj7/calculatorapp/foundation/utils/mathx"
	"github.com/patelanuj7/calculatorapp/internal/history/store"
	"github.com/patelanuj7/calculatorapp/pkg/core/logging"
)

const (
	wsReadTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// Message types
const (
	WSTypeEvaluate = "evaluate"
	WSTypeResult   = "result"
	WSTypeError    = "error"
	WSTypePing     = "ping"
	WSTypePong     = "pong"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`    // "evaluate", "ping"
	Payload json.RawMessage `json:"payload"` // Message-specific payload
}

// WSEvaluatePayload asks for one expression to be evaluated. ID is echoed
// back so clients can pipeline requests.
type WSEvaluatePayload struct {
	ID         string `json:"id,omitempty"`
	Expression string `json:"expression"`
}

// WSResponse represents a WebSocket response
type WSResponse struct {
	Type    string      `json:"type"`              // "result", "error", "pong"
	Payload interface{} `json:"payload,omitempty"` // Response-specific payload
}

// WSResultPayload carries a successful evaluation. Value is null for
// infinities and NaN; Display always holds the formatted text.
type WSResultPayload struct {
	ID         string   `json:"id,omitempty"`
	Expression string   `json:"expression"`
	Value      *float64 `json:"value"`
	Display    string   `json:"display"`
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebSocketHandler evaluates expressions sent over WebSocket connections
type WebSocketHandler struct {
	service  *Service
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

// NewWebSocketHandler creates a new WebSocket handler. An empty origin
// list accepts every origin.
func NewWebSocketHandler(service *Service, allowedOrigins []string, logger *logging.Logger) *WebSocketHandler {
	if logger == nil {
		logger = logging.New("calc-websocket")
	}
	return &WebSocketHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorWithErr("WebSocket upgrade failed", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection handles a single WebSocket connection. Requests are
// answered in order.
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	// Hijacked connections are not closed by http.Server.Shutdown
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	gauge := h.service.Metrics().WebSocketClients
	gauge.Inc()
	defer gauge.Dec()

	connID := uuid.New().String()
	h.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String(), "connection", connID)

	var writeMu sync.Mutex
	send := func(resp WSResponse) {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			h.logger.ErrorWithErr("Failed to send WebSocket response", err, "connection", connID)
		}
	}

	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.ErrorWithErr("WebSocket read error", err, "connection", connID)
			} else {
				h.logger.Info("WebSocket connection closed", "connection", connID)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		switch msg.Type {
		case WSTypePing:
			send(WSResponse{Type: WSTypePong})

		case WSTypeEvaluate:
			var payload WSEvaluatePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				send(errorResponse("", mdwerror.CodeInvalidInput.String(), "Invalid evaluate payload"))
				continue
			}
			send(h.evaluate(ctx, connID, payload))

		default:
			send(errorResponse("", mdwerror.CodeInvalidInput.String(), "Unknown message type: "+msg.Type))
		}
	}
}

func (h *WebSocketHandler) evaluate(ctx context.Context, connID string, payload WSEvaluatePayload) WSResponse {
	requestID := payload.ID
	if requestID == "" {
		requestID = connID
	}

	value, err := h.service.Evaluate(ctx, payload.Expression, store.SourceWebSocket, requestID)
	if err != nil {
		return errorResponse(payload.ID, mdwerror.GetCode(err).String(), err.Error())
	}

	return WSResponse{
		Type: WSTypeResult,
		Payload: WSResultPayload{
			ID:         payload.ID,
			Expression: payload.Expression,
			Value:      finiteOrNil(value),
			Display:    mathx.FormatResult(value),
		},
	}
}

func errorResponse(id, code, message string) WSResponse {
	return WSResponse{
		Type: WSTypeError,
		Payload: WSErrorPayload{
			ID:      id,
			Code:    code,
			Message: message,
		},
	}
}
