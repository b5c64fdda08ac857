package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/patelanuj7/calculatorapp/pkg/core/config"
	"github.com/patelanuj7/calculatorapp/pkg/core/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	svc, _ := newTestService(t, false)
	srv := New(cfg, svc, nopLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func postEvaluate(t *testing.T, url, expression string) (*http.Response, []byte) {
	t.Helper()
	body, err := json.Marshal(EvaluateRequest{Expression: expression})
	require.NoError(t, err)

	resp, err := http.Post(url+"/api/v1/evaluate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHTTP_Evaluate(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())

	resp, data := postEvaluate(t, ts.URL, "10 / 4")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("x-request-id"))

	var out EvaluateResponse
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotNil(t, out.Value)
	assert.Equal(t, 2.5, *out.Value)
	assert.Equal(t, "2.50000", out.Display)
}

func TestHTTP_EvaluateRejected(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())

	resp, data := postEvaluate(t, ts.URL, "3 +")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out ErrorResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "CALC_MISSING_OPERAND", out.Code)
}

func TestHTTP_EvaluateMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())

	resp, err := http.Get(ts.URL + "/api/v1/evaluate")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHTTP_Healthz(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report health.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, health.StatusHealthy, report.Status)
	assert.Len(t, report.Checks, 2)
}

func TestHTTP_Metrics(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())
	postEvaluate(t, ts.URL, "1+1")

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `calc_evaluations_total{code="OK",source="http"} 1`)
}

func dialWS(t *testing.T, ts *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendWS(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(WSMessage{Type: msgType, Payload: raw}))
}

type wsReply struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readWS(t *testing.T, conn *websocket.Conn) wsReply {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply wsReply
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestWebSocket_Evaluate(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())
	conn := dialWS(t, ts, nil)

	sendWS(t, conn, WSTypeEvaluate, WSEvaluatePayload{ID: "a", Expression: "2 * (3 + 4)"})
	reply := readWS(t, conn)
	require.Equal(t, WSTypeResult, reply.Type)

	var result WSResultPayload
	require.NoError(t, json.Unmarshal(reply.Payload, &result))
	assert.Equal(t, "a", result.ID)
	require.NotNil(t, result.Value)
	assert.Equal(t, 14.0, *result.Value)

	sendWS(t, conn, WSTypeEvaluate, WSEvaluatePayload{ID: "b", Expression: "5 / (2 - 2)"})
	reply = readWS(t, conn)
	require.Equal(t, WSTypeError, reply.Type)

	var failure WSErrorPayload
	require.NoError(t, json.Unmarshal(reply.Payload, &failure))
	assert.Equal(t, "b", failure.ID)
	assert.Equal(t, "CALC_DIVISION_BY_ZERO", failure.Code)
}

func TestWebSocket_PingAndUnknown(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())
	conn := dialWS(t, ts, nil)

	require.NoError(t, conn.WriteJSON(WSMessage{Type: WSTypePing}))
	assert.Equal(t, WSTypePong, readWS(t, conn).Type)

	require.NoError(t, conn.WriteJSON(WSMessage{Type: "chat"}))
	reply := readWS(t, conn)
	assert.Equal(t, WSTypeError, reply.Type)
	assert.Contains(t, string(reply.Payload), "Unknown message type: chat")
}

func TestWebSocket_OriginRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedOrigins = []string{"http://calc.example"}
	_, ts := newTestServer(t, cfg)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn := dialWS(t, ts, http.Header{"Origin": []string{"http://calc.example"}})
	require.NoError(t, conn.WriteJSON(WSMessage{Type: WSTypePing}))
	assert.Equal(t, WSTypePong, readWS(t, conn).Type)
}

func TestOriginChecker(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, originChecker(nil)(req))

	req.Header.Set("Origin", "http://a.example")
	assert.False(t, originChecker([]string{"http://b.example"})(req))
	assert.True(t, originChecker([]string{"*"})(req))
	assert.True(t, originChecker([]string{"HTTP://A.EXAMPLE"})(req))
}

func TestServer_ServeAndShutdown(t *testing.T) {
	svc, _ := newTestService(t, false)
	cfg := DefaultConfig()
	cfg.ShutdownTimeout = 2 * time.Second
	srv := New(cfg, svc, nopLogger())

	grpcLis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	httpLis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, grpcLis, httpLis) }()

	conn, err := grpc.NewClient(grpcLis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	value, err := NewClient(conn).Evaluate(context.Background(), "6*7")
	require.NoError(t, err)
	assert.Equal(t, 42.0, value)

	resp, err := http.Get("http://" + httpLis.Addr().String() + "/healthz")
	require.NoError(t, err)
	var report health.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// the serving gRPC port is checked next to engine and history
	require.Len(t, report.Checks, 3)
	assert.Equal(t, "grpc", report.Checks[1].Name)
	assert.Equal(t, health.StatusHealthy, report.Checks[1].Status)
	assert.Equal(t, grpcLis.Addr().String(), report.Checks[1].Details["address"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.Default())
	assert.Equal(t, 9300, cfg.GRPCPort)
	assert.Equal(t, 8300, cfg.HTTPPort)
	assert.True(t, cfg.EnableReflection)
	assert.NotEmpty(t, cfg.Version)
}
