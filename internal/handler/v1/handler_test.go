package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/client"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/service"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/age"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/drawing"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/metrics"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

const signStrokes = `[{"penColor":"black","minWidth":0.5,"maxWidth":2.5,"points":[{"x":20,"y":40},{"x":100,"y":30},{"x":180,"y":40}]}]`

func init() {
	gin.SetMode(gin.TestMode)
}

type apiEnv struct {
	router  *gin.Engine
	clients *memory.ClientRepository
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()

	log := zap.NewNop()
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	catalog, err := document.DefaultCatalog()
	require.NoError(t, err)

	canvas := service.DefaultCanvasSettings()
	canvas.SignatureWidth, canvas.SignatureHeight = 200, 80
	canvas.PainWidth, canvas.PainHeight = 100, 150
	canvas.MaxThumbWidth = 400
	canvas.MaxStrokePoints = 500

	clients := memory.NewClientRepository()
	clock := age.FixedClock(testNow)

	auditSvc := service.NewAuditService(memory.NewAuditRepository(), log, m)
	t.Cleanup(auditSvc.Shutdown)
	ptSvc := service.NewPTService(clients, memory.NewPTRepository(), auditSvc, canvas, m, log)

	r := gin.New()
	r.Use(middleware.RequestID())
	NewHealthHandler(nil, "test").RegisterRoutes(r)
	api := r.Group("/v1")
	NewClientHandler(service.NewClientService(clients, auditSvc, clock, m, log)).RegisterRoutes(api)
	NewDocumentHandler(service.NewDocumentService(catalog, clients, memory.NewDocumentRepository(), auditSvc, canvas, clock, m, log)).RegisterRoutes(api, api)
	NewPTHandler(ptSvc).RegisterRoutes(api)
	NewLiveHandler(ptSvc, time.Minute, []string{"*"}, log).RegisterRoutes(api)
	NewHelpHandler(service.NewHelpService(catalog, clients)).RegisterRoutes(api)

	return &apiEnv{router: r, clients: clients}
}

func (e *apiEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *apiEnv) newClient(t *testing.T) string {
	t.Helper()
	c := &client.Client{FirstName: "Ada", LastName: "Lovelace", DateOfBirth: time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, e.clients.Create(context.Background(), c))
	return c.ID.String()
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Data
}

func TestCreateClient(t *testing.T) {
	env := newAPI(t)

	rr := env.do(t, http.MethodPost, "/v1/clients",
		`{"first_name":"Ada","last_name":"Lovelace","date_of_birth":"1990-12-10","email":"ada@example.com"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	data := decodeData(t, rr)
	assert.EqualValues(t, 33, data["age"])
	id := data["id"].(string)

	rr = env.do(t, http.MethodGet, "/v1/clients/"+id, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Lovelace", decodeData(t, rr)["last_name"])
}

func TestCreateClientRejectsBadInput(t *testing.T) {
	env := newAPI(t)

	cases := map[string]string{
		"missing last name": `{"first_name":"Ada","date_of_birth":"1990-12-10"}`,
		"bad email":         `{"first_name":"Ada","last_name":"L","date_of_birth":"1990-12-10","email":"nope"}`,
		"bad date":          `{"first_name":"Ada","last_name":"L","date_of_birth":"10/12/1990"}`,
		"minor alone":       `{"first_name":"Kid","last_name":"L","date_of_birth":"2015-01-01"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/v1/clients", body).Code)
		})
	}
}

func TestGetClientErrors(t *testing.T) {
	env := newAPI(t)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/v1/clients/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/v1/clients/6f1c1f6e-8d4a-4c0e-9d6e-2f7d1b2c3a4b", "").Code)
}

func TestSignWithoutStrokesIsRefused(t *testing.T) {
	env := newAPI(t)
	id := env.newClient(t)

	rr := env.do(t, http.MethodPost, "/v1/clients/"+id+"/documents/consent", `{"signdate":"2024-06-14","strokes":[]}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "SIGNATURE_REQUIRED", resp.Code)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/v1/clients/"+id+"/documents/consent", "").Code)
}

func TestSignAndFetchSignature(t *testing.T) {
	env := newAPI(t)
	id := env.newClient(t)

	body := `{"signdate":"2024-06-14","strokes":` + signStrokes + `,"fields":{"infectious_disease":true}}`
	rr := env.do(t, http.MethodPost, "/v1/clients/"+id+"/documents/consent", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.True(t, strings.HasPrefix(decodeData(t, rr)["signature"].(string), "data:image/png;base64,"))

	rr = env.do(t, http.MethodGet, "/v1/clients/"+id+"/documents/consent/signature.png", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, drawing.MimePNG, rr.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())

	rr = env.do(t, http.MethodGet, "/v1/clients/"+id+"/documents/consent/signature.png?width=50", "")
	require.Equal(t, http.StatusOK, rr.Code)
	img, err = png.Decode(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())

	assert.Equal(t, http.StatusBadRequest,
		env.do(t, http.MethodGet, "/v1/clients/"+id+"/documents/consent/signature.png?width=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest,
		env.do(t, http.MethodGet, "/v1/clients/"+id+"/documents/consent/signature.png?width=5000", "").Code)

	rr = env.do(t, http.MethodGet, "/v1/clients/"+id+"/documents", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var status struct {
		Data []service.DocumentStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	for _, s := range status.Data {
		assert.Equal(t, s.Kind == document.KindConsent, s.Signed, s.Kind)
	}
}

func TestSignRejectsBadRequests(t *testing.T) {
	env := newAPI(t)
	id := env.newClient(t)

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown kind", "/documents/lease", `{"signdate":"2024-06-14","strokes":` + signStrokes + `}`, http.StatusNotFound},
		{"malformed strokes", "/documents/consent", `{"signdate":"2024-06-14","strokes":{"x":1}}`, http.StatusBadRequest},
		{"future date", "/documents/consent", `{"signdate":"2024-07-01","strokes":` + signStrokes + `}`, http.StatusBadRequest},
		{"unknown field", "/documents/consent", `{"signdate":"2024-06-14","strokes":` + signStrokes + `,"fields":{"shoe_size":9}}`, http.StatusBadRequest},
		{"bad data url", "/documents/consent", `{"signdate":"2024-06-14","signature":"data:text/plain,hi"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/v1/clients/"+id+tc.path, tc.body)
			assert.Equal(t, tc.want, rr.Code, rr.Body.String())
		})
	}
}

func TestCatalog(t *testing.T) {
	env := newAPI(t)
	rr := env.do(t, http.MethodGet, "/v1/documents", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data []document.Definition `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 6)
}

func TestPTHistory(t *testing.T) {
	env := newAPI(t)
	id := env.newClient(t)

	rr := env.do(t, http.MethodGet, "/v1/clients/"+id+"/pt-history", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", decodeData(t, rr)["pain_areas"])

	painAreas := `[{"penColor":"red","minWidth":0.5,"maxWidth":2.5,"points":[{"x":20,"y":30},{"x":60,"y":30}]}]`
	quoted, err := json.Marshal(painAreas)
	require.NoError(t, err)

	rr = env.do(t, http.MethodPut, "/v1/clients/"+id+"/pt-history",
		`{"has_pt":true,"best_pain":2,"worst_pain":7,"pain_areas":`+string(quoted)+`}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	data := decodeData(t, rr)
	assert.Equal(t, true, data["has_pt"])
	assert.Contains(t, data["pain_areas"], `"penColor":"red"`)

	rr = env.do(t, http.MethodGet, "/v1/clients/"+id+"/pt-history/pain-areas.png", "")
	require.Equal(t, http.StatusOK, rr.Code)
	_, err = png.Decode(bytes.NewReader(rr.Body.Bytes()))
	assert.NoError(t, err)
}

func TestPTHistoryRejectsMalformedPainAreas(t *testing.T) {
	env := newAPI(t)
	id := env.newClient(t)

	for _, body := range []string{
		`{"pain_areas":"{nope"}`,
		`{"pain_areas":{"not":"a list"}}`,
		`{"pain_areas":[{"points":[{"x":"left","y":1}]}]}`,
		`{"current_pain":11}`,
	} {
		rr := env.do(t, http.MethodPut, "/v1/clients/"+id+"/pt-history", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}

	rr := env.do(t, http.MethodGet, "/v1/clients/"+id+"/pt-history", "")
	assert.Equal(t, "[]", decodeData(t, rr)["pain_areas"])
}

func TestHelpToggle(t *testing.T) {
	env := newAPI(t)
	id := env.newClient(t)

	rr := env.do(t, http.MethodPost, "/v1/clients/"+id+"/help/consent", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "consent", decodeData(t, rr)["open"])

	rr = env.do(t, http.MethodPost, "/v1/clients/"+id+"/help/consent", "")
	assert.Nil(t, decodeData(t, rr)["open"])

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/v1/clients/"+id+"/help/lease", "").Code)
}

func TestLivePainAreas(t *testing.T) {
	env := newAPI(t)
	id := env.newClient(t)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/clients/" + id + "/pt-history/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	for _, ev := range []service.LiveEvent{
		{Type: service.EventDown, Point: &drawing.Point{X: 10, Y: 20}},
		{Type: service.EventMove, Point: &drawing.Point{X: 40, Y: 20}},
		{Type: service.EventUp, Point: &drawing.Point{X: 80, Y: 20}},
		{Type: service.EventSubmit},
	} {
		require.NoError(t, conn.WriteJSON(ev))
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply service.LiveReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, service.ReplySaved, reply.Type)
	assert.Equal(t, 1, reply.Strokes)

	rr := env.do(t, http.MethodGet, "/v1/clients/"+id+"/pt-history", "")
	assert.Equal(t, reply.PainAreas, decodeData(t, rr)["pain_areas"])
}

func TestLiveRejectsOversizedFrame(t *testing.T) {
	env := newAPI(t)
	id := env.newClient(t)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/clients/" + id + "/pt-history/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	frame := `{"type":"` + strings.Repeat("x", 2*liveReadLimit) + `"}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	if closeErr, ok := err.(*websocket.CloseError); ok {
		assert.Equal(t, websocket.CloseMessageTooBig, closeErr.Code)
	}
}

func TestBodyLimitOnClientCreate(t *testing.T) {
	log := zap.NewNop()
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	auditSvc := service.NewAuditService(memory.NewAuditRepository(), log, m)
	t.Cleanup(auditSvc.Shutdown)

	r := gin.New()
	NewClientHandler(service.NewClientService(memory.NewClientRepository(), auditSvc, age.FixedClock(testNow), m, log)).
		RegisterRoutes(r.Group("/v1", middleware.BodyLimit(64)))

	body := `{"first_name":"` + strings.Repeat("A", 128) + `","last_name":"L","date_of_birth":"1990-12-10"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/clients", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestLiveUnknownClient(t *testing.T) {
	env := newAPI(t)
	rr := env.do(t, http.MethodGet, "/v1/clients/6f1c1f6e-8d4a-4c0e-9d6e-2f7d1b2c3a4b/pt-history/live", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("down") }

func TestHealth(t *testing.T) {
	env := newAPI(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/readyz", "").Code)

	r := gin.New()
	NewHealthHandler(failingPinger{}, "test").RegisterRoutes(r)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
