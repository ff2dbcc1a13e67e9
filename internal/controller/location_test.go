package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/krakosik/telemetry/internal/client"
	"github.com/krakosik/telemetry/internal/dto"
	"github.com/krakosik/telemetry/internal/model"
	"github.com/krakosik/telemetry/internal/repository"
	"github.com/krakosik/telemetry/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho(t *testing.T, fieldSet model.FieldSet) *echo.Echo {
	t.Helper()
	cfg := dto.Config{FieldSet: fieldSet}
	clients := client.NewClients(cfg)
	t.Cleanup(func() { clients.Close() })

	services := service.NewServices(repository.NewRepositories(), cfg, clients)
	return NewEcho(NewControllers(services))
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLocationController_ListEmpty(t *testing.T) {
	e := newTestEcho(t, model.FieldSetExtended)

	rec := doRequest(e, http.MethodGet, "/location", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLocationController_SubmitThenList(t *testing.T) {
	e := newTestEcho(t, model.FieldSetExtended)

	rec := doRequest(e, http.MethodPost, "/location", `{"name":"Lab","code":"A1","lat":19.4326,"lng":-99.1332}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.SubmissionAcknowledgement, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain))

	rec = doRequest(e, http.MethodGet, "/location", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Lab","code":"A1","lat":19.4326,"lng":-99.1332,"speedKmh":0,"accelX":0,"accelY":0,"accelZ":0,"steps":0}]`, rec.Body.String())
}

func TestLocationController_SubmissionOrder(t *testing.T) {
	e := newTestEcho(t, model.FieldSetExtended)

	doRequest(e, http.MethodPost, "/location", `{"name":"Second","code":"Z9","lat":1,"lng":2,"speedKmh":12.5,"accelX":0.5,"accelY":-1.25,"accelZ":9.75,"steps":42}`)
	doRequest(e, http.MethodPost, "/location", `{"name":"First","code":"A1"}`)

	first := doRequest(e, http.MethodGet, "/location", "")
	second := doRequest(e, http.MethodGet, "/location", "")

	expected := `[
		{"name":"Second","code":"Z9","lat":1,"lng":2,"speedKmh":12.5,"accelX":0.5,"accelY":-1.25,"accelZ":9.75,"steps":42},
		{"name":"First","code":"A1","lat":0,"lng":0,"speedKmh":0,"accelX":0,"accelY":0,"accelZ":0,"steps":0}
	]`
	assert.JSONEq(t, expected, first.Body.String())
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestLocationController_BasicFieldSet(t *testing.T) {
	e := newTestEcho(t, model.FieldSetBasic)

	doRequest(e, http.MethodPost, "/location", `{"name":"Lab","code":"A1","lat":19.4326,"lng":-99.1332,"steps":10}`)
	rec := doRequest(e, http.MethodGet, "/location", "")

	assert.JSONEq(t, `[{"name":"Lab","code":"A1","lat":19.4326,"lng":-99.1332}]`, rec.Body.String())
}

func TestLocationController_UnknownKeysIgnored(t *testing.T) {
	e := newTestEcho(t, model.FieldSetExtended)

	rec := doRequest(e, http.MethodPost, "/location", `{"code":"A1","battery":87}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(e, http.MethodGet, "/location", "")
	assert.Contains(t, rec.Body.String(), `"code":"A1"`)
	assert.NotContains(t, rec.Body.String(), "battery")
}

func TestLocationController_UndecodableBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"name":`},
		{name: "wrong type", body: `{"lat":"north"}`},
		{name: "not an object", body: `[1,2,3]`},
		{name: "empty body", body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(t, model.FieldSetExtended)

			rec := doRequest(e, http.MethodPost, "/location", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"message"`)

			rec = doRequest(e, http.MethodGet, "/location", "")
			assert.JSONEq(t, `[]`, rec.Body.String())
		})
	}
}

func TestLocationController_DecodeErrorMessage(t *testing.T) {
	e := newTestEcho(t, model.FieldSetExtended)

	rec := doRequest(e, http.MethodPost, "/location", `{"steps":1.5}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body.Message, "bad request: Unmarshal type error"), body.Message)
	assert.NotContains(t, body.Message, "code=400")
	assert.NotContains(t, body.Message, "internal=")
	assert.NotContains(t, body.Message, "LocationRequest")
}

func TestLocationController_EmptyBodyMessage(t *testing.T) {
	e := newTestEcho(t, model.FieldSetExtended)

	rec := doRequest(e, http.MethodPost, "/location", "")

	assert.JSONEq(t, `{"message":"bad request: EOF"}`, rec.Body.String())
}

func TestLocationController_ConcurrentSubmit(t *testing.T) {
	e := newTestEcho(t, model.FieldSetExtended)
	const submissions = 200

	var wg sync.WaitGroup
	wg.Add(submissions)
	for i := 0; i < submissions; i++ {
		go func(i int) {
			defer wg.Done()
			rec := doRequest(e, http.MethodPost, "/location", fmt.Sprintf(`{"code":"C%d","steps":%d}`, i, i))
			assert.Equal(t, http.StatusOK, rec.Code)
		}(i)
	}
	wg.Wait()

	rec := doRequest(e, http.MethodGet, "/", "")
	assert.JSONEq(t, fmt.Sprintf(`{"service":"%s","version":"%s","records":%d,"fieldSet":"extended"}`, dto.ServiceName, dto.ServiceVersion, submissions), rec.Body.String())
}

func TestLocationController_RequestID(t *testing.T) {
	e := newTestEcho(t, model.FieldSetExtended)

	rec := doRequest(e, http.MethodPost, "/location", `{"code":"A1"}`)

	_, err := uuid.Parse(rec.Header().Get(echo.HeaderXRequestID))
	assert.NoError(t, err)
}

func TestLocationController_UnknownRoute(t *testing.T) {
	e := newTestEcho(t, model.FieldSetExtended)

	assert.Equal(t, http.StatusNotFound, doRequest(e, http.MethodGet, "/locations", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, doRequest(e, http.MethodDelete, "/location", "").Code)
}

func TestLocationController_Stream(t *testing.T) {
	e := newTestEcho(t, model.FieldSetBasic)
	server := httptest.NewServer(e)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/location/stream", nil)
	require.NoError(t, err)

	res, err := server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "text/event-stream", res.Header.Get(echo.HeaderContentType))

	post, err := server.Client().Post(server.URL+"/location", echo.MIMEApplicationJSON, strings.NewReader(`{"name":"Lab","code":"A1","steps":3}`))
	require.NoError(t, err)
	post.Body.Close()

	line, err := bufio.NewReader(res.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, `data: {"name":"Lab","code":"A1","lat":0,"lng":0}`+"\n", line)
}
