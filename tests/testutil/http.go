// Package testutil holds helpers for the integration suite:
// an API client for fully wired engines and an event recorder.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// APIClient sends requests to a fully wired engine and decodes the
// response envelope.
type APIClient struct {
	Engine *gin.Engine
}

// NewAPIClient creates an APIClient for engine.
func NewAPIClient(engine *gin.Engine) *APIClient {
	return &APIClient{Engine: engine}
}

// Do sends method path with an optional bearer token and JSON body.
func (c *APIClient) Do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "marshal request body")
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.Engine.ServeHTTP(rec, req)
	return rec
}

// Envelope is the response shape shared by every API endpoint.
type Envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Decode parses rec as an envelope, requiring wantStatus first.
func Decode[T any](t *testing.T, rec *httptest.ResponseRecorder, wantStatus int) Envelope[T] {
	t.Helper()

	require.Equal(t, wantStatus, rec.Code, "body: %s", rec.Body.String())
	var env Envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

// ErrorCode returns the error code of a failed response.
func ErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var env Envelope[json.RawMessage]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	require.NotNil(t, env.Error, "expected an error envelope: %s", rec.Body.String())
	return env.Error.Code
}
