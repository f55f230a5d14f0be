package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name string `json:"name"`
}

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")
	return c, w
}

func TestSuccessWritesEnvelope(t *testing.T) {
	c, w := newContext()
	Success(c, 0, "ok", &profile{Name: "Ann"})

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ok", body["message"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, map[string]any{"name": "Ann"}, body["user"])
	assert.NotContains(t, body, "error")
}

func TestErrorOmitsUser(t *testing.T) {
	c, w := newContext()
	Error[profile](c, http.StatusConflict, "user already exists", nil, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "user")
}

func TestAbortStopsChain(t *testing.T) {
	c, w := newContext()
	Abort(c, http.StatusUnauthorized, "login first", nil)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"login first","request_id":"req-1"}`, w.Body.String())
}
