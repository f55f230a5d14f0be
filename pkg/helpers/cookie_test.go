package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieSetAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewCookie("", false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	m.SetToken(c, "abc", time.Now().Add(time.Hour))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, TokenCookie, cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Greater(t, cookies[0].MaxAge, 3500)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	m.Clear(c)

	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
