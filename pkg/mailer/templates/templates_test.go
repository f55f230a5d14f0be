package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOTP(t *testing.T) {
	data := NewOTPData("", "ann@x.com", "Verify Your Account", "004211",
		WithTime(time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)))

	text, html, err := Render(OTP, data)
	require.NoError(t, err)

	assert.Contains(t, text, "Your OTP is 004211")
	assert.Contains(t, text, "02 January 2024, 03:04")
	assert.Contains(t, text, "Todo App")
	assert.Contains(t, html, "004211")
	assert.Contains(t, html, "Verify Your Account")
}

func TestRenderFromMap(t *testing.T) {
	data := ToMap(NewOTPData("Tasks", "ann@x.com", "Reset", "123456"))

	text, _, err := Render(OTP, data)
	require.NoError(t, err)
	assert.Contains(t, text, "123456")
	assert.Contains(t, text, "Tasks")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, err := Render("missing", EmailData{})
	assert.Error(t, err)
}
