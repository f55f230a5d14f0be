package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenOTPRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		otp, err := GenOTP()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, otp, 0)
		assert.Less(t, otp, OTPSpace)
	}
}

func TestFormatOTP(t *testing.T) {
	assert.Equal(t, "000042", FormatOTP(42))
	assert.Equal(t, "999999", FormatOTP(999999))
}
