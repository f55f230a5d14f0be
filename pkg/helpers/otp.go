package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPSpace is the number of distinct OTP values: 000000-999999.
const OTPSpace = 1000000

// GenOTP generates a uniformly random OTP in [0, 999999].
func GenOTP() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(OTPSpace))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

// FormatOTP renders an OTP as a zero-padded 6 digit string for display.
func FormatOTP(otp int) string {
	return fmt.Sprintf("%06d", otp)
}
