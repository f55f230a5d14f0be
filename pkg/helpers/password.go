package helpers

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor used by HashPassword.
var PasswordCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest input bcrypt accepts, counted in bytes.
const MaxPasswordBytes = 72

// PasswordFits reports whether plain can be hashed by HashPassword.
func PasswordFits(plain string) bool {
	return len(plain) <= MaxPasswordBytes
}

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password in constant time
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
