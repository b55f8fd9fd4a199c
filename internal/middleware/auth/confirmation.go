package auth

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Alphabet for confirmation codes. No ambiguous characters (0/O, 1/I/l)
// since users retype the code from an email.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// GenerateConfirmationCode returns a random code of the given length.
func GenerateConfirmationCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// HashCode creates a bcrypt hash of a confirmation code for storage.
// Codes are short-lived shared secrets and never stored in the clear.
func HashCode(code string) (string, error) {
	// the cost determines the computational complexity of the hashing process
	// default cost is enough for one-shot confirmation codes
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyCode checks if the provided code matches the stored bcrypt hash.
func VerifyCode(hashedCode, providedCode string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(providedCode))
}
