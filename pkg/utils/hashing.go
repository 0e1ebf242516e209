package utils

import (
	"crypto/rand"
	"errors"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const PasswordHashCost = 12

const (
	digitAlphabet  = "0123456789"
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return string(bytes), err
}

func ComparePasswords(hashedPassword string, plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
}

func GenerateOtpCode(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid OTP length")
	}
	return randomString(length, digitAlphabet)
}

// RandomSuffix returns n lower-case base36 characters.
func RandomSuffix(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid suffix length")
	}
	return randomString(n, base36Alphabet)
}

func randomString(length int, alphabet string) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
