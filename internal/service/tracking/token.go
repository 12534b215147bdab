package tracking

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const (
	tokenBytes = 32
	// base64url без паддинга: 32 байта -> 43 символа
	tokenLength = 43
)

type RandomTokenSource struct{}

func NewRandomTokenSource() *RandomTokenSource {
	return &RandomTokenSource{}
}

func (RandomTokenSource) NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// wellFormed проверяет длину и алфавит, не обращаясь к хранилищу.
func wellFormed(token string) bool {
	if len(token) != tokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
