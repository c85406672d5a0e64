package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed возвращается, если строка не похожа на JWT.
var ErrMalformed = errors.New("malformed token")

var parser = jwt.NewParser()

// Inspect разбирает токен без проверки подписи и возвращает его claims.
func Inspect(tokenStr string) (*Claims, error) {
	const op = "jwt.Inspect"

	if tokenStr == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformed)
	}

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrMalformed, err)
	}
	return claims, nil
}
