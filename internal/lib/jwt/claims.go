// Package jwt извлекает метаданные из JWT, выданного бэкендом FitPlanHub.
//
// Подпись токена здесь не проверяется: секрет есть только у бэкенда,
// а валидность токена он решает сам при каждом запросе. Клиенту нужны
// лишь срок жизни и роль, чтобы показывать их и писать в лог.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims описывает поля, которые бэкенд кладёт в токен при входе.
type Claims struct {
	ID                   int64  `json:"id"`    // Идентификатор пользователя или тренера
	Email                string `json:"email"` // Email владельца токена
	Role                 string `json:"role"`  // USER или TRAINER
	jwt.RegisteredClaims        // sub, iat, exp
}

// Expiry возвращает момент истечения токена и признак его наличия.
func (c *Claims) Expiry() (time.Time, bool) {
	if c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}

// Expired сообщает, истёк ли токен к моменту now. Токен без exp не истекает.
func (c *Claims) Expired(now time.Time) bool {
	exp, ok := c.Expiry()
	return ok && !now.Before(exp)
}
