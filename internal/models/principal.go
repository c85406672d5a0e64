// Package models содержит модели представления веб-клиента FitPlanHub:
// сессионного пользователя, планы, тренеров и формы.
// Ни одна из моделей не хранится клиентом постоянно, источник правды бэкенд.
package models

import "time"

// Role роль аутентифицированного пользователя.
type Role string

const (
	// RoleUser обычный пользователь, подписывается на планы.
	RoleUser Role = "USER"
	// RoleTrainer тренер, создаёт планы.
	RoleTrainer Role = "TRAINER"
)

// Known сообщает, является ли роль одной из известных.
func (r Role) Known() bool {
	return r == RoleUser || r == RoleTrainer
}

// Dashboard возвращает путь личного кабинета роли или пустую строку.
func (r Role) Dashboard() string {
	switch r {
	case RoleUser:
		return "/user/dashboard"
	case RoleTrainer:
		return "/trainer/dashboard"
	default:
		return ""
	}
}

// Principal типизированное представление текущей сессии.
type Principal struct {
	Token     string
	Role      Role
	ID        string
	Name      string
	Email     string
	ExpiresAt time.Time // нулевое значение, если срок неизвестен
	Expired   bool      // exp токена уже прошёл
}

// Authenticated сообщает, есть ли в сессии токен.
func (p Principal) Authenticated() bool {
	return p.Token != ""
}
