package models

// Trainer карточка тренера со статусом подписки текущего пользователя.
type Trainer struct {
	TrainerID       int64  `json:"trainerId"`
	Name            string `json:"name"`
	Specializations string `json:"specializations"`
	Experience      int    `json:"experience"`
	Bio             string `json:"bio,omitempty"`
	Following       bool   `json:"following"`
}
