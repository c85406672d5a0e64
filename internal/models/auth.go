package models

// LoginResult тело успешного ответа на вход.
type LoginResult struct {
	Token    string `json:"token"`
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	FullName string `json:"fullName"`
}
