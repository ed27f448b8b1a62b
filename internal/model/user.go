package model

import "time"

// User представляет аккаунт репетитора
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // bcrypt-хэш, наружу не отдаём
	CreatedAt    time.Time `json:"created_at"`
}
