package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	WsID         int64     `json:"ws_id" db:"ws_id"`
	Fullname     string    `json:"fullname" db:"fullname"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ChatUser — усечённое представление для списков участников workspace.
type ChatUser struct {
	ID       int64  `json:"id" db:"id"`
	Fullname string `json:"fullname" db:"fullname"`
	Email    string `json:"email" db:"email"`
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
