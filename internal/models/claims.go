package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims - утверждения токена игрока.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

type contextKey string

// UserContextKey - ключ, под которым auth middleware кладет UserID в контекст.
const UserContextKey contextKey = "user_id"
