// Package jwt подписывает и проверяет значение сессионной cookie.
//
// Cookie содержит JWT, подписанный секретом сессий (HS256); в claim sid
// лежит непрозрачный токен сессии, по которому снимок ищется в хранилище.
package jwt

import (
	"time"
)

// Maker описывает генерацию и разбор подписанных токенов сессии.
type Maker interface {
	GenerateToken(sessionID string) (string, error)
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует Maker на основе секретного ключа и времени жизни.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт MakerImpl.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
