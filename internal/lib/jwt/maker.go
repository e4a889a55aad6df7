// Package jwt реализует выпуск и проверку сервисных JWT токенов, которыми
// внутренние сервисы подтверждают свою личность при обращении к bdd-service.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга сервисных токенов.
type Maker interface {
	// GenerateToken выпускает токен для сервиса service с ролью role.
	GenerateToken(service, role string) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает claims.
	ParseToken(tokenStr string) (*ServiceClaims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
