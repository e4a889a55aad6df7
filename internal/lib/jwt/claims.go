package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleTrusted — роль сервиса, которому разрешено получать хэш пароля
// пользователя (auth-service).
const RoleTrusted = "trusted"

// ServiceClaims описывает данные вызывающего сервиса, хранящиеся в JWT.
type ServiceClaims struct {
	Service              string `json:"service"` // Имя вызывающего сервиса
	Role                 string `json:"role"`    // Роль сервиса
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Trusted сообщает, что вызывающему сервису доверены секреты пользователей.
func (c *ServiceClaims) Trusted() bool {
	return c != nil && c.Role == RoleTrusted
}

// GenerateToken создает JWT токен для сервиса, подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(service, role string) (string, error) {
	now := time.Now()
	claims := ServiceClaims{
		Service: service,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   service,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает ServiceClaims, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*ServiceClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &ServiceClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*ServiceClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
