// Package password хэширует пароли пользователей bcrypt и проверяет их при входе.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// Cost — стоимость bcrypt для новых хэшей.
const Cost = bcrypt.DefaultCost

// maxLength — ограничение bcrypt на длину пароля в байтах.
const maxLength = 72

// ErrMismatch — пароль не соответствует хэшу.
var ErrMismatch = errors.New("password does not match")

// GetHash возвращает bcrypt-хэш пароля. Пустой пароль и пароль длиннее
// 72 байт дают models.ErrValidation.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"

	switch {
	case password == "":
		return "", fmt.Errorf("%s: %w: password is required", op, models.ErrValidation)
	case len(password) > maxLength:
		return "", fmt.Errorf("%s: %w: password is longer than %d bytes", op, models.ErrValidation, maxLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash проверяет пароль по сохранённому хэшу.
// Несовпадение возвращает ErrMismatch, повреждённый хэш — ошибку bcrypt.
func CompareHash(hash, password string) error {
	const op = "password.CompareHash"

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
