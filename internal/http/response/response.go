// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP-обработчиков: ошибок, сообщений валидации
// и сопоставления доменных ошибок со статусами HTTP.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// ErrorResponse — структура ответа с ошибкой.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// MessageResponse — ответ, содержащий только сообщение.
type MessageResponse struct {
	Message string `json:"message" example:"deleted successfully"`
}

const (
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"

	internalMessage = "internal server error"
)

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко-читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email address", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}

// StatusFor сопоставляет доменную ошибку со статусом HTTP.
// Всё, что не является доменной ошибкой, считается внутренней ошибкой.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var sentinels = []error{models.ErrValidation, models.ErrUnauthorized, models.ErrNotFound, models.ErrConflict}

// Reason возвращает текст ошибки, который можно показать клиенту:
// пояснение после доменной ошибки или саму доменную ошибку.
// Для внутренних ошибок возвращается общий текст.
func Reason(err error) string {
	for _, s := range sentinels {
		if !errors.Is(err, s) {
			continue
		}
		msg := err.Error()
		marker := s.Error() + ": "
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
		return s.Error()
	}
	return internalMessage
}

// WriteError пишет ответ с ошибкой, статус которого определяет StatusFor.
// Текст ошибок хранилища и драйвера клиенту не передаётся.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, StatusFor(err))
	render.JSON(w, r, Error(Reason(err)))
}

// WriteStatus пишет ответ с ошибкой с явным статусом и сообщением.
func WriteStatus(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}
