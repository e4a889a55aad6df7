// Package middlewarectx содержит HTTP middleware сервиса.
//
// ServiceAuth проверяет необязательный сервисный JWT в заголовке Authorization
// и кладёт claims вызывающего сервиса в контекст. Запрос без токена проходит
// дальше как недоверенный; неверный или просроченный токен даёт 401.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/bdd-service/internal/http/response"
	customjwt "github.com/magabrotheeeer/bdd-service/internal/lib/jwt"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Caller — ключ для claims вызывающего сервиса в контексте.
const Caller Key = "caller"

// TokenParser проверяет сервисный токен.
type TokenParser interface {
	ParseToken(tokenStr string) (*customjwt.ServiceClaims, error)
}

// ServiceAuth возвращает middleware, который распознаёт вызывающий сервис.
func ServiceAuth(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.ServiceAuth"

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("invalid authorization header")
				response.WriteStatus(w, r, http.StatusUnauthorized, "invalid authorization header")
				return
			}
			claims, err := parser.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Error("invalid or expired service token", sl.Err(err))
				response.WriteStatus(w, r, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), Caller, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext возвращает claims вызывающего сервиса, если токен был передан.
func CallerFromContext(ctx context.Context) (*customjwt.ServiceClaims, bool) {
	claims, ok := ctx.Value(Caller).(*customjwt.ServiceClaims)
	return claims, ok
}

// Trusted сообщает, что запрос пришёл от доверенного сервиса.
func Trusted(ctx context.Context) bool {
	claims, _ := CallerFromContext(ctx)
	return claims.Trusted()
}
