// Package bddservice собирает HTTP-сервер bdd-service: маршруты, middleware и
// фоновую проверку истёкших подписок.
package bddservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/bdd-service/internal/http/handlers/accounts/oauthuser"
	analysisbyuser "github.com/magabrotheeeer/bdd-service/internal/http/handlers/analyses/byuser"
	analysiscreate "github.com/magabrotheeeer/bdd-service/internal/http/handlers/analyses/create"
	analysisread "github.com/magabrotheeeer/bdd-service/internal/http/handlers/analyses/read"
	analysisremove "github.com/magabrotheeeer/bdd-service/internal/http/handlers/analyses/remove"
	"github.com/magabrotheeeer/bdd-service/internal/http/handlers/health"
	profilecreate "github.com/magabrotheeeer/bdd-service/internal/http/handlers/profiles/create"
	profileread "github.com/magabrotheeeer/bdd-service/internal/http/handlers/profiles/read"
	profileremove "github.com/magabrotheeeer/bdd-service/internal/http/handlers/profiles/remove"
	profileupdate "github.com/magabrotheeeer/bdd-service/internal/http/handlers/profiles/update"
	"github.com/magabrotheeeer/bdd-service/internal/http/handlers/public/login"
	"github.com/magabrotheeeer/bdd-service/internal/http/handlers/public/oauth"
	"github.com/magabrotheeeer/bdd-service/internal/http/handlers/public/register"
	requestbyuser "github.com/magabrotheeeer/bdd-service/internal/http/handlers/quoterequests/byuser"
	requestcreate "github.com/magabrotheeeer/bdd-service/internal/http/handlers/quoterequests/create"
	requestread "github.com/magabrotheeeer/bdd-service/internal/http/handlers/quoterequests/read"
	requestremove "github.com/magabrotheeeer/bdd-service/internal/http/handlers/quoterequests/remove"
	requestupdate "github.com/magabrotheeeer/bdd-service/internal/http/handlers/quoterequests/update"
	quotecreate "github.com/magabrotheeeer/bdd-service/internal/http/handlers/quotes/create"
	quotelist "github.com/magabrotheeeer/bdd-service/internal/http/handlers/quotes/list"
	quoteread "github.com/magabrotheeeer/bdd-service/internal/http/handlers/quotes/read"
	subbyuser "github.com/magabrotheeeer/bdd-service/internal/http/handlers/subscriptions/byuser"
	subcreate "github.com/magabrotheeeer/bdd-service/internal/http/handlers/subscriptions/create"
	subread "github.com/magabrotheeeer/bdd-service/internal/http/handlers/subscriptions/read"
	subupdate "github.com/magabrotheeeer/bdd-service/internal/http/handlers/subscriptions/update"
	"github.com/magabrotheeeer/bdd-service/internal/http/handlers/users/byemail"
	usercreate "github.com/magabrotheeeer/bdd-service/internal/http/handlers/users/create"
	userlist "github.com/magabrotheeeer/bdd-service/internal/http/handlers/users/list"
	userread "github.com/magabrotheeeer/bdd-service/internal/http/handlers/users/read"
	usersubscription "github.com/magabrotheeeer/bdd-service/internal/http/handlers/users/subscription"
	userupdate "github.com/magabrotheeeer/bdd-service/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/bdd-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bdd-service/internal/metrics"
	analysisservice "github.com/magabrotheeeer/bdd-service/internal/services/analysis"
	authservice "github.com/magabrotheeeer/bdd-service/internal/services/auth"
	"github.com/magabrotheeeer/bdd-service/internal/services/identity"
	profileservice "github.com/magabrotheeeer/bdd-service/internal/services/profile"
	quoteservice "github.com/magabrotheeeer/bdd-service/internal/services/quote"
	subscriptionservice "github.com/magabrotheeeer/bdd-service/internal/services/subscription"
	userservice "github.com/magabrotheeeer/bdd-service/internal/services/users"
)

// Services — зависимости обработчиков.
type Services struct {
	Users         *userservice.Service
	Auth          *authservice.Service
	Identity      *identity.Resolver
	Subscriptions *subscriptionservice.Service
	Quotes        *quoteservice.Service
	Profiles      *profileservice.Service
	Analyses      *analysisservice.Service
	DB            health.Pinger
}

// Infra — сквозные компоненты HTTP-слоя.
type Infra struct {
	Tokens   middlewarectx.TokenParser
	Limiter  *rate.Limiter
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, infra Infra) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics(infra.Metrics),
	)

	r.Get("/health", health.New(logger, svc.DB).ServeHTTP)
	r.Handle("/metrics", metrics.Handler(infra.Gatherer))
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(infra.Limiter, logger))
		r.Use(middlewarectx.ServiceAuth(infra.Tokens, logger))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userlist.New(logger, svc.Users).ServeHTTP)
			r.Post("/", usercreate.New(logger, svc.Users).ServeHTTP)
			r.Get("/email/{email}", byemail.New(logger, svc.Users).ServeHTTP)
			r.Put("/subscription/{email}", usersubscription.New(logger, svc.Users).ServeHTTP)
			r.Get("/{id}", userread.New(logger, svc.Users).ServeHTTP)
			r.Put("/{id}", userupdate.New(logger, svc.Users).ServeHTTP)
		})

		r.Route("/public", func(r chi.Router) {
			r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
			r.Post("/oauth", oauth.New(logger, svc.Auth).ServeHTTP)
		})

		r.Post("/accounts/oauth/user", oauthuser.New(logger, svc.Identity).ServeHTTP)

		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/", subcreate.New(logger, svc.Subscriptions).ServeHTTP)
			r.Get("/user/{userId}", subbyuser.New(logger, svc.Subscriptions).ServeHTTP)
			r.Get("/{id}", subread.New(logger, svc.Subscriptions).ServeHTTP)
			r.Patch("/{id}", subupdate.New(logger, svc.Subscriptions).ServeHTTP)
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", quotelist.New(logger, svc.Quotes).ServeHTTP)
			r.Post("/", quotecreate.New(logger, svc.Quotes).ServeHTTP)
			r.Get("/{id}", quoteread.New(logger, svc.Quotes).ServeHTTP)
		})

		r.Route("/quote-requests", func(r chi.Router) {
			r.Post("/", requestcreate.New(logger, svc.Quotes).ServeHTTP)
			r.Get("/user/{userId}", requestbyuser.New(logger, svc.Quotes).ServeHTTP)
			r.Get("/{id}", requestread.New(logger, svc.Quotes).ServeHTTP)
			r.Put("/{id}", requestupdate.New(logger, svc.Quotes).ServeHTTP)
			r.Delete("/{id}", requestremove.New(logger, svc.Quotes).ServeHTTP)
		})

		r.Route("/professional-profiles", func(r chi.Router) {
			r.Post("/", profilecreate.New(logger, svc.Profiles).ServeHTTP)
			r.Get("/user/{userId}", profileread.New(logger, svc.Profiles).ServeHTTP)
			r.Put("/{userId}", profileupdate.New(logger, svc.Profiles).ServeHTTP)
			r.Delete("/{userId}", profileremove.New(logger, svc.Profiles).ServeHTTP)
		})

		r.Route("/analyses", func(r chi.Router) {
			r.Post("/", analysiscreate.New(logger, svc.Analyses).ServeHTTP)
			r.Get("/user/{userId}", analysisbyuser.New(logger, svc.Analyses).ServeHTTP)
			r.Get("/{id}", analysisread.New(logger, svc.Analyses).ServeHTTP)
			r.Delete("/{id}", analysisremove.New(logger, svc.Analyses).ServeHTTP)
		})
	})
}
