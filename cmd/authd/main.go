package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/wayfree/wayfree-auth/pkg/account"
	"github.com/wayfree/wayfree-auth/pkg/config"
	"github.com/wayfree/wayfree-auth/pkg/flowstate"
	"github.com/wayfree/wayfree-auth/pkg/logincomplete"
	"github.com/wayfree/wayfree-auth/pkg/logincomplete/api"
	"github.com/wayfree/wayfree-auth/pkg/session"
	"github.com/wayfree/wayfree-auth/pkg/tokenissuer"
)

type Config struct {
	ServerConfig     config.ServerConfig
	AuthDbConfig     config.AuthDbConfig
	JwtConfig        config.JwtConfig
	CookieConfig     config.CookieConfig
	CompletionConfig config.CompletionConfig
}

func main() {
	godotenv.Load()

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	pool, err := pgxpool.New(context.Background(), cfg.AuthDbConfig.DatabaseURL())
	if err != nil {
		slog.Error("Failed creating dbpool",
			"db", cfg.AuthDbConfig.Database,
			"host", cfg.AuthDbConfig.Host,
			"port", cfg.AuthDbConfig.Port,
			"user", cfg.AuthDbConfig.User)
		os.Exit(-1)
	}
	defer pool.Close()

	accounts := account.NewPostgresAccountRepository(pool)

	generator := tokenissuer.NewJwtTokenGenerator(cfg.JwtConfig.Secret, cfg.JwtConfig.Issuer, cfg.JwtConfig.Audience)
	tokens := tokenissuer.NewJwtTokenService(generator,
		tokenissuer.WithAccessExpiry(cfg.JwtConfig.ParseAccessTokenExpiry(tokenissuer.DefaultAccessTokenExpiry)),
		tokenissuer.WithRefreshExpiry(cfg.JwtConfig.ParseRefreshTokenExpiry(tokenissuer.DefaultRefreshTokenExpiry)),
	)

	markers := flowstate.NewCookieMarkerStore(cfg.JwtConfig.Secret,
		flowstate.WithCookieSecure(cfg.CookieConfig.Secure),
	)

	sessions := session.NewCookieSessionService(
		session.WithCookieSecure(cfg.CookieConfig.Secure),
	)

	completer := logincomplete.NewCompleter(tokens, accounts, markers, sessions,
		logincomplete.WithSessionIdle(cfg.CompletionConfig.ParseSessionIdleTimeout(logincomplete.DefaultSessionIdle)),
		logincomplete.WithCookieSecure(cfg.CookieConfig.Secure),
		logincomplete.WithCookieHTTPOnly(cfg.CookieConfig.HTTPOnly),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	api.Routes(r, api.NewHandle(completer))

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JwtConfig.Secret), nil)

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				slog.Error("Failed getting token claims", "err", err)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			render.JSON(w, r, claims)
		})
	})

	slog.Info("Starting auth service", "addr", cfg.ServerConfig.Addr())
	if err := http.ListenAndServe(cfg.ServerConfig.Addr(), r); err != nil {
		slog.Error("Server stopped", "err", err)
		os.Exit(-1)
	}
}
