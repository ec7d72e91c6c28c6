package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/eloquence/auth-api/internal/application/analysis"
	"github.com/eloquence/auth-api/internal/application/auth"
	"github.com/eloquence/auth-api/internal/application/otp"
	"github.com/eloquence/auth-api/internal/application/session"
	"github.com/eloquence/auth-api/internal/config"
	"github.com/eloquence/auth-api/internal/transport/http/handler"
	appmiddleware "github.com/eloquence/auth-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	otpSvc := otp.NewService(deps.OTPRepo, otp.Config{
		Length:      cfg.OTPLength,
		Expiry:      cfg.OTPExpiry(),
		MaxAttempts: cfg.OTPMaxAttempts,
		RateLimit:   cfg.OTPRateLimit(),
	}, deps.Logger)
	sessionSvc := session.NewService(deps.SessionRepo, cfg.SessionExpiry())
	authSvc := auth.NewService(otpSvc, sessionSvc, deps.Mailer)
	analysisSvc := analysis.NewService(deps.OpenAI)

	authH := handler.NewAuthHandler(authSvc, cfg.OTPLength)
	llmH := handler.NewLLMHandler(analysisSvc)

	// 5 requests/second, burst of 10 — a transport-tier backstop in front of
	// the per-identity rate limit enforced by the OTP engine.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	r.Get("/", handler.Root)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/health", handler.Health)
		r.With(sensitiveRL.Limit).Post("/send-otp", authH.SendOTP)
		r.With(sensitiveRL.Limit).Post("/verify-otp", authH.VerifyOTP)
	})

	r.Route("/llm", func(r chi.Router) {
		r.Use(appmiddleware.Auth(sessionSvc))
		r.Use(appmiddleware.RequireAllowedEmail(cfg.LLMAllowedEmails))

		r.Post("/transcribe", llmH.Transcribe)
		r.Post("/analyze-speech", llmH.AnalyzeSpeech)
		r.Post("/analyze-gesture", llmH.AnalyzeGesture)
		r.Post("/annotate-frame", llmH.AnnotateFrame)
	})

	return r
}
