package http

import (
	"log/slog"

	"github.com/eloquence/auth-api/internal/infrastructure/dynamo"
	"github.com/eloquence/auth-api/internal/infrastructure/email"
	"github.com/eloquence/auth-api/internal/infrastructure/openai"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	OTPRepo     *dynamo.OTPRepo
	SessionRepo *dynamo.SessionRepo
	Mailer      email.Sender
	OpenAI      *openai.Client
	Logger      *slog.Logger
}
