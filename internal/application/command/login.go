package command

import (
	"context"

	"github.com/schoolhub/school-admin/internal/domain/auth"
	"github.com/schoolhub/school-admin/pkg/logger"
)

// LoginCommand contains sign-in credentials.
type LoginCommand struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// LoginHandler handles LoginCommand.
type LoginHandler struct {
	auth *auth.Service
	log  *logger.Logger
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(service *auth.Service, log *logger.Logger) *LoginHandler {
	return &LoginHandler{auth: service, log: log}
}

// Handle checks the credentials and returns a session.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*auth.Session, error) {
	if err := validateStruct(cmd); err != nil {
		return nil, err
	}

	log := logger.FromContextOr(ctx, h.log)
	session, err := h.auth.Login(ctx, cmd.Username, cmd.Password)
	if err != nil {
		log.Warn("login rejected", logger.String("username", cmd.Username))
		return nil, err
	}

	log.Info("login", logger.String("username", session.User.Username))
	return session, nil
}
