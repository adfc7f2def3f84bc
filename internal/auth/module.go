// Package auth is the profile bounded context: the caller's own profile and
// the administrator flag consulted by the admin route group.
package auth

import (
	"jobboard_backend/internal/auth/handler"
	"jobboard_backend/internal/auth/repository"
	"jobboard_backend/internal/auth/service"
	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)

	return &Module{
		handler: handler.New(svc, val),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// AdminChecker exposes the profiles.is_admin lookup for the router.
func (m *Module) AdminChecker() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts profile routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/me", m.handler.GetMe)
	ctx.Protected.PUT("/me", m.handler.UpdateMe)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
