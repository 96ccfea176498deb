package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/user-auth-app/user_auth_app/internal/identity"
)

// RegisterAuthRoutes wires registration, login and user listing endpoints.
func RegisterAuthRoutes(r fiber.Router, h *identity.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/register", h.Register)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Get("/users", h.ListUsers)
	group.Put("/users/:userId", h.Update)
}
