package routes

import (
	"net/http"

	"phonebook/api/handler"
	"phonebook/api/middleware"

	"github.com/labstack/echo/v4"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	AuthMiddleware middleware.AuthMiddleware
	Metrics        http.Handler
}

func NewRouter(e *echo.Echo, authHandler *handler.AuthHandler, authMiddleware middleware.AuthMiddleware, metrics http.Handler) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	users := e.Group("/users")
	users.POST("/signup", r.Auth.Signup)
	users.POST("/login", r.Auth.Login)
	users.GET("/logout", r.Auth.Logout, r.AuthMiddleware.RequireAuth)
	users.POST("/logout", r.Auth.Logout, r.AuthMiddleware.RequireAuth)
	users.GET("/current", r.Auth.Current, r.AuthMiddleware.RequireAuth)
	users.PATCH("/subscription", r.Auth.UpdateSubscription, r.AuthMiddleware.RequireAuth)
	users.PATCH("", r.Auth.UpdateSubscription, r.AuthMiddleware.RequireAuth)
	users.GET("/verify/:token", r.Auth.Verify)
	users.POST("/verify/:token", r.Auth.Verify)
	users.POST("/verify", r.Auth.Reverify)

	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}
}
