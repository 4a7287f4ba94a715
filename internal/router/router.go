package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-timetable/internal/handler"
	"github.com/iliyamo/university-timetable/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check used by load balancers and
// monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Token issuance and
// exchange live under /v1/auth without middleware; the session endpoints
// (/v1/me, change-password) require a valid access token and a resolved
// actor.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, actorMW echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works with either a bearer token (revoke all sessions) or a
	// refresh token in the body (revoke one), so it skips the JWT
	// middleware and expired clients can still log out.
	g.POST("/logout", a.Logout)
	g.POST("/change-password", a.ChangePassword, middleware.JWTAuth(jwtSecret), actorMW)

	// Legacy alias kept for clients that call logout outside /v1/auth.
	e.POST("/v1/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "LECTURER", "STUDENT"),
		actorMW,
	)
	auth.GET("/me", a.Me)
}
