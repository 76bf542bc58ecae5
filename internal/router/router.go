package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"technotes/internal/config"
	"technotes/internal/handler"
)

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>404 Not Found</title></head>
<body><h1>404 Not Found</h1><p>The requested resource does not exist.</p></body>
</html>`

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	noteHandler *handler.NoteHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)

	// Secured collection routes (require JWT authentication). The target
	// entity for mutations is carried in the request body, not the path.
	secured := e.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))

	secured.GET("/users", userHandler.ListUsers)
	secured.POST("/users", userHandler.CreateUser)
	secured.PATCH("/users", userHandler.UpdateUser)
	secured.DELETE("/users", userHandler.DeleteUser)

	secured.GET("/notes", noteHandler.ListNotes)
	secured.POST("/notes", noteHandler.CreateNote)
	secured.PATCH("/notes", noteHandler.UpdateNote)
	secured.DELETE("/notes", noteHandler.DeleteNote)

	e.RouteNotFound("/*", notFound)
}

// notFound answers unmatched routes with a content-negotiated body.
func notFound(c echo.Context) error {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	switch {
	case strings.Contains(accept, echo.MIMETextHTML):
		return c.HTML(http.StatusNotFound, notFoundPage)
	case strings.Contains(accept, echo.MIMEApplicationJSON), accept == "", accept == "*/*":
		return c.JSON(http.StatusNotFound, handler.MessageResponse{Message: "404 Not found"})
	default:
		return c.String(http.StatusNotFound, "404 Not found")
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
