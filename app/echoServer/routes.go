package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	authctrl "github.com/yogeshtripathi1231/library/app/echoServer/controller/auth"
	bookctrl "github.com/yogeshtripathi1231/library/app/echoServer/controller/book"
	requestctrl "github.com/yogeshtripathi1231/library/app/echoServer/controller/request"
	userctrl "github.com/yogeshtripathi1231/library/app/echoServer/controller/user"
	"github.com/yogeshtripathi1231/library/app/echoServer/jwtx"
)

type C struct {
	Auth      *authctrl.Controller
	Book      *bookctrl.Controller
	Request   *requestctrl.Controller
	User      *userctrl.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/api")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)
	pub.POST("/auth/refresh-token", c.Auth.Refresh)
	pub.POST("/admin/register", c.Auth.RegisterAdmin)
	pub.POST("/admin/login", c.Auth.LoginAdmin)

	// Catalog browsing needs no token.
	pub.GET("/books", c.Book.List)
	pub.GET("/books/:id", c.Book.Detail)

	// Authenticated
	auth := e.Group("/api", echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
	}), claimsToContext())

	auth.POST("/requests", c.Request.Create)
	auth.GET("/requests/user", c.Request.MyRequests)

	// Admin
	admin := auth.Group("", AdminOnly())
	admin.POST("/admin/create", c.Auth.CreateAdmin)

	admin.POST("/books", c.Book.Create)
	admin.PUT("/books/:id", c.Book.Update)
	admin.DELETE("/books/:id", c.Book.Delete)

	admin.GET("/requests", c.Request.ListAll)
	admin.PUT("/requests/:id", c.Request.UpdateStatus)
	admin.PUT("/requests/:id/return", c.Request.Return)

	admin.GET("/users", c.User.List)
	admin.GET("/users/:id", c.User.Detail)
	admin.PUT("/users/:id", c.User.Update)
	admin.DELETE("/users/:id", c.User.Delete)
}

// claimsToContext copies the verified sub/role claims into plain context keys
// so handlers and AdminOnly never touch jwt types.
func claimsToContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, err := jwtx.UserIDFromContext(c)
			if err != nil {
				return echo.NewHTTPError(401, "unauthorized")
			}
			c.Set("user_id", uid)
			if role, err := jwtx.RoleFromContext(c); err == nil {
				c.Set("role", role)
			}
			return next(c)
		}
	}
}
