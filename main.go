// Package main library API.
//
// @title           Library Loan API
// @version         1.0
// @description     library service (books, loan requests, users).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/yogeshtripathi1231/library/app/echoServer"
	authctrl "github.com/yogeshtripathi1231/library/app/echoServer/controller/auth"
	bookctrl "github.com/yogeshtripathi1231/library/app/echoServer/controller/book"
	requestctrl "github.com/yogeshtripathi1231/library/app/echoServer/controller/request"
	userctrl "github.com/yogeshtripathi1231/library/app/echoServer/controller/user"
	"github.com/yogeshtripathi1231/library/app/echoServer/validation"
	"github.com/yogeshtripathi1231/library/config"
	bookrepo "github.com/yogeshtripathi1231/library/repository/book"
	requestrepo "github.com/yogeshtripathi1231/library/repository/request"
	userrepo "github.com/yogeshtripathi1231/library/repository/user"
	authsvc "github.com/yogeshtripathi1231/library/service/auth"
	booksvc "github.com/yogeshtripathi1231/library/service/book"
	loansvc "github.com/yogeshtripathi1231/library/service/loan"
	usersvc "github.com/yogeshtripathi1231/library/service/user"
	"github.com/yogeshtripathi1231/library/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	br := bookrepo.New(db)
	rr := requestrepo.New(db)

	// services
	as := authsvc.New(ur, cfg.JWTSecret, cfg.RefreshSecret, cfg.AdminSecret)
	bs := booksvc.New(br)
	us := usersvc.New(ur)
	policy := loansvc.Policy{LoanPeriodDays: cfg.LoanPeriodDays, FinePerDay: cfg.FinePerDay}
	ls := loansvc.New(rr, policy, cfg.RestockOnReject)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	requestC := &requestctrl.Controller{Svc: ls, V: v, Log: log}
	userC := &userctrl.Controller{Svc: us, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{"status": "Server is running"})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Book:    bookC,
		Request: requestC,
		User:    userC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
