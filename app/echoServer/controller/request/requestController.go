package request

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/yogeshtripathi1231/library/model"
	loansvc "github.com/yogeshtripathi1231/library/service/loan"
)

type Controller struct {
	Svc loansvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /api/requests
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	lr, err := h.Svc.Create(c.Request().Context(), uid, req.BookID)
	if err != nil {
		return h.fail(c, "request create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Request created successfully",
		"request": lr,
	})
}

// GET /api/requests/user
func (h *Controller) MyRequests(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.ListForUser(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, "my requests", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": rows})
}

// GET /api/requests?status=
func (h *Controller) ListAll(c echo.Context) error {
	status := model.Status(c.QueryParam("status"))
	rows, err := h.Svc.ListAll(c.Request().Context(), status)
	if err != nil {
		return h.fail(c, "list requests", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": rows})
}

// PUT /api/requests/:id
func (h *Controller) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.UpdateRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	lr, err := h.Svc.Transition(c.Request().Context(), id, model.Status(req.Status))
	if err != nil {
		return h.fail(c, "request update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Request updated successfully",
		"request": lr,
	})
}

// PUT /api/requests/:id/return
func (h *Controller) Return(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	lr, err := h.Svc.Return(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "request return", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Book marked as returned successfully",
		"request": lr,
	})
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrBadRequest
	}
	return id, nil
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch loansvc.Code(err) {
	case loansvc.ErrBookNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Book not found"})
	case loansvc.ErrRequestNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Request not found"})
	case loansvc.ErrNoStock:
		return c.JSON(http.StatusConflict, echo.Map{"message": "Book not in stock"})
	case loansvc.ErrDuplicateRequest:
		return c.JSON(http.StatusConflict, echo.Map{"message": "You already have an active request for this book"})
	case loansvc.ErrInvalidStatus:
		return c.JSON(http.StatusConflict, echo.Map{"message": "Invalid status"})
	case loansvc.ErrInvalidTransition:
		return c.JSON(http.StatusConflict, echo.Map{"message": "Invalid status transition"})
	case loansvc.ErrNotIssued:
		return c.JSON(http.StatusConflict, echo.Map{"message": "Only issued books can be marked as returned"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
