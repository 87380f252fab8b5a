package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/panchakarma/manager/internal/platform/view"
	"github.com/panchakarma/manager/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/notifications", h.ListNotifications)
	api.GET("/notifications/categories", h.ListCategories)
	api.POST("/notifications/mark-read", h.MarkRead)
	api.GET("/notifications/:id", h.GetNotification)
}

// QueryFromContext reads the inbox filters from the query string.
func QueryFromContext(c echo.Context) (Query, error) {
	q := DefaultQuery()
	q.Search = c.QueryParam("search")
	if v := c.QueryParam("priority"); v != "" {
		q.Priority = v
	}
	if v := c.QueryParam("category"); v != "" {
		q.Category = v
	}
	if v := c.QueryParam("unread_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return q, errors.New("unread_only must be a boolean")
		}
		q.UnreadOnly = b
	}
	return q, nil
}

func (h *Handler) ListNotifications(c echo.Context) error {
	q, err := QueryFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	unread, err := h.svc.UnreadCount(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, struct {
		view.Page[Notification]
		Unread int `json:"unread"`
	}{view.Paginate(res, pagination.FromContext(c)), unread})
}

func (h *Handler) GetNotification(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	n, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) ListCategories(c echo.Context) error {
	cats, err := h.svc.Categories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string][]string{"categories": cats})
}

type markReadRequest struct {
	IDs []uuid.UUID `json:"ids"`
	All bool        `json:"all"`
}

// MarkRead accepts {"ids": [...]} or {"all": true}.
func (h *Handler) MarkRead(c echo.Context) error {
	var req markReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !req.All && len(req.IDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "ids or all is required")
	}

	ctx := c.Request().Context()
	var (
		res MarkResult
		err error
	)
	if req.All {
		res, err = h.svc.MarkAllRead(ctx)
	} else {
		res, err = h.svc.MarkRead(ctx, req.IDs)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
