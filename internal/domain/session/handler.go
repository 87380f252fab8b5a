package session

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/panchakarma/manager/internal/platform/form"
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
	api.GET("/sessions", h.ListSessions)
	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions/options", h.GetOptions)
	api.GET("/sessions/:id", h.GetSession)
	api.PUT("/sessions/:id", h.UpdateSession)
	api.POST("/sessions/:id/start", h.StartSession)
	api.POST("/sessions/:id/complete", h.CompleteSession)
	api.POST("/sessions/:id/reschedule", h.RescheduleSession)
}

func (h *Handler) CreateSession(c echo.Context) error {
	var d Draft
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	if d.PatientID != uuid.Nil && d.PatientName == "" {
		var err error
		if d, err = h.svc.SelectPatient(ctx, d, d.PatientID); err != nil {
			return httpError(err)
		}
	}
	sess, err := h.svc.Submit(ctx, d)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *Handler) GetSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sess, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) UpdateSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var sess Session
	if err := c.Bind(&sess); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess.ID = id
	if err := h.svc.Replace(c.Request().Context(), sess); err != nil {
		return httpError(err)
	}
	stored, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stored)
}

func (h *Handler) ListSessions(c echo.Context) error {
	q := DefaultQuery()
	q.Search = c.QueryParam("search")
	if v := c.QueryParam("status"); v != "" {
		q.Status = v
	}
	if v := c.QueryParam("therapy"); v != "" {
		q.Therapy = v
	}
	res, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view.Paginate(res, pagination.FromContext(c)))
}

func (h *Handler) StartSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sess, err := h.svc.Start(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

// CompleteSession accepts an optional Completion body; an empty body
// completes the session with nothing recorded.
func (h *Handler) CompleteSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var comp Completion
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&comp); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	sess, err := h.svc.Complete(c.Request().Context(), id, comp)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) RescheduleSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sess, err := h.svc.Reschedule(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "reschedule acknowledged; session unchanged",
		"session": sess,
	})
}

func (h *Handler) GetOptions(c echo.Context) error {
	opts, err := h.svc.Options(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, opts)
}

// httpError maps service errors onto HTTP status codes.
func httpError(err error) error {
	var ve *form.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]interface{}{
			"message": ve.Error(),
			"fields":  ve.Fields,
		})
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	case errors.Is(err, ErrUnknownPatient):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	case errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
