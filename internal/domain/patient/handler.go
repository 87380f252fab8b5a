package patient

import (
	"errors"
	"net/http"
	"strconv"

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
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/filter-options", h.GetFilterOptions)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var d Draft
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Submit(c.Request().Context(), d)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.Replace(c.Request().Context(), p); err != nil {
		return httpError(err)
	}
	stored, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stored)
}

func (h *Handler) ListPatients(c echo.Context) error {
	q, err := QueryFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view.Paginate(res, pagination.FromContext(c)))
}

func (h *Handler) GetFilterOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.FilterOptions())
}

// QueryFromContext reads the patient list query parameters. Parameters
// that are absent keep their defaults.
func QueryFromContext(c echo.Context) (Query, error) {
	q := DefaultQuery()
	q.Search = c.QueryParam("search")

	cr := &q.Criteria
	if therapies := c.QueryParams()["therapy"]; len(therapies) > 0 {
		cr.TherapyTypes = therapies
	}
	if v := c.QueryParam("status"); v != "" {
		cr.Status = v
	}
	if v := c.QueryParam("gender"); v != "" {
		cr.Gender = v
	}
	if v := c.QueryParam("stage"); v != "" {
		cr.TreatmentStage = v
	}

	ints := []struct {
		param string
		dst   *int
	}{
		{"progress_min", &cr.Progress.Min},
		{"progress_max", &cr.Progress.Max},
		{"age_min", &cr.Age.Min},
		{"age_max", &cr.Age.Max},
		{"last_session_days", &cr.LastSessionDays},
	}
	for _, p := range ints {
		v := c.QueryParam(p.param)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Query{}, errors.New("invalid " + p.param)
		}
		*p.dst = n
	}

	if v := c.QueryParam("upcoming_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Query{}, errors.New("invalid upcoming_only")
		}
		cr.UpcomingOnly = b
	}

	if err := cr.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
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
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
