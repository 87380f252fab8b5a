package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/panchakarma/manager/internal/domain/notification"
	"github.com/panchakarma/manager/internal/domain/patient"
	"github.com/panchakarma/manager/internal/domain/session"
	"github.com/panchakarma/manager/internal/platform/form"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard/stats", h.GetStats)
	api.GET("/dashboard/progress", h.GetProgress)

	ws := api.Group("/workspaces")
	ws.POST("", h.CreateWorkspace)
	ws.GET("/:id", h.GetWorkspace)
	ws.GET("/:id/state", h.GetState)
	ws.DELETE("/:id", h.DeleteWorkspace)

	ws.PUT("/:id/tab", h.SetTab)
	ws.POST("/:id/modal", h.OpenModal)
	ws.DELETE("/:id/modal", h.CloseModal)
	ws.PUT("/:id/selection", h.Select)
	ws.DELETE("/:id/selection", h.ClearSelection)

	ws.PATCH("/:id/drafts/patient", h.PatchPatientDraft)
	ws.POST("/:id/drafts/patient/submit", h.SubmitPatientDraft)
	ws.PATCH("/:id/drafts/session", h.PatchSessionDraft)
	ws.POST("/:id/drafts/session/submit", h.SubmitSessionDraft)
	ws.DELETE("/:id/drafts/:kind", h.CancelDraft)

	ws.PUT("/:id/filters/draft", h.SetCriteriaDraft)
	ws.POST("/:id/filters/draft/therapies", h.ToggleCriteriaTherapy)
	ws.POST("/:id/filters/apply", h.ApplyCriteria)
	ws.POST("/:id/filters/clear", h.ClearCriteria)

	ws.PUT("/:id/queries/patients", h.SetPatientSearch)
	ws.PUT("/:id/queries/sessions", h.SetSessionQuery)
	ws.PUT("/:id/queries/notifications", h.SetNotificationQuery)

	ws.POST("/:id/selections/:target/toggle", h.ToggleSelection)
	ws.POST("/:id/selections/:target/all", h.SelectAll)
	ws.DELETE("/:id/selections/:target", h.ClearSelected)
	ws.POST("/:id/notifications/mark-read", h.MarkSelectedRead)

	ws.POST("/:id/completion/checklist", h.ToggleChecklist)
	ws.PATCH("/:id/completion", h.PatchCompletion)
	ws.POST("/:id/session/start", h.StartSelectedSession)
	ws.POST("/:id/session/complete", h.CompleteSelectedSession)
}

func workspaceID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// decodeFields reads a flat JSON object of draft fields. c.Bind is not
// used because it would also copy path parameters into the map.
func decodeFields(c echo.Context) (map[string]string, error) {
	values := map[string]string{}
	if err := json.NewDecoder(c.Request().Body).Decode(&values); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "body must be a JSON object of string fields")
	}
	return values, nil
}

func (h *Handler) GetStats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) GetProgress(c echo.Context) error {
	rep, err := h.svc.Progress(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) CreateWorkspace(c echo.Context) error {
	st, err := h.svc.Create(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, st)
}

// GetWorkspace renders the workspace with its list views.
func (h *Handler) GetWorkspace(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	v, err := h.svc.Render(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) GetState(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	st, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) DeleteWorkspace(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetTab(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	var req struct {
		Tab Tab `json:"tab"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return stateResponse(c)(h.svc.SetTab(c.Request().Context(), id, req.Tab))
}

func (h *Handler) OpenModal(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	var req struct {
		Modal Modal `json:"modal"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return stateResponse(c)(h.svc.OpenModal(c.Request().Context(), id, req.Modal))
}

func (h *Handler) CloseModal(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	return stateResponse(c)(h.svc.CloseModal(c.Request().Context(), id))
}

// Select selects a patient or a session, whichever the body names.
func (h *Handler) Select(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	var req struct {
		PatientID *uuid.UUID `json:"patient_id"`
		SessionID *uuid.UUID `json:"session_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	switch {
	case req.PatientID != nil:
		return stateResponse(c)(h.svc.SelectPatient(ctx, id, *req.PatientID))
	case req.SessionID != nil:
		return stateResponse(c)(h.svc.SelectSession(ctx, id, *req.SessionID))
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id or session_id is required")
	}
}

func (h *Handler) ClearSelection(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	return stateResponse(c)(h.svc.ClearSelection(c.Request().Context(), id))
}

func (h *Handler) PatchPatientDraft(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	values, err := decodeFields(c)
	if err != nil {
		return err
	}
	return stateResponse(c)(h.svc.PatchPatientDraft(c.Request().Context(), id, values))
}

func (h *Handler) SubmitPatientDraft(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	st, p, err := h.svc.SubmitPatientDraft(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, struct {
		State   State           `json:"state"`
		Patient patient.Patient `json:"patient"`
	}{st, p})
}

func (h *Handler) PatchSessionDraft(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	values, err := decodeFields(c)
	if err != nil {
		return err
	}
	return stateResponse(c)(h.svc.PatchSessionDraft(c.Request().Context(), id, values))
}

func (h *Handler) SubmitSessionDraft(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	st, sess, err := h.svc.SubmitSessionDraft(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, struct {
		State   State           `json:"state"`
		Session session.Session `json:"session"`
	}{st, sess})
}

func (h *Handler) CancelDraft(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	return stateResponse(c)(h.svc.CancelDraft(c.Request().Context(), id, DraftKind(c.Param("kind"))))
}

func (h *Handler) SetCriteriaDraft(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	crit := patient.DefaultCriteria()
	if err := c.Bind(&crit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return stateResponse(c)(h.svc.SetCriteriaDraft(c.Request().Context(), id, crit))
}

func (h *Handler) ToggleCriteriaTherapy(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	var req struct {
		Therapy string `json:"therapy"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Therapy == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "therapy is required")
	}
	return stateResponse(c)(h.svc.ToggleCriteriaTherapy(c.Request().Context(), id, req.Therapy))
}

func (h *Handler) ApplyCriteria(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	return stateResponse(c)(h.svc.ApplyCriteria(c.Request().Context(), id))
}

func (h *Handler) ClearCriteria(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	return stateResponse(c)(h.svc.ClearCriteria(c.Request().Context(), id))
}

func (h *Handler) SetPatientSearch(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	var req struct {
		Search string `json:"search"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return stateResponse(c)(h.svc.SetPatientSearch(c.Request().Context(), id, req.Search))
}

func (h *Handler) SetSessionQuery(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	q := session.DefaultQuery()
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return stateResponse(c)(h.svc.SetSessionQuery(c.Request().Context(), id, q))
}

func (h *Handler) SetNotificationQuery(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	q := notification.DefaultQuery()
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return stateResponse(c)(h.svc.SetNotificationQuery(c.Request().Context(), id, q))
}

func (h *Handler) ToggleSelection(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	var req struct {
		ID uuid.UUID `json:"id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}
	return stateResponse(c)(h.svc.ToggleSelection(c.Request().Context(), id, Target(c.Param("target")), req.ID))
}

func (h *Handler) SelectAll(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	return stateResponse(c)(h.svc.SelectAll(c.Request().Context(), id, Target(c.Param("target"))))
}

func (h *Handler) ClearSelected(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	return stateResponse(c)(h.svc.ClearSelected(c.Request().Context(), id, Target(c.Param("target"))))
}

func (h *Handler) MarkSelectedRead(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	st, res, err := h.svc.MarkSelectedRead(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, struct {
		State  State                   `json:"state"`
		Result notification.MarkResult `json:"result"`
	}{st, res})
}

func (h *Handler) ToggleChecklist(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	var req struct {
		Item string `json:"item"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return stateResponse(c)(h.svc.ToggleChecklist(c.Request().Context(), id, req.Item))
}

func (h *Handler) PatchCompletion(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	var patch CompletionPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return stateResponse(c)(h.svc.PatchCompletion(c.Request().Context(), id, patch))
}

func (h *Handler) StartSelectedSession(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	st, sess, err := h.svc.StartSelectedSession(c.Request().Context(), id)
	return sessionResponse(c, st, sess, err)
}

func (h *Handler) CompleteSelectedSession(c echo.Context) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	st, sess, err := h.svc.CompleteSelectedSession(c.Request().Context(), id)
	return sessionResponse(c, st, sess, err)
}

func sessionResponse(c echo.Context, st State, sess session.Session, err error) error {
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, struct {
		State   State           `json:"state"`
		Session session.Session `json:"session"`
	}{st, sess})
}

// stateResponse writes the workspace state returned by a service call.
func stateResponse(c echo.Context) func(State, error) error {
	return func(st State, err error) error {
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, st)
	}
}

// httpError maps orchestration and catalog errors onto HTTP status codes.
func httpError(err error) error {
	var ve *form.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]interface{}{
			"message": ve.Error(),
			"fields":  ve.Fields,
		})
	case errors.Is(err, ErrWorkspaceNotFound),
		errors.Is(err, patient.ErrNotFound),
		errors.Is(err, session.ErrNotFound),
		errors.Is(err, notification.ErrNotFound),
		errors.Is(err, session.ErrUnknownPatient):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSelectionRequired),
		errors.Is(err, session.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrWorkspaceLimit):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
