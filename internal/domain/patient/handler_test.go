package patient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

type listBody struct {
	Items         []Patient `json:"items"`
	Matching      int       `json:"matching"`
	Total         int       `json:"total"`
	ActiveFilters int       `json:"active_filters"`
	HasMore       bool      `json:"has_more"`
}

func TestHandler_CreatePatient(t *testing.T) {
	h, e := newTestHandler()
	body := `{"name":"Neha Singh","email":"neha@example.com","phone":"555","age":"31"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var p Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if p.ID == uuid.Nil || p.Age != 31 || p.Status != StatusNew {
		t.Errorf("unexpected patient: %+v", p)
	}
}

func TestHandler_CreatePatient_MissingFields(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Only Name"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreatePatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", httpErr.Code)
	}
}

func TestHandler_GetPatient(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(SampleAmitID.String())

	if err := h.GetPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetPatient_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetPatient(c)
	if httpErr, ok := err.(*echo.HTTPError); !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_GetPatient_InvalidID(t *testing.T) {
	h, e := newTestHandler()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetPatient(c)
	if httpErr, ok := err.(*echo.HTTPError); !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_UpdatePatient(t *testing.T) {
	h, e := newTestHandler()
	p, _ := h.svc.Get(nil, SamplePriyaID)
	p.Progress = 45
	p.Status = StatusPaused
	raw, _ := json.Marshal(p)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(string(raw)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(SamplePriyaID.String())

	if err := h.UpdatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := h.svc.Get(nil, SamplePriyaID)
	if got.Progress != 45 || got.Status != StatusPaused {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestHandler_ListPatients_StatusFilter(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/?status=completed", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body listBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Matching != 1 || body.Total != 3 || body.ActiveFilters != 1 {
		t.Errorf("unexpected counts: %+v", body)
	}
	if len(body.Items) != 1 || body.Items[0].Name != "Rajesh Kumar" {
		t.Errorf("unexpected items: %+v", body.Items)
	}
}

func TestHandler_ListPatients_RepeatedTherapyAndPaging(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/?therapy=Panchakarma+Detox&therapy=Joint+Pain+Treatment&limit=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body listBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Matching != 2 || len(body.Items) != 1 || !body.HasMore {
		t.Errorf("unexpected page: %+v", body)
	}
	if body.Items[0].Name != "Amit Patel" {
		t.Errorf("expected Amit Patel first, got %s", body.Items[0].Name)
	}
}

func TestHandler_ListPatients_BadQuery(t *testing.T) {
	h, e := newTestHandler()
	for _, target := range []string{"/?age_min=abc", "/?age_min=5", "/?upcoming_only=maybe", "/?gender=robot"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		err := h.ListPatients(c)
		if httpErr, ok := err.(*echo.HTTPError); !ok || httpErr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", target, err)
		}
	}
}

func TestHandler_GetFilterOptions(t *testing.T) {
	h, e := newTestHandler()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := h.GetFilterOptions(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Shirodhara Treatment") {
		t.Errorf("expected therapy options in body: %s", rec.Body.String())
	}
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e := newTestHandler()
	h.RegisterRoutes(e.Group("/api/v1"))

	want := map[string]bool{
		"GET /api/v1/patients":                false,
		"POST /api/v1/patients":               false,
		"GET /api/v1/patients/filter-options": false,
		"GET /api/v1/patients/:id":            false,
		"PUT /api/v1/patients/:id":            false,
	}
	for _, r := range e.Routes() {
		key := r.Method + " " + r.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, found := range want {
		if !found {
			t.Errorf("missing route %s", route)
		}
	}
}
