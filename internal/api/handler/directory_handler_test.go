package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programmableapple/attorney-portfolio/internal/api/middleware"
	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
)

type stubLawyerService struct {
	listFn   func(ctx context.Context, f ports.LawyerFilter) ([]*domain.Lawyer, error)
	getFn    func(ctx context.Context, id string) (*domain.Lawyer, error)
	updateFn func(ctx context.Context, in ports.UpdateProfessionInput) (*domain.Lawyer, error)
}

func (s *stubLawyerService) List(ctx context.Context, f ports.LawyerFilter) ([]*domain.Lawyer, error) {
	return s.listFn(ctx, f)
}

func (s *stubLawyerService) Get(ctx context.Context, id string) (*domain.Lawyer, error) {
	return s.getFn(ctx, id)
}

func (s *stubLawyerService) UpdateProfession(ctx context.Context, in ports.UpdateProfessionInput) (*domain.Lawyer, error) {
	return s.updateFn(ctx, in)
}

type stubExpertiseService struct {
	listFn   func(ctx context.Context) ([]*domain.Expertise, error)
	createFn func(ctx context.Context, in ports.ExpertiseInput) (*domain.Expertise, error)
	updateFn func(ctx context.Context, id string, in ports.ExpertiseInput) (*domain.Expertise, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubExpertiseService) List(ctx context.Context) ([]*domain.Expertise, error) {
	return s.listFn(ctx)
}

func (s *stubExpertiseService) Create(ctx context.Context, in ports.ExpertiseInput) (*domain.Expertise, error) {
	return s.createFn(ctx, in)
}

func (s *stubExpertiseService) Update(ctx context.Context, id string, in ports.ExpertiseInput) (*domain.Expertise, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubExpertiseService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubBookingService struct {
	createFn func(ctx context.Context, in ports.CreateBookingInput) (*ports.BookingView, error)
	listFn   func(ctx context.Context, userID string) ([]ports.BookingView, error)
}

func (s *stubBookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*ports.BookingView, error) {
	return s.createFn(ctx, in)
}

func (s *stubBookingService) ListForUser(ctx context.Context, userID string) ([]ports.BookingView, error) {
	return s.listFn(ctx, userID)
}

func TestLawyerHandler_ListPassesFilters(t *testing.T) {
	e := newTestEcho()
	var got ports.LawyerFilter
	h := NewLawyerHandler(&stubLawyerService{
		listFn: func(_ context.Context, f ports.LawyerFilter) ([]*domain.Lawyer, error) {
			got = f
			return []*domain.Lawyer{{ID: "l1", Name: "Laura", Sectors: []string{"Family Law"}}}, nil
		},
	})

	c, rec := jsonContext(e, http.MethodGet, "/lawyers?sector=Family+Law&search=lau", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, ports.LawyerFilter{Sector: "Family Law", Search: "lau"}, got)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "l1", body[0]["_id"])
}

func TestLawyerHandler_GetNotFound(t *testing.T) {
	e := newTestEcho()
	h := NewLawyerHandler(&stubLawyerService{
		getFn: func(context.Context, string) (*domain.Lawyer, error) { return nil, domain.ErrLawyerNotFound },
	})

	c, _ := jsonContext(e, http.MethodGet, "/lawyers/x", "")
	c.SetParamNames("id")
	c.SetParamValues("x")
	require.ErrorIs(t, h.Get(c), domain.ErrNotFound)
}

func TestLawyerHandler_UpdateProfession(t *testing.T) {
	e := newTestEcho()
	caller := domain.AuthenticatedIdentity{UserID: "u-att", Role: domain.RoleAttorney}
	var got ports.UpdateProfessionInput
	h := NewLawyerHandler(&stubLawyerService{
		updateFn: func(_ context.Context, in ports.UpdateProfessionInput) (*domain.Lawyer, error) {
			got = in
			return &domain.Lawyer{ID: in.LawyerID, Sectors: in.Sectors}, nil
		},
	})

	c, rec := jsonContext(e, http.MethodPut, "/lawyers/l1/profession", `{"sectors":["Tax Law"]}`)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	middleware.SetIdentity(c, caller)

	require.NoError(t, h.UpdateProfession(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "l1", got.LawyerID)
	assert.Equal(t, []string{"Tax Law"}, got.Sectors)
	assert.Equal(t, caller, got.Caller)

	c, _ = jsonContext(e, http.MethodPut, "/lawyers/l1/profession", `{}`)
	middleware.SetIdentity(c, caller)
	require.ErrorIs(t, h.UpdateProfession(c), domain.ErrValidation)
}

func TestExpertiseHandler_CreateAndDelete(t *testing.T) {
	e := newTestEcho()
	h := NewExpertiseHandler(&stubExpertiseService{
		createFn: func(_ context.Context, in ports.ExpertiseInput) (*domain.Expertise, error) {
			if in.Name == "Family Law" {
				return nil, domain.ErrDuplicateSector
			}
			return &domain.Expertise{ID: "s1", Name: in.Name, Icon: domain.DefaultSectorIcon}, nil
		},
		deleteFn: func(_ context.Context, id string) error {
			if id != "s1" {
				return domain.ErrSectorNotFound
			}
			return nil
		},
	})

	c, rec := jsonContext(e, http.MethodPost, "/expertise", `{"name":"Tax Law"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lawyerCount":0`)

	c, _ = jsonContext(e, http.MethodPost, "/expertise", `{"name":"Family Law"}`)
	require.ErrorIs(t, h.Create(c), domain.ErrDuplicateSector)

	c, _ = jsonContext(e, http.MethodPost, "/expertise", `{"description":"no name"}`)
	require.ErrorIs(t, h.Create(c), domain.ErrValidation)

	c, rec = jsonContext(e, http.MethodDelete, "/expertise/s1", "")
	c.SetParamNames("id")
	c.SetParamValues("s1")
	require.NoError(t, h.Delete(c))
	assert.JSONEq(t, `{"message":"Sector deleted"}`, rec.Body.String())
}

func TestBookingHandler_Create(t *testing.T) {
	e := newTestEcho()
	date := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	var got ports.CreateBookingInput
	replay := false
	h := NewBookingHandler(&stubBookingService{
		createFn: func(_ context.Context, in ports.CreateBookingInput) (*ports.BookingView, error) {
			got = in
			return &ports.BookingView{
				Booking:  &domain.Booking{ID: "b1", UserID: in.UserID, LawyerID: in.LawyerID, Date: in.Date, Status: domain.BookingPending},
				Lawyer:   &ports.LawyerSummary{ID: in.LawyerID, Name: "Laura"},
				Replayed: replay,
			}, nil
		},
	})

	body := `{"lawyerId":"l1","date":"2026-05-04T10:00:00Z","notes":"hi"}`
	c, rec := jsonContext(e, http.MethodPost, "/bookings", body)
	c.Request().Header.Set(HeaderIdempotencyKey, "k-1")
	middleware.SetIdentity(c, domain.AuthenticatedIdentity{UserID: "u1", Role: domain.RoleClient})

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "k-1", got.IdempotencyKey)
	assert.True(t, got.Date.Equal(date))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	lawyer, ok := resp["lawyerId"].(map[string]any)
	require.True(t, ok, "lawyerId must embed the lawyer summary")
	assert.Equal(t, "Laura", lawyer["name"])
	assert.Equal(t, "pending", resp["status"])

	replay = true
	c, rec = jsonContext(e, http.MethodPost, "/bookings", body)
	middleware.SetIdentity(c, domain.AuthenticatedIdentity{UserID: "u1", Role: domain.RoleClient})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingHandler_CreateRequiresIdentityAndFields(t *testing.T) {
	e := newTestEcho()
	h := NewBookingHandler(&stubBookingService{
		createFn: func(context.Context, ports.CreateBookingInput) (*ports.BookingView, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	})

	c, _ := jsonContext(e, http.MethodPost, "/bookings", `{"lawyerId":"l1","date":"2026-05-04T10:00:00Z"}`)
	require.ErrorIs(t, h.Create(c), domain.ErrUnauthorized)

	c, _ = jsonContext(e, http.MethodPost, "/bookings", `{"lawyerId":"l1"}`)
	middleware.SetIdentity(c, domain.AuthenticatedIdentity{UserID: "u1", Role: domain.RoleClient})
	require.ErrorIs(t, h.Create(c), domain.ErrValidation)
}

func TestBookingHandler_ListMissingLawyerIsNull(t *testing.T) {
	e := newTestEcho()
	h := NewBookingHandler(&stubBookingService{
		listFn: func(_ context.Context, userID string) ([]ports.BookingView, error) {
			if userID != "u1" {
				return nil, errors.New("wrong user")
			}
			return []ports.BookingView{{Booking: &domain.Booking{ID: "b1", UserID: "u1", LawyerID: "gone"}}}, nil
		},
	})

	c, rec := jsonContext(e, http.MethodGet, "/bookings", "")
	middleware.SetIdentity(c, domain.AuthenticatedIdentity{UserID: "u1", Role: domain.RoleClient})
	require.NoError(t, h.List(c))

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Nil(t, resp[0]["lawyerId"])
}

func TestHealthHandlers(t *testing.T) {
	e := newTestEcho()

	c, rec := jsonContext(e, http.MethodGet, "/health", "")
	require.NoError(t, NewHealthHandler().Liveness(c))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	c, rec = jsonContext(e, http.MethodGet, "/health/ready", "")
	require.NoError(t, NewHealthDependenciesHandler(map[string]DependencyCheck{"mongodb": ok, "redis": ok}).Readiness(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = jsonContext(e, http.MethodGet, "/health/ready", "")
	require.NoError(t, NewHealthDependenciesHandler(map[string]DependencyCheck{"mongodb": ok, "redis": down}).Readiness(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body readinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "unhealthy", body.Dependencies["redis"].Status)
	assert.Equal(t, "ok", body.Dependencies["mongodb"].Status)
}
