package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hackslot/pkg/config"
	apperrors "hackslot/pkg/errors"
	"hackslot/pkg/logger"
	"hackslot/pkg/middleware"
	"hackslot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockReservationService struct {
	createReservationFunc func(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error)
	createBlackoutFunc    func(ctx context.Context, req *model.BlackoutRequest) (*model.Reservation, error)
	cancelFunc            func(ctx context.Context, id, actorID, reason string) (*model.Reservation, error)
	getFunc               func(ctx context.Context, id string) (*model.Reservation, error)
	listFunc              func(ctx context.Context, f *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
	releaseFunc           func(ctx context.Context, hackathonID, teamID, actorID, reason string) ([]*model.Reservation, error)
}

func (m *mockReservationService) CreateReservation(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
	if m.createReservationFunc != nil {
		return m.createReservationFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockReservationService) CreateBlackout(ctx context.Context, req *model.BlackoutRequest) (*model.Reservation, error) {
	if m.createBlackoutFunc != nil {
		return m.createBlackoutFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockReservationService) CancelReservation(ctx context.Context, id, actorID, reason string) (*model.Reservation, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id, actorID, reason)
	}
	return nil, nil
}

func (m *mockReservationService) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockReservationService) GetReservations(ctx context.Context, f *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, f, limit, offset)
	}
	return []*model.Reservation{}, 0, nil
}

func (m *mockReservationService) ReleaseTeamReservations(ctx context.Context, hackathonID, teamID, actorID, reason string) ([]*model.Reservation, error) {
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx, hackathonID, teamID, actorID, reason)
	}
	return []*model.Reservation{}, nil
}

func newTestRouter(svc *mockReservationService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{Log: log}

	router := httprouter.New()
	NewReservationHandler(svc, cfg).RegisterRoutes(router)
	return router
}

func TestCreate_RequiresActorHeader(t *testing.T) {
	router := newTestRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreate_Success(t *testing.T) {
	var captured *model.ReservationRequest
	svc := &mockReservationService{
		createReservationFunc: func(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
			captured = req
			return &model.Reservation{
				ID:          "res-1",
				HackathonID: req.HackathonID,
				LocationID:  req.LocationID,
				TeamID:      req.TeamID,
				Type:        model.TypeTeam,
				StartTime:   req.StartTime,
				EndTime:     req.EndTime,
				Status:      model.StatusConfirmed,
				CreatedBy:   req.ActorID,
			}, nil
		},
	}
	router := newTestRouter(svc)

	body := `{
		"hackathon_id": "hack-1",
		"location_id": "room-a",
		"team_id": "team-1",
		"start_time": "2026-03-14T10:00:00Z",
		"end_time": "2026-03-14T11:00:00Z"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	req.Header.Set(middleware.ActorHeader, "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured == nil || captured.ActorID != "alice" {
		t.Fatalf("expected actor from header threaded into request, got %+v", captured)
	}

	var envelope struct {
		Data model.Reservation `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Data.ID != "res-1" || envelope.Data.Status != model.StatusConfirmed {
		t.Errorf("unexpected response body: %+v", envelope.Data)
	}
}

func TestCreate_ServiceErrorMapped(t *testing.T) {
	svc := &mockReservationService{
		createReservationFunc: func(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
			return nil, apperrors.Conflict("location is at capacity")
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(`{"hackathon_id":"hack-1"}`))
	req.Header.Set(middleware.ActorHeader, "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), apperrors.CodeConflict) {
		t.Errorf("expected error code in body, got %s", rec.Body.String())
	}
}

func TestList_RequiresHackathonID(t *testing.T) {
	router := newTestRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestList_ParsesFilter(t *testing.T) {
	var captured *model.ReservationFilter
	svc := &mockReservationService{
		listFunc: func(ctx context.Context, f *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
			captured = f
			return []*model.Reservation{}, 0, nil
		},
	}
	router := newTestRouter(svc)

	url := "/api/v1/reservations?hackathon_id=hack-1&location_id=room-a&status=CONFIRMED&type=TEAM&from=2026-03-14T10:00:00Z&to=2026-03-14T12:00:00Z"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured == nil {
		t.Fatal("expected service to be called")
	}
	if captured.HackathonID != "hack-1" || captured.LocationID != "room-a" {
		t.Errorf("unexpected filter: %+v", captured)
	}
	if captured.Status != model.StatusConfirmed || captured.Type != model.TypeTeam {
		t.Errorf("unexpected status/type filter: %+v", captured)
	}
	want := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	if captured.From == nil || !captured.From.Equal(want) {
		t.Errorf("unexpected from: %v", captured.From)
	}
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	router := newTestRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations?hackathon_id=hack-1&status=PENDING", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCancel_PassesReason(t *testing.T) {
	var gotID, gotActor, gotReason string
	svc := &mockReservationService{
		cancelFunc: func(ctx context.Context, id, actorID, reason string) (*model.Reservation, error) {
			gotID, gotActor, gotReason = id, actorID, reason
			return &model.Reservation{ID: id, Status: model.StatusCanceled}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/id/res-1", strings.NewReader(`{"reason":"changed plans"}`))
	req.Header.Set(middleware.ActorHeader, "bob")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != "res-1" || gotActor != "bob" || gotReason != "changed plans" {
		t.Errorf("unexpected cancel args: id=%s actor=%s reason=%s", gotID, gotActor, gotReason)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := &mockReservationService{
		getFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/id/res-missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRelease_ForwardsTeamAndActor(t *testing.T) {
	var gotHack, gotTeam, gotActor string
	svc := &mockReservationService{
		releaseFunc: func(ctx context.Context, hackathonID, teamID, actorID, reason string) ([]*model.Reservation, error) {
			gotHack, gotTeam, gotActor = hackathonID, teamID, actorID
			return []*model.Reservation{{ID: "res-1", Status: model.StatusCanceled}}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/teams/team-1/release", strings.NewReader(`{"hackathon_id":"hack-1","reason":"withdrawn"}`))
	req.Header.Set(middleware.ActorHeader, "staff")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotHack != "hack-1" || gotTeam != "team-1" || gotActor != "staff" {
		t.Errorf("unexpected release args: hack=%s team=%s actor=%s", gotHack, gotTeam, gotActor)
	}
}
