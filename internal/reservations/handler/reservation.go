package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"hackslot/internal/reservations/service"
	"hackslot/pkg/config"
	apperrors "hackslot/pkg/errors"
	httputil "hackslot/pkg/http"
	"hackslot/pkg/middleware"
	"hackslot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	cfg     *config.Config
}

func NewReservationHandler(service service.ReservationService, cfg *config.Config) *ReservationHandler {
	return &ReservationHandler{service: service, cfg: cfg}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/api/v1/reservations", h.Create)
	router.HandlerFunc(http.MethodGet, "/api/v1/reservations", h.List)
	router.HandlerFunc(http.MethodPost, "/api/v1/reservations/blackouts", h.CreateBlackout)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.DELETE("/api/v1/reservations/id/:id", h.Cancel)
	router.POST("/api/v1/reservations/teams/:teamId/release", h.Release)
}

func actorID(r *http.Request) (string, error) {
	actor := r.Header.Get(middleware.ActorHeader)
	if actor == "" {
		return "", apperrors.Unauthorized("Missing " + middleware.ActorHeader + " header")
	}
	return actor, nil
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.cfg.Log.Warn("Failed to decode reservation request", "error", err)
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}
	req.ActorID = actor

	res, err := h.service.CreateReservation(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, res); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) CreateBlackout(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.BlackoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.cfg.Log.Warn("Failed to decode blackout request", "error", err)
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}
	req.ActorID = actor

	res, err := h.service.CreateBlackout(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, res); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reservations, count, err := h.service.GetReservations(r.Context(), filter, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WritePaginated(w, reservations, count, limit, offset); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := h.service.GetReservation(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, res); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := actorID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Optional body carrying a cancellation reason.
	var body struct {
		Reason string `json:"reason"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
			return
		}
	}

	res, err := h.service.CancelReservation(r.Context(), ps.ByName("id"), actor, body.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, res); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) Release(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := actorID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var body struct {
		HackathonID string `json:"hackathon_id"`
		Reason      string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	released, err := h.service.ReleaseTeamReservations(r.Context(), body.HackathonID, ps.ByName("teamId"), actor, body.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{
		"released": released,
		"count":    len(released),
	}); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func parseFilter(r *http.Request) (*model.ReservationFilter, error) {
	q := r.URL.Query()

	filter := &model.ReservationFilter{
		HackathonID: q.Get("hackathon_id"),
		LocationID:  q.Get("location_id"),
		TeamID:      q.Get("team_id"),
		Status:      model.ReservationStatus(q.Get("status")),
		Type:        model.ReservationType(q.Get("type")),
	}
	if filter.HackathonID == "" {
		return nil, apperrors.InvalidInput("hackathon_id query parameter is required")
	}

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, apperrors.InvalidInput("'from' must be an RFC3339 timestamp")
		}
		filter.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, apperrors.InvalidInput("'to' must be an RFC3339 timestamp")
		}
		filter.To = &t
	}

	switch filter.Status {
	case "", model.StatusConfirmed, model.StatusCanceled:
	default:
		return nil, apperrors.InvalidInput("status must be CONFIRMED or CANCELED")
	}
	switch filter.Type {
	case "", model.TypeTeam, model.TypeBlackout:
	default:
		return nil, apperrors.InvalidInput("type must be TEAM or BLACKOUT")
	}

	return filter, nil
}
