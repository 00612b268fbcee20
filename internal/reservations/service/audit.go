package service

import (
	"context"

	"hackslot/pkg/kafka"
	"hackslot/pkg/model"

	"github.com/google/uuid"
)

// AuditPublisher pushes audit events to the event stream. The persisted audit
// record in Mongo is the source of truth; publishing is best effort and a
// failure never rolls back the reservation.
type AuditPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

const auditEventSource = "reservations-service"

type auditEvent struct {
	EventID       string         `json:"event_id"`
	ReservationID string         `json:"reservation_id"`
	HackathonID   string         `json:"hackathon_id"`
	LocationID    string         `json:"location_id"`
	TeamID        string         `json:"team_id,omitempty"`
	ActorID       string         `json:"actor_id"`
	Action        string         `json:"action"`
	Meta          map[string]any `json:"meta,omitempty"`
	OccurredAt    string         `json:"occurred_at"`
}

func (s *reservationService) newAuditEntry(res *model.Reservation, actorID string, action model.AuditAction, meta map[string]any) *model.ReservationAudit {
	if meta == nil {
		meta = map[string]any{}
	}
	meta["hackathon_id"] = res.HackathonID
	meta["location_id"] = res.LocationID
	if res.TeamID != "" {
		meta["team_id"] = res.TeamID
	}
	meta["start_time"] = res.StartTime
	meta["end_time"] = res.EndTime

	return &model.ReservationAudit{
		ID:            uuid.NewString(),
		ReservationID: res.ID,
		ActorID:       actorID,
		Action:        action,
		Meta:          meta,
	}
}

func (s *reservationService) publishAudit(ctx context.Context, entry *model.ReservationAudit) {
	if s.publisher == nil || entry == nil {
		return
	}

	event := auditEvent{
		EventID:       entry.ID,
		ReservationID: entry.ReservationID,
		ActorID:       entry.ActorID,
		Action:        string(entry.Action),
		Meta:          entry.Meta,
		OccurredAt:    entry.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
	if v, ok := entry.Meta["hackathon_id"].(string); ok {
		event.HackathonID = v
	}
	if v, ok := entry.Meta["location_id"].(string); ok {
		event.LocationID = v
	}
	if v, ok := entry.Meta["team_id"].(string); ok {
		event.TeamID = v
	}

	msg := kafka.NewMessage().
		WithKey(entry.ReservationID).
		WithValue(event).
		WithHeader(kafka.HeaderEventID, entry.ID).
		WithEventType("reservation." + string(entry.Action)).
		WithSource(auditEventSource).
		WithSchemaVersion("1").
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish audit event", "audit_id", entry.ID, "error", err)
	}
}
