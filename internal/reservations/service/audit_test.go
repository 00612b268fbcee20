package service

import (
	"context"
	"testing"
	"time"

	"hackslot/pkg/kafka"
	"hackslot/pkg/model"
)

func TestPublishAudit_EventShape(t *testing.T) {
	f := newServiceFixture(t)

	if _, err := f.service.CreateReservation(context.Background(), bookingRequest("alice", 1*time.Hour, 2*time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.publisher.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(f.publisher.published))
	}
	msg := f.publisher.published[0]

	entry := f.audits.entries[0]
	if msg.Key != entry.ReservationID {
		t.Errorf("expected key %s, got %s", entry.ReservationID, msg.Key)
	}

	// the value must be the JSON event object itself, not a re-encoded blob
	var event struct {
		EventID       string         `json:"event_id"`
		ReservationID string         `json:"reservation_id"`
		HackathonID   string         `json:"hackathon_id"`
		LocationID    string         `json:"location_id"`
		TeamID        string         `json:"team_id"`
		ActorID       string         `json:"actor_id"`
		Action        string         `json:"action"`
		Meta          map[string]any `json:"meta"`
	}
	if err := msg.DecodeValue(&event); err != nil {
		t.Fatalf("published value is not a JSON event object: %v (value: %s)", err, msg.Value)
	}
	if event.EventID != entry.ID {
		t.Errorf("expected event_id %s, got %s", entry.ID, event.EventID)
	}
	if event.ReservationID != entry.ReservationID {
		t.Errorf("expected reservation_id %s, got %s", entry.ReservationID, event.ReservationID)
	}
	if event.HackathonID != "hack-1" || event.LocationID != "room-a" || event.TeamID != "team-1" {
		t.Errorf("unexpected event identifiers: %+v", event)
	}
	if event.ActorID != "alice" || event.Action != "create" {
		t.Errorf("unexpected actor/action: %+v", event)
	}

	if id, _ := msg.GetHeader(kafka.HeaderEventID); id != entry.ID {
		t.Errorf("expected event-id header %s, got %s", entry.ID, id)
	}
	if et, _ := msg.GetHeader(kafka.HeaderEventType); et != "reservation.create" {
		t.Errorf("expected event-type reservation.create, got %s", et)
	}
	if src, _ := msg.GetHeader(kafka.HeaderSource); src != auditEventSource {
		t.Errorf("expected source %s, got %s", auditEventSource, src)
	}
}

func TestPublishAudit_FailureDoesNotFailOperation(t *testing.T) {
	f := newServiceFixture(t)
	f.publisher.err = kafka.ErrProducerClosed

	res, err := f.service.CreateReservation(context.Background(), bookingRequest("alice", 1*time.Hour, 2*time.Hour))
	if err != nil {
		t.Fatalf("publish failure must not fail the booking, got %v", err)
	}
	if res.Status != model.StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", res.Status)
	}
	if len(f.audits.entries) != 1 {
		t.Errorf("audit record must still persist, got %d entries", len(f.audits.entries))
	}
}
