package validator

import (
	"strings"
	"testing"
	"time"

	"hackslot/pkg/logger"
	"hackslot/pkg/model"
)

func testValidator() *ReservationValidator {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewReservationValidator(log)
}

func validRequest() *model.ReservationRequest {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return &model.ReservationRequest{
		HackathonID: "hack-1",
		LocationID:  "room-a",
		TeamID:      "team-1",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		ActorID:     "alice",
	}
}

func TestValidateBooking_Valid(t *testing.T) {
	v := testValidator()
	if err := v.ValidateBooking(validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateBooking_MissingFields(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name   string
		mutate func(req *model.ReservationRequest)
		field  string
	}{
		{"missing hackathon", func(r *model.ReservationRequest) { r.HackathonID = "" }, "HackathonID"},
		{"missing location", func(r *model.ReservationRequest) { r.LocationID = "" }, "LocationID"},
		{"missing team", func(r *model.ReservationRequest) { r.TeamID = "" }, "TeamID"},
		{"missing start", func(r *model.ReservationRequest) { r.StartTime = time.Time{} }, "StartTime"},
		{"missing end", func(r *model.ReservationRequest) { r.EndTime = time.Time{} }, "EndTime"},
		{"missing actor", func(r *model.ReservationRequest) { r.ActorID = "" }, "ActorID"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			err := v.ValidateBooking(req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("expected error mentioning %s, got: %v", tc.field, err)
			}
		})
	}
}

func TestValidateBooking_WindowOrdering(t *testing.T) {
	v := testValidator()

	req := validRequest()
	req.EndTime = req.StartTime
	if err := v.ValidateBooking(req); err == nil {
		t.Error("zero-length window should fail validation")
	}

	req = validRequest()
	req.EndTime = req.StartTime.Add(-time.Hour)
	if err := v.ValidateBooking(req); err == nil {
		t.Error("inverted window should fail validation")
	}
}

func TestValidateBlackout(t *testing.T) {
	v := testValidator()
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	req := &model.BlackoutRequest{
		HackathonID: "hack-1",
		LocationID:  "room-a",
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		Reason:      "judging",
		ActorID:     "staff",
	}
	if err := v.ValidateBlackout(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.Reason = strings.Repeat("x", 501)
	if err := v.ValidateBlackout(req); err == nil {
		t.Error("overlong reason should fail validation")
	}

	req.Reason = ""
	if err := v.ValidateBlackout(req); err != nil {
		t.Errorf("reason is optional, got: %v", err)
	}
}
