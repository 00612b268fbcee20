package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hackslot/internal/registry"
	reservationserrors "hackslot/internal/reservations/errors"
	"hackslot/internal/reservations/repository"
	"hackslot/internal/reservations/validator"
	"hackslot/pkg/config"
	apperrors "hackslot/pkg/errors"
	"hackslot/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReservationService is the booking/conflict engine. Creation runs ordered
// gates, each a hard stop with no partial mutation; cancellation is the only
// status transition; every mutation leaves an audit record in the same
// transaction.
type ReservationService interface {
	CreateReservation(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error)
	CreateBlackout(ctx context.Context, req *model.BlackoutRequest) (*model.Reservation, error)
	CancelReservation(ctx context.Context, id, actorID, reason string) (*model.Reservation, error)
	GetReservation(ctx context.Context, id string) (*model.Reservation, error)
	GetReservations(ctx context.Context, f *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
	ReleaseTeamReservations(ctx context.Context, hackathonID, teamID, actorID, reason string) ([]*model.Reservation, error)
}

type reservationService struct {
	repo       repository.ReservationRepository
	lockRepo   repository.SlotLockRepository
	auditStore repository.AuditStore
	hackathons registry.HackathonProvider
	locations  registry.LocationProvider
	teams      registry.TeamProvider
	roles      registry.RoleProvider
	validator  *validator.ReservationValidator
	publisher  AuditPublisher
	cfg        *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.SlotLockRepository,
	auditStore repository.AuditStore,
	hackathons registry.HackathonProvider,
	locations  registry.LocationProvider,
	teams registry.TeamProvider,
	roles registry.RoleProvider,
	validator *validator.ReservationValidator,
	publisher AuditPublisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:       repo,
		lockRepo:   lockRepo,
		auditStore: auditStore,
		hackathons: hackathons,
		locations:  locations,
		teams:      teams,
		roles:      roles,
		validator:  validator,
		publisher:  publisher,
		cfg:        cfg,
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
	if err := s.validator.ValidateBooking(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	res, err := s.createReservationOnce(ctx, req)
	if errors.Is(err, reservationserrors.ErrSlotLocked) {
		// One transparent retry against fresh reads; the full gate sequence
		// runs again, not just the insert.
		s.cfg.Log.Debug("Slot lock collision, retrying once",
			"location_id", req.LocationID,
			"start_time", req.StartTime,
		)
		res, err = s.createReservationOnce(ctx, req)
	}
	if errors.Is(err, reservationserrors.ErrSlotLocked) {
		return nil, apperrors.Conflict("This slot is currently being booked by another request. Please try again.")
	}
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", res.ID,
		"hackathon_id", res.HackathonID,
		"location_id", res.LocationID,
		"team_id", res.TeamID,
		"start_time", res.StartTime,
	)
	return res, nil
}

// createReservationOnce runs one pass of the gate sequence. Gates 1-3 are
// registry reads; gates 4-6 run under the slot lock inside a transaction so
// the conflict check and the insert commit together.
func (s *reservationService) createReservationOnce(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
	role, err := s.resolveRole(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}

	_, location, err := s.validateWindow(ctx, req.HackathonID, req.LocationID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if err := s.checkBookingPolicy(location, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	if err := s.authorizeTeamBooking(ctx, req, role); err != nil {
		return nil, err
	}

	lock, err := s.lockRepo.Acquire(ctx, req.LocationID, req.StartTime, s.cfg.SlotLockTTL)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrSlotLocked) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to acquire slot lock", err)
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lock.ID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lock.ID, "error", releaseErr)
		}
	}()

	res := &model.Reservation{
		HackathonID: req.HackathonID,
		LocationID:  req.LocationID,
		TeamID:      req.TeamID,
		Type:        model.TypeTeam,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      model.StatusConfirmed,
		CreatedBy:   req.ActorID,
	}

	var entry *model.ReservationAudit
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.checkCapacity(sessCtx, location, req.HackathonID, req.StartTime, req.EndTime); err != nil {
			return err
		}
		if err := s.checkTeamConflict(sessCtx, req.HackathonID, req.TeamID, req.StartTime, req.EndTime); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, res); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}

		entry = s.newAuditEntry(res, req.ActorID, model.AuditActionCreate, map[string]any{
			"role": role.String(),
		})
		if err := s.auditStore.Append(sessCtx, entry); err != nil {
			return apperrors.Internal("Failed to record audit entry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishAudit(ctx, entry)
	return res, nil
}

func (s *reservationService) CreateBlackout(ctx context.Context, req *model.BlackoutRequest) (*model.Reservation, error) {
	if err := s.validator.ValidateBlackout(req); err != nil {
		s.cfg.Log.Warn("Blackout validation failed", "error", err)
		return nil, apperrors.Validation("Blackout validation failed", map[string]any{"error": err.Error()})
	}

	role, err := s.resolveRole(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	if !role.IsStaff() {
		return nil, apperrors.Forbidden("staff privileges required to create a blackout")
	}

	// Blackouts share the window/location validation with team bookings but
	// skip every team, capacity and conflict gate. They are advisory: a team
	// booking over the same slot is not blocked by them.
	if _, _, err := s.validateWindow(ctx, req.HackathonID, req.LocationID, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	res := &model.Reservation{
		HackathonID: req.HackathonID,
		LocationID:  req.LocationID,
		Type:        model.TypeBlackout,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      model.StatusConfirmed,
		CreatedBy:   req.ActorID,
	}

	var entry *model.ReservationAudit
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, res); err != nil {
			return apperrors.Internal("Failed to create blackout", err)
		}

		meta := map[string]any{"role": role.String()}
		if req.Reason != "" {
			meta["reason"] = req.Reason
		}
		entry = s.newAuditEntry(res, req.ActorID, model.AuditActionCreate, meta)
		if err := s.auditStore.Append(sessCtx, entry); err != nil {
			return apperrors.Internal("Failed to record audit entry", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create blackout", "error", err)
		return nil, err
	}

	s.publishAudit(ctx, entry)

	s.cfg.Log.Info("Blackout created successfully",
		"id", res.ID,
		"location_id", res.LocationID,
		"start_time", res.StartTime,
		"end_time", res.EndTime,
	)
	return res, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, id, actorID, reason string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	if actorID == "" {
		return nil, apperrors.InvalidInput("Actor ID cannot be empty")
	}

	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	// A second cancel is rejected, not absorbed; the audit trail records one
	// cancel per reservation.
	if res.Status == model.StatusCanceled {
		return nil, apperrors.Conflict("reservation is already canceled")
	}

	if err := s.authorizeCancel(ctx, res, actorID); err != nil {
		return nil, err
	}

	canceledAt := time.Now().UTC().Truncate(time.Millisecond)

	var entry *model.ReservationAudit
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Cancel(sessCtx, id, canceledAt, reason); err != nil {
			switch {
			case errors.Is(err, reservationserrors.ErrAlreadyCanceled):
				return apperrors.Conflict("reservation is already canceled")
			case errors.Is(err, reservationserrors.ErrNotFound):
				return apperrors.NotFoundWithID("Reservation", id)
			default:
				return apperrors.Internal("Failed to cancel reservation", err)
			}
		}

		meta := map[string]any{}
		if reason != "" {
			meta["reason"] = reason
		}
		entry = s.newAuditEntry(res, actorID, model.AuditActionCancel, meta)
		if err := s.auditStore.Append(sessCtx, entry); err != nil {
			return apperrors.Internal("Failed to record audit entry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Status = model.StatusCanceled
	res.CanceledAt = &canceledAt
	res.CancelReason = reason

	s.publishAudit(ctx, entry)

	s.cfg.Log.Info("Reservation canceled", "id", id, "actor_id", actorID)
	return res, nil
}

func (s *reservationService) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}
	return res, nil
}

func (s *reservationService) GetReservations(ctx context.Context, f *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if f == nil || f.HackathonID == "" {
		return nil, 0, apperrors.InvalidInput("Hackathon ID is required")
	}
	if f.From != nil && f.To != nil && !f.To.After(*f.From) {
		return nil, 0, apperrors.InvalidInput("'to' must be after 'from'")
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, f)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.Find(ctx, f, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

// ReleaseTeamReservations bulk-cancels a team's remaining confirmed
// reservations, e.g. when a team withdraws. Staff only; each cancellation is
// audited as auto_cancel.
func (s *reservationService) ReleaseTeamReservations(ctx context.Context, hackathonID, teamID, actorID, reason string) ([]*model.Reservation, error) {
	if hackathonID == "" || teamID == "" {
		return nil, apperrors.InvalidInput("Hackathon ID and Team ID are required")
	}

	role, err := s.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !role.IsStaff() {
		return nil, apperrors.Forbidden("staff privileges required to release team reservations")
	}

	if _, err := s.teams.FindByID(ctx, teamID); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Team", teamID)
		}
		return nil, apperrors.Internal("Failed to resolve team", err)
	}

	held, err := s.repo.FindAllConfirmedByTeam(ctx, hackathonID, teamID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list team reservations", err)
	}
	if len(held) == 0 {
		return []*model.Reservation{}, nil
	}

	canceledAt := time.Now().UTC().Truncate(time.Millisecond)
	entries := make([]*model.ReservationAudit, 0, len(held))
	released := make([]*model.Reservation, 0, len(held))

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		entries = entries[:0]
		released = released[:0]
		for _, res := range held {
			if err := s.repo.Cancel(sessCtx, res.ID, canceledAt, reason); err != nil {
				// lost the race to another cancel; not released by us
				if errors.Is(err, reservationserrors.ErrAlreadyCanceled) {
					continue
				}
				return apperrors.Internal(fmt.Sprintf("Failed to cancel reservation %s", res.ID), err)
			}

			meta := map[string]any{}
			if reason != "" {
				meta["reason"] = reason
			}
			entry := s.newAuditEntry(res, actorID, model.AuditActionAutoCancel, meta)
			if err := s.auditStore.Append(sessCtx, entry); err != nil {
				return apperrors.Internal("Failed to record audit entry", err)
			}
			entries = append(entries, entry)

			res.Status = model.StatusCanceled
			res.CanceledAt = &canceledAt
			res.CancelReason = reason
			released = append(released, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		s.publishAudit(ctx, entry)
	}

	s.cfg.Log.Info("Team reservations released",
		"hackathon_id", hackathonID,
		"team_id", teamID,
		"count", len(released),
	)
	return released, nil
}

// --- shared gates ---

func (s *reservationService) resolveRole(ctx context.Context, actorID string) (model.Role, error) {
	role, err := s.roles.GetPrivilege(ctx, actorID)
	if err != nil {
		return model.RoleNone, apperrors.Internal("Failed to resolve actor privilege", err)
	}
	return role, nil
}

// validateWindow is the time/location validation shared by the team-booking
// path and the staff blackout path.
func (s *reservationService) validateWindow(ctx context.Context, hackathonID, locationID string, start, end time.Time) (*model.Hackathon, *model.Location, error) {
	if !start.Before(end) {
		return nil, nil, apperrors.InvalidInput("start_time must be before end_time")
	}

	hackathon, err := s.hackathons.FindByID(ctx, hackathonID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, nil, apperrors.NotFoundWithID("Hackathon", hackathonID)
		}
		return nil, nil, apperrors.Internal("Failed to resolve hackathon", err)
	}
	if !hackathon.Contains(start, end) {
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf(
			"reservation window must fall within the hackathon window (%s - %s)",
			hackathon.StartTime.Format(time.RFC3339),
			hackathon.EndTime.Format(time.RFC3339),
		))
	}

	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, nil, apperrors.NotFoundWithID("Location", locationID)
		}
		return nil, nil, apperrors.Internal("Failed to resolve location", err)
	}

	return hackathon, location, nil
}

// checkBookingPolicy applies per-location booking policy; blackouts skip it
// so staff can mark closures on rooms that are not team-bookable.
func (s *reservationService) checkBookingPolicy(location *model.Location, start, end time.Time) error {
	if !location.IsBookable {
		return apperrors.InvalidInput(fmt.Sprintf("location %s is not bookable", location.Name))
	}

	duration := end.Sub(start)
	if location.MinReservationMins > 0 && duration < time.Duration(location.MinReservationMins)*time.Minute {
		return apperrors.InvalidInput(fmt.Sprintf("reservation must be at least %d minutes", location.MinReservationMins))
	}
	if location.MaxReservationMins > 0 && duration > time.Duration(location.MaxReservationMins)*time.Minute {
		return apperrors.InvalidInput(fmt.Sprintf("reservation must be at most %d minutes", location.MaxReservationMins))
	}
	return nil
}
