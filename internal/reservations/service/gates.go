package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hackslot/internal/registry"
	apperrors "hackslot/pkg/errors"
	"hackslot/pkg/model"
)

// authorizeTeamBooking checks team existence, activity and hackathon binding
// for every booking; the membership requirement alone is waived for staff
// actors booking on a team's behalf.
func (s *reservationService) authorizeTeamBooking(ctx context.Context, req *model.ReservationRequest, role model.Role) error {
	team, err := s.teams.FindByID(ctx, req.TeamID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return apperrors.NotFoundWithID("Team", req.TeamID)
		}
		return apperrors.Internal("Failed to resolve team", err)
	}

	if !team.IsActive {
		return apperrors.Forbidden(fmt.Sprintf("team %s is not active", team.ID))
	}
	if team.HackathonID != req.HackathonID {
		return apperrors.Forbidden(fmt.Sprintf("team %s is not registered for hackathon %s", team.ID, req.HackathonID))
	}

	if role.IsStaff() {
		return nil
	}
	if !team.HasMember(req.ActorID) {
		return apperrors.Forbidden(fmt.Sprintf("actor %s is not a member of team %s", req.ActorID, team.ID))
	}
	return nil
}

// checkCapacity counts confirmed team reservations overlapping the requested
// window, padded by the location's buffer on both sides. Capacity 0 means
// unlimited. Blackouts never count toward capacity.
func (s *reservationService) checkCapacity(ctx context.Context, location *model.Location, hackathonID string, start, end time.Time) error {
	if location.Capacity <= 0 {
		return nil
	}

	buffer := location.Buffer()
	count, err := s.repo.CountConfirmedTeamAtLocation(ctx, hackathonID, location.ID, start.Add(-buffer), end.Add(buffer))
	if err != nil {
		return apperrors.Internal("Failed to count overlapping reservations", err)
	}

	if count >= int64(location.Capacity) {
		return apperrors.Conflict(fmt.Sprintf(
			"location %s is at capacity (%d) for the requested window", location.Name, location.Capacity,
		))
	}
	return nil
}

// checkTeamConflict enforces one confirmed reservation per team at any
// instant, across all locations.
func (s *reservationService) checkTeamConflict(ctx context.Context, hackathonID, teamID string, start, end time.Time) error {
	existing, err := s.repo.FindConfirmedByTeam(ctx, hackathonID, teamID, start, end, s.cfg.MaxOverlapScan)
	if err != nil {
		return apperrors.Internal("Failed to check team reservations", err)
	}

	for _, res := range existing {
		if model.Overlaps(start, end, res.StartTime, res.EndTime) {
			return apperrors.Conflict(fmt.Sprintf(
				"team %s already holds reservation %s from %s to %s",
				teamID,
				res.ID,
				res.StartTime.Format(time.RFC3339),
				res.EndTime.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// authorizeCancel: staff cancel anything; a team member cancels their own
// team's reservations; blackouts require staff.
func (s *reservationService) authorizeCancel(ctx context.Context, res *model.Reservation, actorID string) error {
	role, err := s.resolveRole(ctx, actorID)
	if err != nil {
		return err
	}
	if role.IsStaff() {
		return nil
	}

	if res.Type == model.TypeBlackout || res.TeamID == "" {
		return apperrors.Forbidden("staff privileges required to cancel this reservation")
	}

	team, err := s.teams.FindByID(ctx, res.TeamID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return apperrors.Forbidden("staff privileges required to cancel this reservation")
		}
		return apperrors.Internal("Failed to resolve team", err)
	}
	if !team.HasMember(actorID) {
		return apperrors.Forbidden(fmt.Sprintf("actor %s is not a member of team %s", actorID, res.TeamID))
	}
	return nil
}
