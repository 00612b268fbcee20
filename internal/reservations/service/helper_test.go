package service

import (
	"context"
	"testing"
	"time"

	"hackslot/internal/reservations/validator"
	"hackslot/pkg/config"
	mongotx "hackslot/pkg/db/mongo"
	"hackslot/pkg/kafka"
	"hackslot/pkg/logger"
	"hackslot/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Shared fixtures. The hackathon runs for 48 hours; all test windows are
// offsets from its start.
var (
	hackStart = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	hackEnd   = hackStart.Add(48 * time.Hour)
)

func testHackathon() *model.Hackathon {
	return &model.Hackathon{
		ID:        "hack-1",
		Name:      "Spring Hack",
		StartTime: hackStart,
		EndTime:   hackEnd,
		Active:    true,
	}
}

func testLocation(capacity int) *model.Location {
	return &model.Location{
		ID:         "room-a",
		Name:       "Room A",
		Capacity:   capacity,
		IsBookable: true,
	}
}

func testTeam() *model.Team {
	return &model.Team{
		ID:          "team-1",
		HackathonID: "hack-1",
		Name:        "Rubber Ducks",
		Members:     []string{"alice", "bob"},
		IsActive:    true,
	}
}

func window(startOffset, endOffset time.Duration) (time.Time, time.Time) {
	return hackStart.Add(startOffset), hackStart.Add(endOffset)
}

// Mock reservation repository with function fields. Transactions run the
// callback against a bare session context.
type mockReservationRepository struct {
	createFunc                       func(ctx context.Context, res *model.Reservation) error
	findByIDFunc                     func(ctx context.Context, id string) (*model.Reservation, error)
	findFunc                         func(ctx context.Context, f *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error)
	countFunc                        func(ctx context.Context, f *model.ReservationFilter) (int64, error)
	countConfirmedTeamAtLocationFunc func(ctx context.Context, hackathonID, locationID string, start, end time.Time) (int64, error)
	findConfirmedByTeamFunc          func(ctx context.Context, hackathonID, teamID string, start, end time.Time, limit int) ([]*model.Reservation, error)
	findAllConfirmedByTeamFunc       func(ctx context.Context, hackathonID, teamID string) ([]*model.Reservation, error)
	cancelFunc                       func(ctx context.Context, id string, canceledAt time.Time, reason string) error
	created                          []*model.Reservation
	canceled                         []string
}

func (m *mockReservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, res)
	}
	res.ID = "res-" + time.Now().Format("150405.000")
	res.CreatedAt = time.Now().UTC()
	m.created = append(m.created, res)
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockReservationRepository) Find(ctx context.Context, f *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, f, limit, offset)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) Count(ctx context.Context, f *model.ReservationFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, f)
	}
	return 0, nil
}

func (m *mockReservationRepository) CountConfirmedTeamAtLocation(ctx context.Context, hackathonID, locationID string, start, end time.Time) (int64, error) {
	if m.countConfirmedTeamAtLocationFunc != nil {
		return m.countConfirmedTeamAtLocationFunc(ctx, hackathonID, locationID, start, end)
	}
	return 0, nil
}

func (m *mockReservationRepository) FindConfirmedByTeam(ctx context.Context, hackathonID, teamID string, start, end time.Time, limit int) ([]*model.Reservation, error) {
	if m.findConfirmedByTeamFunc != nil {
		return m.findConfirmedByTeamFunc(ctx, hackathonID, teamID, start, end, limit)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) FindAllConfirmedByTeam(ctx context.Context, hackathonID, teamID string) ([]*model.Reservation, error) {
	if m.findAllConfirmedByTeamFunc != nil {
		return m.findAllConfirmedByTeamFunc(ctx, hackathonID, teamID)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) Cancel(ctx context.Context, id string, canceledAt time.Time, reason string) error {
	m.canceled = append(m.canceled, id)
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id, canceledAt, reason)
	}
	return nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	sessCtx := mongo.NewSessionContext(ctx, nil)
	return fn(sessCtx)
}

type mockSlotLockRepository struct {
	acquireFunc func(ctx context.Context, locationID string, start time.Time, ttl time.Duration) (*model.SlotLock, error)
	releaseFunc func(ctx context.Context, lockID string) error
	acquired    int
	released    int
}

func (m *mockSlotLockRepository) Acquire(ctx context.Context, locationID string, start time.Time, ttl time.Duration) (*model.SlotLock, error) {
	m.acquired++
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, locationID, start, ttl)
	}
	return &model.SlotLock{ID: "lock-1", Token: "token-1"}, nil
}

func (m *mockSlotLockRepository) Release(ctx context.Context, lockID string) error {
	m.released++
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx, lockID)
	}
	return nil
}

type mockAuditStore struct {
	appendFunc func(ctx context.Context, entry *model.ReservationAudit) error
	entries    []*model.ReservationAudit
}

func (m *mockAuditStore) Append(ctx context.Context, entry *model.ReservationAudit) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, entry)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.entries = append(m.entries, entry)
	return nil
}

type mockHackathonProvider struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Hackathon, error)
}

func (m *mockHackathonProvider) FindActive(ctx context.Context) (*model.Hackathon, error) {
	return testHackathon(), nil
}

func (m *mockHackathonProvider) FindByID(ctx context.Context, id string) (*model.Hackathon, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return testHackathon(), nil
}

type mockLocationProvider struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Location, error)
}

func (m *mockLocationProvider) FindByID(ctx context.Context, id string) (*model.Location, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return testLocation(0), nil
}

type mockTeamProvider struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Team, error)
}

func (m *mockTeamProvider) FindByID(ctx context.Context, id string) (*model.Team, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return testTeam(), nil
}

type mockRoleProvider struct {
	roles map[string]model.Role
}

func (m *mockRoleProvider) GetPrivilege(ctx context.Context, actorID string) (model.Role, error) {
	if role, ok := m.roles[actorID]; ok {
		return role, nil
	}
	return model.RoleNone, nil
}

type mockPublisher struct {
	published []kafka.Message
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, msg)
	return nil
}

type serviceFixture struct {
	repo       *mockReservationRepository
	locks      *mockSlotLockRepository
	audits     *mockAuditStore
	hackathons *mockHackathonProvider
	locations  *mockLocationProvider
	teams      *mockTeamProvider
	roles      *mockRoleProvider
	publisher  *mockPublisher
	service    ReservationService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:            log,
		SlotLockTTL:    10 * time.Second,
		MaxOverlapScan: 50,
	}

	f := &serviceFixture{
		repo:       &mockReservationRepository{},
		locks:      &mockSlotLockRepository{},
		audits:     &mockAuditStore{},
		hackathons: &mockHackathonProvider{},
		locations:  &mockLocationProvider{},
		teams:      &mockTeamProvider{},
		roles: &mockRoleProvider{roles: map[string]model.Role{
			"alice": model.RoleTeam,
			"bob":   model.RoleTeam,
			"staff": model.RoleExec,
			"tech":  model.RoleTech,
		}},
		publisher: &mockPublisher{},
	}
	f.service = NewReservationService(
		f.repo,
		f.locks,
		f.audits,
		f.hackathons,
		f.locations,
		f.teams,
		f.roles,
		validator.NewReservationValidator(log),
		f.publisher,
		cfg,
	)
	return f
}

func bookingRequest(actorID string, startOffset, endOffset time.Duration) *model.ReservationRequest {
	start, end := window(startOffset, endOffset)
	return &model.ReservationRequest{
		HackathonID: "hack-1",
		LocationID:  "room-a",
		TeamID:      "team-1",
		StartTime:   start,
		EndTime:     end,
		ActorID:     actorID,
	}
}
