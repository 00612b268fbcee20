package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "hackslot/internal/reservations/errors"
	"hackslot/pkg/config"
	mongotx "hackslot/pkg/db/mongo"
	"hackslot/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Reservations"
)

type ReservationRepository interface {
	Create(ctx context.Context, res *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	Find(ctx context.Context, f *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error)
	Count(ctx context.Context, f *model.ReservationFilter) (int64, error)
	CountConfirmedTeamAtLocation(ctx context.Context, hackathonID, locationID string, start, end time.Time) (int64, error)
	FindConfirmedByTeam(ctx context.Context, hackathonID, teamID string, start, end time.Time, limit int) ([]*model.Reservation, error)
	FindAllConfirmedByTeam(ctx context.Context, hackathonID, teamID string) ([]*model.Reservation, error)
	Cancel(ctx context.Context, id string, canceledAt time.Time, reason string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout bounds standalone calls. Inside a transaction the session
// context is returned untouched; wrapping it would break tx semantics.
func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	res.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, res); err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var res model.Reservation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &res, nil
}

func (r *mongoReservationRepository) Find(ctx context.Context, f *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return reservations, nil
}

func (r *mongoReservationRepository) Count(ctx context.Context, f *model.ReservationFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(f))
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) CountConfirmedTeamAtLocation(ctx context.Context, hackathonID, locationID string, start, end time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"hackathon_id": hackathonID,
		"location_id":  locationID,
		"type":         model.TypeTeam,
		"status":       model.StatusConfirmed,
		"start_time":   bson.M{"$lt": end},
		"end_time":     bson.M{"$gt": start},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping reservations: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) FindConfirmedByTeam(ctx context.Context, hackathonID, teamID string, start, end time.Time, limit int) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{
		"hackathon_id": hackathonID,
		"team_id":      teamID,
		"type":         model.TypeTeam,
		"status":       model.StatusConfirmed,
		"start_time":   bson.M{"$lt": end},
		"end_time":     bson.M{"$gt": start},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find team reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode team reservations: %w", err)
	}
	return reservations, nil
}

func (r *mongoReservationRepository) FindAllConfirmedByTeam(ctx context.Context, hackathonID, teamID string) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{
		"hackathon_id": hackathonID,
		"team_id":      teamID,
		"type":         model.TypeTeam,
		"status":       model.StatusConfirmed,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find team reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode team reservations: %w", err)
	}
	return reservations, nil
}

// Cancel flips a CONFIRMED reservation to CANCELED. The status guard in the
// filter makes the transition compare-and-set: a concurrent cancel loses and
// surfaces ErrAlreadyCanceled instead of silently rewriting the record.
func (r *mongoReservationRepository) Cancel(ctx context.Context, id string, canceledAt time.Time, reason string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": model.StatusConfirmed},
		bson.M{"$set": bson.M{
			"status":        model.StatusCanceled,
			"canceled_at":   canceledAt,
			"cancel_reason": reason,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}

	if result.MatchedCount == 0 {
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		return reservationserrors.ErrAlreadyCanceled
	}
	return nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// buildFilter mirrors the in-memory overlap predicate: a reservation matches
// [From, To) when start_time < To and end_time > From.
func buildFilter(f *model.ReservationFilter) bson.M {
	filter := bson.M{}
	if f == nil {
		return filter
	}

	if f.HackathonID != "" {
		filter["hackathon_id"] = f.HackathonID
	}
	if f.LocationID != "" {
		filter["location_id"] = f.LocationID
	}
	if f.TeamID != "" {
		filter["team_id"] = f.TeamID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}

	if f.From != nil {
		filter["end_time"] = bson.M{"$gt": *f.From}
	}
	if f.To != nil {
		filter["start_time"] = bson.M{"$lt": *f.To}
	}

	return filter
}
