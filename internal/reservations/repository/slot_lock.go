package repository

import (
	"context"
	"fmt"
	"time"

	reservationserrors "hackslot/internal/reservations/errors"
	"hackslot/pkg/config"
	"hackslot/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Slot_locks"

// SlotLockRepository provides the advisory locks that close the
// check-then-insert race. Lock documents carry a TTL index so a crashed
// request frees its slot without intervention.
type SlotLockRepository interface {
	Acquire(ctx context.Context, locationID string, start time.Time, ttl time.Duration) (*model.SlotLock, error)
	Release(ctx context.Context, lockID string) error
}

type mongoSlotLockRepository struct {
	collection *mongo.Collection
}

func NewSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoSlotLockRepository) Acquire(ctx context.Context, locationID string, start time.Time, ttl time.Duration) (*model.SlotLock, error) {
	lock := &model.SlotLock{
		ID:        fmt.Sprintf("slot_lock_%s_%d", locationID, start.Unix()),
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, reservationserrors.ErrSlotLocked
		}
		return nil, fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	return lock, nil
}

func (r *mongoSlotLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
