package repository

import (
	"context"
	"fmt"
	"time"

	"hackslot/pkg/config"
	"hackslot/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const AuditCollectionName = "Reservation_audits"

// AuditStore appends lifecycle records. Append-only: there is deliberately
// no update or delete method here.
type AuditStore interface {
	Append(ctx context.Context, entry *model.ReservationAudit) error
}

type mongoAuditStore struct {
	collection *mongo.Collection
}

func NewMongoAuditStore(cfg *config.Config) AuditStore {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAuditStore{
		collection: db.Collection(AuditCollectionName),
	}
}

func (s *mongoAuditStore) Append(ctx context.Context, entry *model.ReservationAudit) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := s.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}
