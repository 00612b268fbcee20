package registry

import (
	"context"
	"errors"
	"fmt"

	"hackslot/pkg/config"
	"hackslot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const HackathonCollection = "Hackathons"

// HackathonProvider exposes the event windows that bound reservations.
// Records are maintained by the event-management service; this side only
// reads.
type HackathonProvider interface {
	FindActive(ctx context.Context) (*model.Hackathon, error)
	FindByID(ctx context.Context, id string) (*model.Hackathon, error)
}

type mongoHackathonProvider struct {
	collection *mongo.Collection
}

func NewHackathonProvider(cfg *config.Config) HackathonProvider {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHackathonProvider{
		collection: db.Collection(HackathonCollection),
	}
}

func (p *mongoHackathonProvider) FindActive(ctx context.Context) (*model.Hackathon, error) {
	var hackathon model.Hackathon
	err := p.collection.FindOne(ctx, bson.M{"active": true}).Decode(&hackathon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active hackathon: %w", err)
	}
	return &hackathon, nil
}

func (p *mongoHackathonProvider) FindByID(ctx context.Context, id string) (*model.Hackathon, error) {
	var hackathon model.Hackathon
	err := p.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&hackathon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find hackathon: %w", err)
	}
	return &hackathon, nil
}
