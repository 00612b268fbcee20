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

const LocationCollection = "Locations"

// LocationProvider exposes location capacity and booking policy. Read-only.
type LocationProvider interface {
	FindByID(ctx context.Context, id string) (*model.Location, error)
}

type mongoLocationProvider struct {
	collection *mongo.Collection
}

func NewLocationProvider(cfg *config.Config) LocationProvider {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLocationProvider{
		collection: db.Collection(LocationCollection),
	}
}

func (p *mongoLocationProvider) FindByID(ctx context.Context, id string) (*model.Location, error) {
	var location model.Location
	err := p.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&location)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find location: %w", err)
	}
	return &location, nil
}
