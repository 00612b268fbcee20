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

const TeamCollection = "Teams"

// TeamProvider exposes team roster and status. Read-only.
type TeamProvider interface {
	FindByID(ctx context.Context, id string) (*model.Team, error)
}

type mongoTeamProvider struct {
	collection *mongo.Collection
}

func NewTeamProvider(cfg *config.Config) TeamProvider {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTeamProvider{
		collection: db.Collection(TeamCollection),
	}
}

func (p *mongoTeamProvider) FindByID(ctx context.Context, id string) (*model.Team, error) {
	var team model.Team
	err := p.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return &team, nil
}
