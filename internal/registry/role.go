package registry

import (
	"context"
	"errors"
	"fmt"

	"hackslot/pkg/config"
	"hackslot/pkg/logger"
	"hackslot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const UserCollection = "Users"

// RoleProvider resolves an actor's privilege level. Unknown actors and
// unparseable privilege names resolve to RoleNone so authorization fails
// closed.
type RoleProvider interface {
	GetPrivilege(ctx context.Context, actorID string) (model.Role, error)
}

type userRecord struct {
	ID        string `bson:"_id"`
	Privilege string `bson:"privilege"`
}

type mongoRoleProvider struct {
	collection *mongo.Collection
	log        *logger.Logger
}

func NewRoleProvider(cfg *config.Config) RoleProvider {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoleProvider{
		collection: db.Collection(UserCollection),
		log:        cfg.Log,
	}
}

func (p *mongoRoleProvider) GetPrivilege(ctx context.Context, actorID string) (model.Role, error) {
	var user userRecord
	err := p.collection.FindOne(ctx, bson.M{"_id": actorID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.RoleNone, nil
		}
		return model.RoleNone, fmt.Errorf("failed to resolve actor privilege: %w", err)
	}

	role, err := model.ParseRole(user.Privilege)
	if err != nil {
		p.log.Warn("Unknown privilege name on user record, treating as none",
			"actor_id", actorID,
			"privilege", user.Privilege,
		)
		return model.RoleNone, nil
	}
	return role, nil
}
