package validators

import "go.mongodb.org/mongo-driver/bson"

var AuditValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"reservation_id",
			"actor_id",
			"action",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"reservation_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"actor_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"action": bson.M{
				"bsonType": "string",
				"enum": []string{
					"create",
					"cancel",
					"update",
					"auto_cancel",
				},
			},

			"meta": bson.M{
				"bsonType": "object",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
