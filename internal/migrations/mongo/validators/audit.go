package validators

import "go.mongodb.org/mongo-driver/bson"

var AuditValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"action",
			"actor_id",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"meeting_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"hold_id": bson.M{
				"bsonType": "string",
			},

			"action": bson.M{
				"bsonType": "string",
				"enum": []string{
					"CREATED",
					"STATUS_CHANGED",
					"RESCHEDULE_PROPOSED",
					"HOLD_ACQUIRED",
					"HOLD_RELEASED",
					"REMINDER_SENT",
				},
			},

			"old_status": bson.M{
				"bsonType": "string",
			},

			"new_status": bson.M{
				"bsonType": "string",
			},

			"actor_id": bson.M{
				"bsonType": "string",
			},

			"metadata": bson.M{
				"bsonType": "object",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
