package validators

import "go.mongodb.org/mongo-driver/bson"

var MeetingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"code",
			"student_id",
			"representative_id",
			"institution_id",
			"purpose",
			"start_time",
			"end_time",
			"duration_min",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"code": bson.M{
				"bsonType":  "string",
				"minLength": 4,
				"maxLength": 32,
			},

			"student_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"representative_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"institution_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"purpose": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 500,
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"duration_min": bson.M{
				"bsonType": "int",
				"minimum":  5,
				"maximum":  480,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"draft",
					"pending",
					"confirmed",
					"reschedule_proposed",
					"rejected",
					"cancelled",
					"completed",
					"no_show",
				},
			},

			"proposed_by_role": bson.M{
				"bsonType": "string",
				"enum": []string{
					"student",
					"representative",
					"institution_admin",
				},
			},

			"proposed_start_time": bson.M{
				"bsonType": "date",
			},

			"reschedule_reason": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
