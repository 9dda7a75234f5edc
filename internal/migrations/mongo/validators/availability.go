package validators

import "go.mongodb.org/mongo-driver/bson"

var AvailabilityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"representative_id",
			"institution_id",
			"weekday",
			"start_of_day",
			"end_of_day",
			"durations_min",
			"active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
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

			"weekday": bson.M{
				"bsonType": "string",
				"enum": []string{
					"Sunday",
					"Monday",
					"Tuesday",
					"Wednesday",
					"Thursday",
					"Friday",
					"Saturday",
				},
			},

			"start_of_day": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"end_of_day": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"durations_min": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 10,
				"items": bson.M{
					"bsonType": "int",
					"minimum":  5,
					"maximum":  480,
				},
			},

			"buffer_min": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  240,
			},

			"min_lead_time_hours": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  720,
			},

			"daily_cap": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  100,
			},

			"degree_levels": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
					"enum":     []string{"bachelor", "master", "phd"},
				},
			},

			"countries": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 2,
					"maxLength": 2,
				},
			},

			"blackout_dates": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
					"pattern":  "^\\d{4}-\\d{2}-\\d{2}$",
				},
			},

			"auto_confirm": bson.M{
				"bsonType": "bool",
			},

			"active": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
