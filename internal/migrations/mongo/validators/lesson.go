package validators

import "go.mongodb.org/mongo-driver/bson"

var LessonValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"subject",
			"teacher",
			"classroom",
			"scheduled_time",
			"duration_minutes",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"subject": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"teacher": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"classroom": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"scheduled_time": bson.M{
				"bsonType": "date",
			},

			"duration_minutes": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  480,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
