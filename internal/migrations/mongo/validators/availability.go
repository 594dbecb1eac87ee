package validators

import "go.mongodb.org/mongo-driver/bson"

var AvailabilityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"doctor_id",
			"date",
			"weekday",
			"session",
			"start_time",
			"end_time",
			"mode",
			"slot_duration_min",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"doctor_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"weekday": bson.M{
				"enum": []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"},
			},

			"session": bson.M{
				"enum": []string{"morning", "afternoon", "evening"},
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{2}:\d{2}$`,
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{2}:\d{2}$`,
			},

			"mode": bson.M{
				"enum": []string{"stream", "wave"},
			},

			"max_bookings": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  200,
			},

			"slot_duration_min": bson.M{
				"bsonType": "int",
				"minimum":  10,
				"maximum":  480,
			},

			"is_available": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var ElasticScheduleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"availability_id",
			"date",
			"weekday",
			"session",
			"start_time",
			"end_time",
			"mode",
			"slot_duration_min",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"availability_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"weekday": bson.M{
				"enum": []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"},
			},

			"session": bson.M{
				"enum": []string{"morning", "afternoon", "evening"},
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{2}:\d{2}$`,
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{2}:\d{2}$`,
			},

			"mode": bson.M{
				"enum": []string{"stream", "wave"},
			},

			"max_bookings": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  200,
			},

			"slot_duration_min": bson.M{
				"bsonType": "int",
				"minimum":  10,
				"maximum":  480,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
