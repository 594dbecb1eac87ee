package validators

import "go.mongodb.org/mongo-driver/bson"

var SlotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"availability_id",
			"date",
			"start_time",
			"end_time",
			"mode",
			"booking_count",
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

			"elastic_schedule_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
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

			"booking_count": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"is_booked": bson.M{
				"bsonType": "bool",
			},

			"is_elastic": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
