package validators

import "go.mongodb.org/mongo-driver/bson"

var DoctorValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"name",
			"specialization",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"specialization": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"contact": bson.M{
				"bsonType":  "string",
				"maxLength": 30,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var PatientValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"name",
			"age",
			"gender",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"age": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  130,
			},

			"gender": bson.M{
				"enum": []string{"male", "female", "other"},
			},

			"contact": bson.M{
				"bsonType":  "string",
				"maxLength": 30,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
