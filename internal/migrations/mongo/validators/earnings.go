package validators

import "go.mongodb.org/mongo-driver/bson"

var EarningEventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"cleaner_id",
			"booking_id",
			"amount",
			"earned_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"cleaner_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"amount": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"service": bson.M{
				"bsonType":  "string",
				"maxLength": 50,
			},

			"earned_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var WithdrawalValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"cleaner_id",
			"amount",
			"requested_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"cleaner_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"amount": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"requested_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var ServiceRateValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"commission",
		},
		"additionalProperties": true,

		"properties": bson.M{
			// Keyed by service type, e.g. "deep_clean".
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"commission": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
