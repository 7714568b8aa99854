package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"customer_id",
			"service_id",
			"service_type",
			"address",
			"status",
			"scheduled_at",
			"total_pause_minutes",
			"amount",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"customer_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"cleaner_id": bson.M{
				"bsonType":  []string{"string", "null"},
				"minLength": 24,
				"maxLength": 24,
			},

			"service_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"service_type": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 5,
				"maxLength": 300,
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"picked",
					"in_progress",
					"paused",
					"completed",
					"payment_verified",
				},
			},

			"scheduled_at": bson.M{
				"bsonType": "date",
			},

			"picked_at": bson.M{
				"bsonType": []string{"date", "null"},
			},

			"started_at": bson.M{
				"bsonType": []string{"date", "null"},
			},

			"paused_at": bson.M{
				"bsonType": []string{"date", "null"},
			},

			"total_pause_minutes": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"completed_at": bson.M{
				"bsonType": []string{"date", "null"},
			},

			"payment_collected_at": bson.M{
				"bsonType": []string{"date", "null"},
			},

			"amount": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"payment_proof_url": bson.M{
				"bsonType":  []string{"string", "null"},
				"maxLength": 500,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"deleted_at": bson.M{
				"bsonType": []string{"date", "null"},
			},
		},
	},
}
