package db

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection   *mongo.Collection
	RecipeCollection *mongo.Collection
	AuditCollection  *mongo.Collection
)

// Init wires the collection handles from an already-connected client.
// Called once from main after the ping succeeds.
func Init(client *mongo.Client) {
	database := client.Database("recipedb")
	UserCollection = database.Collection("users")
	RecipeCollection = database.Collection("recipes")
	AuditCollection = database.Collection("audits")
}

func OptionsFindLatest(limit int64) *options.FindOptions {
	opts := options.Find()
	opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}
