package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect dials the store and verifies the connection with a ping.
// The returned client is the single handle the rest of the process uses;
// no package-level connection state is kept.
func Connect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Connected to MongoDB")
	return client, nil
}

func GetCollection(client *mongo.Client, dbName, collName string) *mongo.Collection {
	return client.Database(dbName).Collection(collName)
}

// EnsureIndexes creates the unique BookID index and the borrow lookup
// indexes. Safe to call on every startup; index creation is idempotent.
func EnsureIndexes(ctx context.Context, books, borrows *mongo.Collection) error {
	_, err := books.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "BookID", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = borrows.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookId", Value: 1}}},
		{Keys: bson.D{{Key: "borrowerPhone", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "borrowToDate", Value: 1}}},
	})
	return err
}
