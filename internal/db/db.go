package db

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Init connects to MongoDB and ensures the indexes the handlers rely on.
func Init(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	Client = client
	DB = client.Database(dbName)

	logrus.WithField("database", dbName).Info("connected to MongoDB")

	ensureUserIndexes()
	ensureBootcampIndexes()
	ensureReviewIndexes()

	return nil
}

// Disconnect closes the client connection.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}

func Users() *mongo.Collection     { return DB.Collection("users") }
func Bootcamps() *mongo.Collection { return DB.Collection("bootcamps") }
func Courses() *mongo.Collection   { return DB.Collection("courses") }
func Reviews() *mongo.Collection   { return DB.Collection("reviews") }

// ensureUserIndexes makes emails unique
func ensureUserIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logrus.Warnf("failed to ensure users.email index: %v", err)
	}
}

// ensureBootcampIndexes adds the 2dsphere index used by the radius lookup
func ensureBootcampIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Bootcamps().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	})
	if err != nil {
		logrus.Warnf("failed to ensure bootcamps.location index: %v", err)
	}
}

// ensureReviewIndexes enforces one review per user per bootcamp
func ensureReviewIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Reviews().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "bootcamp", Value: 1}, {Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logrus.Warnf("failed to ensure reviews bootcamp/user index: %v", err)
	}
}
