package reviews

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/InsearchofPandas/devcamper-api/internal/db"
)

// RecalcAverageRating recomputes a bootcamp's average rating from its current
// reviews. Runs synchronously from the mutating handler, same policy as the
// course average-cost recompute.
func RecalcAverageRating(ctx context.Context, bootcampID primitive.ObjectID) error {
	pipeline := []bson.M{
		{"$match": bson.M{"bootcamp": bootcampID}},
		{"$group": bson.M{
			"_id":            "$bootcamp",
			"average_rating": bson.M{"$avg": "$rating"},
		}},
	}

	cursor, err := db.Reviews().Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}

	var results []struct {
		AverageRating float64 `bson:"average_rating"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return err
	}

	if len(results) == 0 {
		_, err := db.Bootcamps().UpdateByID(ctx, bootcampID,
			bson.M{"$unset": bson.M{"average_rating": ""}})
		return err
	}

	_, err = db.Bootcamps().UpdateByID(ctx, bootcampID,
		bson.M{"$set": bson.M{"average_rating": results[0].AverageRating}})
	return err
}
