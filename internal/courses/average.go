package courses

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/InsearchofPandas/devcamper-api/internal/db"
)

// RecalcAverageCost recomputes a bootcamp's average tuition from its current
// courses and stores it, rounded up to the nearest ten. It runs synchronously
// from the mutating handler so the aggregate is durable before the response.
// Concurrent course writes to the same bootcamp may race on it; the last
// recompute wins.
func RecalcAverageCost(ctx context.Context, bootcampID primitive.ObjectID) error {
	pipeline := averageCostPipeline(bootcampID)

	cursor, err := db.Courses().Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}

	var results []struct {
		AverageCost float64 `bson:"average_cost"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return err
	}

	if len(results) == 0 {
		// last course removed
		_, err := db.Bootcamps().UpdateByID(ctx, bootcampID,
			bson.M{"$unset": bson.M{"average_cost": ""}})
		return err
	}

	avg := RoundUpToTen(results[0].AverageCost)
	_, err = db.Bootcamps().UpdateByID(ctx, bootcampID,
		bson.M{"$set": bson.M{"average_cost": avg}})
	return err
}

// RoundUpToTen rounds an average tuition up to the nearest multiple of ten.
func RoundUpToTen(avg float64) int {
	return int(math.Ceil(avg/10) * 10)
}

func averageCostPipeline(bootcampID primitive.ObjectID) []bson.M {
	return []bson.M{
		{"$match": bson.M{"bootcamp": bootcampID}},
		{"$group": bson.M{
			"_id":          "$bootcamp",
			"average_cost": bson.M{"$avg": "$tuition"},
		}},
	}
}
