package bootcamps

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/InsearchofPandas/devcamper-api/internal/apperr"
	"github.com/InsearchofPandas/devcamper-api/internal/db"
	"github.com/InsearchofPandas/devcamper-api/internal/geocoder"
	"github.com/InsearchofPandas/devcamper-api/internal/models"
	"github.com/InsearchofPandas/devcamper-api/internal/utils"
)

// earthRadiusMiles converts a distance in miles to radians for $centerSphere.
const earthRadiusMiles = 3963.0

// InRadius returns bootcamps whose location falls within the given distance
// (miles) of a zipcode. The zipcode is resolved through the geocoder.
func InRadius(c *gin.Context) {
	zipcode := c.Param("zipcode")
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil || distance <= 0 {
		utils.Fail(c, apperr.BadRequest("Distance must be a positive number"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	point, err := geocoder.Geocode(ctx, zipcode)
	if err != nil {
		utils.Fail(c, apperr.Upstream("Could not geocode zipcode %s", zipcode))
		return
	}

	cursor, err := db.Bootcamps().Find(ctx, centerSphereFilter(*point, distance))
	if err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	bootcamps := []models.Bootcamp{}
	if err := cursor.All(ctx, &bootcamps); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(bootcamps), "data": bootcamps})
}

// centerSphereFilter matches against the indexed location field so the
// 2dsphere index applies. The radius is the distance in earth radians.
func centerSphereFilter(point geocoder.Point, distance float64) bson.M {
	return bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": []interface{}{
					[]float64{point.Lng, point.Lat},
					distance / earthRadiusMiles,
				},
			},
		},
	}
}
