package bootcamps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/InsearchofPandas/devcamper-api/internal/geocoder"
)

func TestCenterSphereFilterTargetsLocation(t *testing.T) {
	filter := centerSphereFilter(geocoder.Point{Lat: 42.35, Lng: -71.05}, 10)

	// the 2dsphere index is on location, not a sub-field
	loc, ok := filter["location"].(bson.M)
	require.True(t, ok)
	assert.NotContains(t, filter, "location.coordinates")

	within, ok := loc["$geoWithin"].(bson.M)
	require.True(t, ok)
	sphere, ok := within["$centerSphere"].([]interface{})
	require.True(t, ok)
	require.Len(t, sphere, 2)
	assert.Equal(t, []float64{-71.05, 42.35}, sphere[0])
	assert.InDelta(t, 10/3963.0, sphere[1].(float64), 1e-12)
}
