package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/InsearchofPandas/devcamper-api/internal/models"
)

func TestCanMutate(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	cases := []struct {
		name string
		user *models.User
		want bool
	}{
		{"owner", &models.User{ID: owner, Role: models.RolePublisher}, true},
		{"owner with user role", &models.User{ID: owner, Role: models.RoleUser}, true},
		{"non-owner", &models.User{ID: stranger, Role: models.RolePublisher}, false},
		{"admin non-owner", &models.User{ID: stranger, Role: models.RoleAdmin}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanMutate(owner, tc.user))
		})
	}
}
