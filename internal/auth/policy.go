package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/InsearchofPandas/devcamper-api/internal/models"
)

// CanMutate is the ownership policy applied before every update or delete on
// an owned resource: the requester must be the recorded owner or an admin.
func CanMutate(ownerID primitive.ObjectID, user *models.User) bool {
	return ownerID == user.ID || user.IsAdmin()
}
