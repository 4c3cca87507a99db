package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/InsearchofPandas/devcamper-api/internal/apperr"
	"github.com/InsearchofPandas/devcamper-api/internal/auth"
	"github.com/InsearchofPandas/devcamper-api/internal/db"
	"github.com/InsearchofPandas/devcamper-api/internal/models"
	"github.com/InsearchofPandas/devcamper-api/internal/utils"
)

// UserLoader resolves a verified token subject to a live user record.
type UserLoader func(ctx context.Context, id primitive.ObjectID) (*models.User, error)

// DBUserLoader is the production loader backed by the users collection.
func DBUserLoader() UserLoader {
	return func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
		var user models.User
		if err := db.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
			return nil, err
		}
		return &user, nil
	}
}

// Protect verifies the access token and attaches the resolved user to the
// request context. The Authorization header takes precedence over the token
// cookie when both are present.
func Protect(secret string, load UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			utils.Fail(c, apperr.NotAuthenticated())
			return
		}

		userID, err := auth.VerifyToken(tokenStr, secret)
		if err != nil {
			utils.Fail(c, apperr.NotAuthenticated())
			return
		}

		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			utils.Fail(c, apperr.NotAuthenticated())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := load(ctx, oid)
		if err != nil || user == nil {
			// token subject no longer exists
			utils.Fail(c, apperr.NotAuthenticated())
			return
		}

		utils.SetCurrentUser(c, user)
		c.Next()
	}
}

// RequireRoles rejects authenticated requesters whose role is not in the
// allow-list. Distinct from Protect: the requester is known but forbidden.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := utils.CurrentUser(c)
		if user == nil {
			utils.Fail(c, apperr.NotAuthenticated())
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		utils.Fail(c, apperr.NotAuthorized())
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" && cookie != "none" {
		return cookie
	}
	return ""
}
