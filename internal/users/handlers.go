package users

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/InsearchofPandas/devcamper-api/internal/apperr"
	"github.com/InsearchofPandas/devcamper-api/internal/auth"
	"github.com/InsearchofPandas/devcamper-api/internal/db"
	"github.com/InsearchofPandas/devcamper-api/internal/models"
	"github.com/InsearchofPandas/devcamper-api/internal/query"
	"github.com/InsearchofPandas/devcamper-api/internal/utils"
)

// List returns all users through the query builder. Admin only, enforced at
// the route.
func List(c *gin.Context) {
	params, err := query.Parse(c.Request.URL.Query())
	if err != nil {
		utils.Fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	users := []models.User{}
	res, err := query.Run(ctx, db.Users(), params, &users)
	if err != nil {
		utils.Fail(c, apperr.FromStore(err, "User"))
		return
	}

	utils.Page(c, len(users), res.Pagination, users)
}

// Get returns a single user.
func Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("User not found with id of %s", c.Param("id")))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		utils.Fail(c, apperr.FromStore(err, "User"))
		return
	}

	utils.OK(c, http.StatusOK, user)
}

type CreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// Create inserts a user. Unlike registration, an admin may assign any role.
func Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperr.BadRequest("%s", err.Error()))
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RolePublisher && role != models.RoleAdmin {
		utils.Fail(c, apperr.BadRequest("Invalid role %q", req.Role))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.Fail(c, apperr.Store(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  hash,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := db.Users().InsertOne(ctx, user); err != nil {
		utils.Fail(c, apperr.FromStore(err, "User"))
		return
	}

	utils.OK(c, http.StatusCreated, user)
}

type UpdateRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
	Role  *string `json:"role,omitempty"`
}

// Update mutates a user's name, email or role.
func Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("User not found with id of %s", c.Param("id")))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperr.BadRequest("%s", err.Error()))
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Role != nil {
		if *req.Role != models.RoleUser && *req.Role != models.RolePublisher && *req.Role != models.RoleAdmin {
			utils.Fail(c, apperr.BadRequest("Invalid role %q", *req.Role))
			return
		}
		set["role"] = *req.Role
	}
	if len(set) == 0 {
		utils.Fail(c, apperr.BadRequest("No fields to update"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := db.Users().UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		utils.Fail(c, apperr.FromStore(err, "User"))
		return
	}
	if result.MatchedCount == 0 {
		utils.Fail(c, apperr.NotFound("User not found with id of %s", c.Param("id")))
		return
	}

	var updated models.User
	if err := db.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
		utils.Fail(c, apperr.FromStore(err, "User"))
		return
	}
	utils.OK(c, http.StatusOK, updated)
}

// Delete removes a user. Resources the user owned keep their owner reference;
// there is no cascade.
func Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("User not found with id of %s", c.Param("id")))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := db.Users().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.Fail(c, apperr.FromStore(err, "User"))
		return
	}
	if result.DeletedCount == 0 {
		utils.Fail(c, apperr.NotFound("User not found with id of %s", c.Param("id")))
		return
	}

	utils.OK(c, http.StatusOK, gin.H{})
}
