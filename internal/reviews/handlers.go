package reviews

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

// List returns reviews, optionally scoped to a bootcamp when mounted under
// one.
func List(c *gin.Context) {
	params, err := query.Parse(c.Request.URL.Query())
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if bootcampID := c.Param("id"); bootcampID != "" {
		oid, err := primitive.ObjectIDFromHex(bootcampID)
		if err != nil {
			utils.Fail(c, apperr.NotFound("Bootcamp not found with id of %s", bootcampID))
			return
		}
		params.Filter["bootcamp"] = oid
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	reviews := []models.Review{}
	res, err := query.Run(ctx, db.Reviews(), params, &reviews)
	if err != nil {
		utils.Fail(c, apperr.FromStore(err, "Review"))
		return
	}

	utils.Page(c, len(reviews), res.Pagination, reviews)
}

// Get returns a single review.
func Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("Review not found with id of %s", c.Param("id")))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var review models.Review
	if err := db.Reviews().FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Review"))
		return
	}

	utils.OK(c, http.StatusOK, review)
}

type CreateRequest struct {
	Title  string `json:"title" binding:"required"`
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=10"`
}

// Create adds a review for a bootcamp. The unique bootcamp/user index keeps
// it to one review per user per bootcamp.
func Create(c *gin.Context) {
	user := utils.CurrentUser(c)

	bootcampID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("Bootcamp not found with id of %s", c.Param("id")))
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperr.BadRequest("%s", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	count, err := db.Bootcamps().CountDocuments(ctx, bson.M{"_id": bootcampID})
	if err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}
	if count == 0 {
		utils.Fail(c, apperr.NotFound("Bootcamp not found with id of %s", c.Param("id")))
		return
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		Bootcamp:  bootcampID,
		User:      user.ID,
		Title:     req.Title,
		Text:      req.Text,
		Rating:    req.Rating,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := db.Reviews().InsertOne(ctx, review); err != nil {
		if apperr.FromStore(err, "Review").Status == http.StatusBadRequest {
			utils.Fail(c, apperr.BadRequest("You have already reviewed this bootcamp"))
			return
		}
		utils.Fail(c, apperr.FromStore(err, "Review"))
		return
	}

	if err := RecalcAverageRating(ctx, bootcampID); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	utils.OK(c, http.StatusCreated, review)
}

type UpdateRequest struct {
	Title  *string `json:"title,omitempty"`
	Text   *string `json:"text,omitempty"`
	Rating *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=10"`
}

// Update mutates a review the caller owns and recomputes the average rating.
func Update(c *gin.Context) {
	user := utils.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("Review not found with id of %s", c.Param("id")))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var existing models.Review
	if err := db.Reviews().FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Review"))
		return
	}

	if !auth.CanMutate(existing.User, user) {
		utils.Fail(c, apperr.NotAuthorized())
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperr.BadRequest("%s", err.Error()))
		return
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Text != nil {
		set["text"] = *req.Text
	}
	if req.Rating != nil {
		set["rating"] = *req.Rating
	}
	if len(set) == 0 {
		utils.Fail(c, apperr.BadRequest("No fields to update"))
		return
	}

	if _, err := db.Reviews().UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Review"))
		return
	}

	if err := RecalcAverageRating(ctx, existing.Bootcamp); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	var updated models.Review
	if err := db.Reviews().FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Review"))
		return
	}
	utils.OK(c, http.StatusOK, updated)
}

// Delete removes a review the caller owns and recomputes the average rating.
func Delete(c *gin.Context) {
	user := utils.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("Review not found with id of %s", c.Param("id")))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var existing models.Review
	if err := db.Reviews().FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Review"))
		return
	}

	if !auth.CanMutate(existing.User, user) {
		utils.Fail(c, apperr.NotAuthorized())
		return
	}

	if _, err := db.Reviews().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Review"))
		return
	}

	if err := RecalcAverageRating(ctx, existing.Bootcamp); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	utils.OK(c, http.StatusOK, gin.H{})
}
