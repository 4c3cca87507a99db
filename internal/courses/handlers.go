package courses

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

// List returns courses, either every course through the query builder or,
// when mounted under a bootcamp, only that bootcamp's courses.
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

	courses := []models.Course{}
	res, err := query.Run(ctx, db.Courses(), params, &courses)
	if err != nil {
		utils.Fail(c, apperr.FromStore(err, "Course"))
		return
	}

	utils.Page(c, len(courses), res.Pagination, courses)
}

// Get returns a single course with a summary of its bootcamp.
func Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("Course not found with id of %s", c.Param("id")))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var course models.Course
	if err := db.Courses().FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Course"))
		return
	}

	var bootcamp struct {
		Name        string `bson:"name" json:"name"`
		Description string `bson:"description" json:"description"`
	}
	if err := db.Bootcamps().FindOne(ctx, bson.M{"_id": course.Bootcamp}).Decode(&bootcamp); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	utils.OK(c, http.StatusOK, gin.H{"course": course, "bootcamp": bootcamp})
}

type CreateRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description" binding:"required"`
	Weeks        int     `json:"weeks" binding:"required"`
	Tuition      float64 `json:"tuition" binding:"required"`
	MinimumSkill string  `json:"minimum_skill" binding:"required"`
	Scholarship  bool    `json:"scholarship"`
}

// Create adds a course to a bootcamp the caller owns and recomputes the
// bootcamp's average cost before responding.
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
	if !models.ValidMinimumSkill(req.MinimumSkill) {
		utils.Fail(c, apperr.BadRequest("Minimum skill must be beginner, intermediate or advanced"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var bootcamp models.Bootcamp
	if err := db.Bootcamps().FindOne(ctx, bson.M{"_id": bootcampID}).Decode(&bootcamp); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	if !auth.CanMutate(bootcamp.User, user) {
		utils.Fail(c, apperr.NotAuthorized())
		return
	}

	course := models.Course{
		ID:           primitive.NewObjectID(),
		Bootcamp:     bootcampID,
		User:         user.ID,
		Title:        req.Title,
		Description:  req.Description,
		Weeks:        req.Weeks,
		Tuition:      req.Tuition,
		MinimumSkill: req.MinimumSkill,
		Scholarship:  req.Scholarship,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := db.Courses().InsertOne(ctx, course); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Course"))
		return
	}

	if err := RecalcAverageCost(ctx, bootcampID); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	utils.OK(c, http.StatusCreated, course)
}

type UpdateRequest struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Weeks        *int     `json:"weeks,omitempty"`
	Tuition      *float64 `json:"tuition,omitempty"`
	MinimumSkill *string  `json:"minimum_skill,omitempty"`
	Scholarship  *bool    `json:"scholarship,omitempty"`
}

// Update mutates a course the caller owns and recomputes the average cost.
func Update(c *gin.Context) {
	user := utils.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("Course not found with id of %s", c.Param("id")))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var existing models.Course
	if err := db.Courses().FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Course"))
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
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Weeks != nil {
		set["weeks"] = *req.Weeks
	}
	if req.Tuition != nil {
		set["tuition"] = *req.Tuition
	}
	if req.MinimumSkill != nil {
		if !models.ValidMinimumSkill(*req.MinimumSkill) {
			utils.Fail(c, apperr.BadRequest("Minimum skill must be beginner, intermediate or advanced"))
			return
		}
		set["minimum_skill"] = *req.MinimumSkill
	}
	if req.Scholarship != nil {
		set["scholarship"] = *req.Scholarship
	}
	if len(set) == 0 {
		utils.Fail(c, apperr.BadRequest("No fields to update"))
		return
	}

	if _, err := db.Courses().UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Course"))
		return
	}

	if err := RecalcAverageCost(ctx, existing.Bootcamp); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	var updated models.Course
	if err := db.Courses().FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Course"))
		return
	}
	utils.OK(c, http.StatusOK, updated)
}

// Delete removes a course the caller owns and recomputes the average cost.
func Delete(c *gin.Context) {
	user := utils.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("Course not found with id of %s", c.Param("id")))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var existing models.Course
	if err := db.Courses().FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Course"))
		return
	}

	if !auth.CanMutate(existing.User, user) {
		utils.Fail(c, apperr.NotAuthorized())
		return
	}

	if _, err := db.Courses().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Course"))
		return
	}

	if err := RecalcAverageCost(ctx, existing.Bootcamp); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	utils.OK(c, http.StatusOK, gin.H{})
}
