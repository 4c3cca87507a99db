package bootcamps

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
	"github.com/InsearchofPandas/devcamper-api/internal/geocoder"
	"github.com/InsearchofPandas/devcamper-api/internal/models"
	"github.com/InsearchofPandas/devcamper-api/internal/query"
	"github.com/InsearchofPandas/devcamper-api/internal/utils"
)

// List returns bootcamps through the query builder: filter operators,
// field selection, sort and pagination all come from the query string.
func List(c *gin.Context) {
	params, err := query.Parse(c.Request.URL.Query())
	if err != nil {
		utils.Fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	bootcamps := []models.Bootcamp{}
	res, err := query.Run(ctx, db.Bootcamps(), params, &bootcamps)
	if err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	utils.Page(c, len(bootcamps), res.Pagination, bootcamps)
}

// Get returns a single bootcamp with its courses attached.
func Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("Bootcamp not found with id of %s", c.Param("id")))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var bootcamp models.Bootcamp
	if err := db.Bootcamps().FindOne(ctx, bson.M{"_id": id}).Decode(&bootcamp); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	courses := []models.Course{}
	cursor, err := db.Courses().Find(ctx, bson.M{"bootcamp": id})
	if err != nil {
		utils.Fail(c, apperr.FromStore(err, "Course"))
		return
	}
	if err := cursor.All(ctx, &courses); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Course"))
		return
	}

	utils.OK(c, http.StatusOK, gin.H{"bootcamp": bootcamp, "courses": courses})
}

type CreateRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Website       string   `json:"website"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email" binding:"omitempty,email"`
	Address       string   `json:"address"`
	Careers       []string `json:"careers"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"job_assistance"`
	JobGuarantee  bool     `json:"job_guarantee"`
	AcceptGi      bool     `json:"accept_gi"`
}

// Create inserts a bootcamp owned by the caller. A non-admin publisher may
// only own one published bootcamp.
func Create(c *gin.Context) {
	user := utils.CurrentUser(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperr.BadRequest("%s", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if !user.IsAdmin() {
		count, err := db.Bootcamps().CountDocuments(ctx, bson.M{"user": user.ID})
		if err != nil {
			utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
			return
		}
		if count > 0 {
			utils.Fail(c, apperr.DuplicateOwnedResource("The user with ID %s has already published a bootcamp", user.ID.Hex()))
			return
		}
	}

	bootcamp := models.Bootcamp{
		ID:            primitive.NewObjectID(),
		User:          user.ID,
		Name:          req.Name,
		Slug:          models.Slugify(req.Name),
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Careers:       req.Careers,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGi:      req.AcceptGi,
		CreatedAt:     time.Now().UTC(),
	}
	if bootcamp.Careers == nil {
		bootcamp.Careers = []string{}
	}

	if req.Address != "" {
		loc, err := geocodeAddress(ctx, req.Address)
		if err != nil {
			utils.Fail(c, apperr.Upstream("Could not geocode address"))
			return
		}
		bootcamp.Location = loc
	}

	if _, err := db.Bootcamps().InsertOne(ctx, bootcamp); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	utils.OK(c, http.StatusCreated, bootcamp)
}

type UpdateRequest struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Website       *string   `json:"website,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Careers       *[]string `json:"careers,omitempty"`
	Housing       *bool     `json:"housing,omitempty"`
	JobAssistance *bool     `json:"job_assistance,omitempty"`
	JobGuarantee  *bool     `json:"job_guarantee,omitempty"`
	AcceptGi      *bool     `json:"accept_gi,omitempty"`
}

// Update mutates a bootcamp the caller owns.
func Update(c *gin.Context) {
	user := utils.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("Bootcamp not found with id of %s", c.Param("id")))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var existing models.Bootcamp
	if err := db.Bootcamps().FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
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
	if req.Name != nil {
		set["name"] = *req.Name
		set["slug"] = models.Slugify(*req.Name)
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Website != nil {
		set["website"] = *req.Website
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Careers != nil {
		set["careers"] = *req.Careers
	}
	if req.Housing != nil {
		set["housing"] = *req.Housing
	}
	if req.JobAssistance != nil {
		set["job_assistance"] = *req.JobAssistance
	}
	if req.JobGuarantee != nil {
		set["job_guarantee"] = *req.JobGuarantee
	}
	if req.AcceptGi != nil {
		set["accept_gi"] = *req.AcceptGi
	}
	if req.Address != nil {
		set["address"] = *req.Address
		loc, err := geocodeAddress(ctx, *req.Address)
		if err != nil {
			utils.Fail(c, apperr.Upstream("Could not geocode address"))
			return
		}
		set["location"] = loc
	}
	if len(set) == 0 {
		utils.Fail(c, apperr.BadRequest("No fields to update"))
		return
	}

	if _, err := db.Bootcamps().UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	var updated models.Bootcamp
	if err := db.Bootcamps().FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}
	utils.OK(c, http.StatusOK, updated)
}

// Delete removes a bootcamp the caller owns together with its courses and
// reviews.
func Delete(c *gin.Context) {
	user := utils.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperr.NotFound("Bootcamp not found with id of %s", c.Param("id")))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var existing models.Bootcamp
	if err := db.Bootcamps().FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	if !auth.CanMutate(existing.User, user) {
		utils.Fail(c, apperr.NotAuthorized())
		return
	}

	if _, err := db.Courses().DeleteMany(ctx, bson.M{"bootcamp": id}); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Course"))
		return
	}
	if _, err := db.Reviews().DeleteMany(ctx, bson.M{"bootcamp": id}); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Review"))
		return
	}
	if _, err := db.Bootcamps().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	utils.OK(c, http.StatusOK, gin.H{})
}

func geocodeAddress(ctx context.Context, address string) (*models.Location, error) {
	point, err := geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	return &models.Location{
		Type:             "Point",
		Coordinates:      []float64{point.Lng, point.Lat},
		FormattedAddress: address,
	}, nil
}
