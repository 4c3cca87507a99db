package bootcamps

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/InsearchofPandas/devcamper-api/internal/apperr"
	"github.com/InsearchofPandas/devcamper-api/internal/auth"
	"github.com/InsearchofPandas/devcamper-api/internal/config"
	"github.com/InsearchofPandas/devcamper-api/internal/db"
	"github.com/InsearchofPandas/devcamper-api/internal/models"
	"github.com/InsearchofPandas/devcamper-api/internal/utils"
)

var uploadCfg *config.Config

// Configure hands the photo handler its upload settings.
func Configure(c *config.Config) {
	uploadCfg = c
}

// UploadPhoto stores an image for a bootcamp the caller owns and records
// the filename on the document.
func UploadPhoto(c *gin.Context) {
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

	file, err := c.FormFile("file")
	if err != nil {
		utils.Fail(c, apperr.BadRequest("Please upload a file"))
		return
	}
	if file.Size > uploadCfg.MaxFileUpload {
		utils.Fail(c, apperr.BadRequest("Please upload an image less than %d bytes", uploadCfg.MaxFileUpload))
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		utils.Fail(c, apperr.BadRequest("Please upload an image file"))
		return
	}

	if err := os.MkdirAll(uploadCfg.FileUploadPath, 0o755); err != nil {
		utils.Fail(c, apperr.Store(err))
		return
	}

	filename := fmt.Sprintf("photo_%s%s", id.Hex(), filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(uploadCfg.FileUploadPath, filename)); err != nil {
		utils.Fail(c, apperr.Store(err))
		return
	}

	if _, err := db.Bootcamps().UpdateByID(ctx, id, bson.M{"$set": bson.M{"photo": filename}}); err != nil {
		utils.Fail(c, apperr.FromStore(err, "Bootcamp"))
		return
	}

	utils.OK(c, http.StatusOK, filename)
}
