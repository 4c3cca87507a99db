package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/InsearchofPandas/devcamper-api/internal/apperr"
)

// OK writes the success envelope around data.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// Page writes the success envelope for a paginated list.
func Page(c *gin.Context, count int, pagination interface{}, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      count,
		"pagination": pagination,
		"data":       data,
	})
}

// Fail writes the error envelope. Unrecognized errors become a 500 and are
// logged; taxonomy errors pass through with their status.
func Fail(c *gin.Context, err error) {
	appErr, ok := err.(*apperr.Error)
	if !ok {
		appErr = apperr.Store(err)
	}
	if appErr.Status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error(err)
	}
	c.AbortWithStatusJSON(appErr.Status, gin.H{"success": false, "error": appErr.Message})
}
