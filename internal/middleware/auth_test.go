package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/InsearchofPandas/devcamper-api/internal/auth"
	"github.com/InsearchofPandas/devcamper-api/internal/models"
	"github.com/InsearchofPandas/devcamper-api/internal/utils"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func stubLoader(user *models.User, err error) UserLoader {
	return func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
		if err != nil {
			return nil, err
		}
		u := *user
		u.ID = id
		return &u, nil
	}
}

func protectedRouter(load UserLoader, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := []gin.HandlerFunc{Protect(testSecret, load)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user := utils.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": user.ID.Hex(), "role": user.Role}})
	})
	router.GET("/private", handlers...)
	return router
}

func doRequest(router *gin.Engine, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestProtectMissingToken(t *testing.T) {
	router := protectedRouter(stubLoader(&models.User{Role: models.RoleUser}, nil))
	w := doRequest(router, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, false, body["success"])
}

func TestProtectInvalidToken(t *testing.T) {
	router := protectedRouter(stubLoader(&models.User{Role: models.RoleUser}, nil))
	w := doRequest(router, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer garbage")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectExpiredToken(t *testing.T) {
	token, err := auth.IssueToken(primitive.NewObjectID().Hex(), testSecret, -time.Minute)
	require.NoError(t, err)

	router := protectedRouter(stubLoader(&models.User{Role: models.RoleUser}, nil))
	w := doRequest(router, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectDeletedUser(t *testing.T) {
	token, err := auth.IssueToken(primitive.NewObjectID().Hex(), testSecret, time.Hour)
	require.NoError(t, err)

	router := protectedRouter(stubLoader(nil, errors.New("no documents")))
	w := doRequest(router, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectValidTokenViaHeader(t *testing.T) {
	id := primitive.NewObjectID()
	token, err := auth.IssueToken(id.Hex(), testSecret, time.Hour)
	require.NoError(t, err)

	router := protectedRouter(stubLoader(&models.User{Role: models.RolePublisher}, nil))
	w := doRequest(router, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, id.Hex(), data["id"])
	assert.Equal(t, models.RolePublisher, data["role"])
}

func TestProtectValidTokenViaCookie(t *testing.T) {
	id := primitive.NewObjectID()
	token, err := auth.IssueToken(id.Hex(), testSecret, time.Hour)
	require.NoError(t, err)

	router := protectedRouter(stubLoader(&models.User{Role: models.RoleUser}, nil))
	w := doRequest(router, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectHeaderTakesPrecedenceOverCookie(t *testing.T) {
	id := primitive.NewObjectID()
	good, err := auth.IssueToken(id.Hex(), testSecret, time.Hour)
	require.NoError(t, err)

	router := protectedRouter(stubLoader(&models.User{Role: models.RoleUser}, nil))
	// a bad header must fail even when a valid cookie is present
	w := doRequest(router, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer garbage")
		req.AddCookie(&http.Cookie{Name: "token", Value: good})
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRolesForbidden(t *testing.T) {
	id := primitive.NewObjectID()
	token, err := auth.IssueToken(id.Hex(), testSecret, time.Hour)
	require.NoError(t, err)

	router := protectedRouter(
		stubLoader(&models.User{Role: models.RoleUser}, nil),
		RequireRoles(models.RolePublisher, models.RoleAdmin),
	)
	w := doRequest(router, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, false, body["success"])
}

func TestRequireRolesAllowed(t *testing.T) {
	id := primitive.NewObjectID()
	token, err := auth.IssueToken(id.Hex(), testSecret, time.Hour)
	require.NoError(t, err)

	router := protectedRouter(
		stubLoader(&models.User{Role: models.RoleAdmin}, nil),
		RequireRoles(models.RolePublisher, models.RoleAdmin),
	)
	w := doRequest(router, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, w.Code)
}
