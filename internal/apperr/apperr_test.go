package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestTaxonomyStatuses(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("bad").Status)
	assert.Equal(t, http.StatusUnauthorized, NotAuthenticated().Status)
	assert.Equal(t, http.StatusForbidden, NotAuthorized().Status)
	assert.Equal(t, http.StatusNotFound, NotFound("gone").Status)
	assert.Equal(t, http.StatusBadRequest, DuplicateOwnedResource("dup").Status)
	assert.Equal(t, http.StatusBadRequest, QueryError("bad op").Status)
	assert.Equal(t, http.StatusBadGateway, Upstream("mail down").Status)
	assert.Equal(t, http.StatusInternalServerError, Store(errors.New("boom")).Status)
}

func TestStoreHidesInternalDetail(t *testing.T) {
	err := Store(errors.New("connection pool exhausted at 10.0.0.3"))
	assert.Equal(t, "Server error", err.Message)
}

func TestFromStoreNoDocuments(t *testing.T) {
	err := FromStore(mongo.ErrNoDocuments, "Bootcamp")
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "Bootcamp not found", err.Message)
}

func TestFromStorePassesThroughTaxonomyErrors(t *testing.T) {
	orig := NotAuthorized()
	err := FromStore(orig, "Bootcamp")
	assert.Same(t, orig, err)
}

func TestFromStoreUnknownDefaultsToServerError(t *testing.T) {
	err := FromStore(errors.New("socket closed"), "Course")
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}
