package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/InsearchofPandas/devcamper-api/internal/apperr"
	"github.com/InsearchofPandas/devcamper-api/internal/config"
	"github.com/InsearchofPandas/devcamper-api/internal/db"
	"github.com/InsearchofPandas/devcamper-api/internal/models"
	"github.com/InsearchofPandas/devcamper-api/internal/utils"
)

var cfg *config.Config

// Configure hands the auth handlers their settings. Called once at startup.
func Configure(c *config.Config) {
	cfg = c
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// Register creates a user and returns a token.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperr.BadRequest("%s", err.Error()))
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRegistrationRole(role) {
		utils.Fail(c, apperr.BadRequest("Role %q cannot be chosen at registration", req.Role))
		return
	}

	hash, err := HashPassword(req.Password)
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

	sendTokenResponse(c, http.StatusCreated, &user)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies a credential and returns a token. The response does not
// distinguish an unknown email from a wrong password.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperr.BadRequest("Please provide an email and password"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.Users().FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		utils.Fail(c, apperr.New(http.StatusUnauthorized, "Invalid credentials"))
		return
	}
	if !CheckPassword(user.Password, req.Password) {
		utils.Fail(c, apperr.New(http.StatusUnauthorized, "Invalid credentials"))
		return
	}

	sendTokenResponse(c, http.StatusOK, &user)
}

// Me returns the authenticated caller.
func Me(c *gin.Context) {
	user := utils.CurrentUser(c)
	utils.OK(c, http.StatusOK, user)
}

// Logout expires the client-held token cookie. The token itself stays valid
// until its natural expiry.
func Logout(c *gin.Context) {
	c.SetCookie("token", "none", 10, "/", "", cfg.Env == "production", true)
	utils.OK(c, http.StatusOK, gin.H{})
}

type UpdateDetailsRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

// UpdateDetails mutates the caller's name and email only.
func UpdateDetails(c *gin.Context) {
	user := utils.CurrentUser(c)

	var req UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperr.BadRequest("%s", err.Error()))
		return
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if len(set) == 0 {
		utils.Fail(c, apperr.BadRequest("No fields to update"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.Users().UpdateByID(ctx, user.ID, bson.M{"$set": set}); err != nil {
		utils.Fail(c, apperr.FromStore(err, "User"))
		return
	}

	var updated models.User
	if err := db.Users().FindOne(ctx, bson.M{"_id": user.ID}).Decode(&updated); err != nil {
		utils.Fail(c, apperr.FromStore(err, "User"))
		return
	}
	utils.OK(c, http.StatusOK, updated)
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// UpdatePassword replaces the caller's password after verifying the current
// one, then returns a fresh token.
func UpdatePassword(c *gin.Context) {
	user := utils.CurrentUser(c)

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperr.BadRequest("%s", err.Error()))
		return
	}

	if !CheckPassword(user.Password, req.CurrentPassword) {
		utils.Fail(c, apperr.New(http.StatusUnauthorized, "Password is incorrect"))
		return
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		utils.Fail(c, apperr.Store(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.Users().UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{"password": hash}}); err != nil {
		utils.Fail(c, apperr.FromStore(err, "User"))
		return
	}

	sendTokenResponse(c, http.StatusOK, user)
}

// sendTokenResponse issues a token, sets the httponly cookie and writes the
// token envelope.
func sendTokenResponse(c *gin.Context, status int, user *models.User) {
	token, err := IssueToken(user.ID.Hex(), cfg.JWTSecret, cfg.JWTExpire)
	if err != nil {
		utils.Fail(c, apperr.Store(err))
		return
	}

	c.SetCookie("token", token, int(cfg.JWTCookieExpire.Seconds()), "/", "", cfg.Env == "production", true)
	c.JSON(status, gin.H{"success": true, "token": token})
}
