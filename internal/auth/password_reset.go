package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/InsearchofPandas/devcamper-api/internal/apperr"
	"github.com/InsearchofPandas/devcamper-api/internal/db"
	"github.com/InsearchofPandas/devcamper-api/internal/mailer"
	"github.com/InsearchofPandas/devcamper-api/internal/models"
	"github.com/InsearchofPandas/devcamper-api/internal/utils"
)

const resetTokenTTL = 10 * time.Minute

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword issues a reset token and mails the reset URL. Only the
// sha256 of the token is stored; the plain token travels in the email.
func ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperr.BadRequest("Please provide an email"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.Users().FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		utils.Fail(c, apperr.NotFound("There is no user with that email"))
		return
	}

	token, hashed, err := newResetToken()
	if err != nil {
		utils.Fail(c, apperr.Store(err))
		return
	}

	update := bson.M{"$set": bson.M{
		"reset_password_token":  hashed,
		"reset_password_expire": time.Now().Add(resetTokenTTL),
	}}
	if _, err := db.Users().UpdateByID(ctx, user.ID, update); err != nil {
		utils.Fail(c, apperr.FromStore(err, "User"))
		return
	}

	resetURL := fmt.Sprintf("%s://%s/api/v1/auth/resetpassword/%s", scheme(c), c.Request.Host, token)
	body := fmt.Sprintf("You are receiving this email because you (or someone else) has requested the reset of a password. Please make a PUT request to:\n\n%s", resetURL)

	if err := mailer.Send(user.Email, "Password reset token", body); err != nil {
		// roll back the token so a failed dispatch leaves no dangling reset
		unset := bson.M{"$unset": bson.M{"reset_password_token": "", "reset_password_expire": ""}}
		_, _ = db.Users().UpdateByID(ctx, user.ID, unset)
		utils.Fail(c, apperr.Upstream("Email could not be sent"))
		return
	}

	utils.OK(c, http.StatusOK, "Email sent")
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// ResetPassword consumes a reset token and sets the new password.
func ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperr.BadRequest("%s", err.Error()))
		return
	}

	hashed := hashResetToken(c.Param("resettoken"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	filter := bson.M{
		"reset_password_token":  hashed,
		"reset_password_expire": bson.M{"$gt": time.Now()},
	}
	if err := db.Users().FindOne(ctx, filter).Decode(&user); err != nil {
		utils.Fail(c, apperr.BadRequest("Invalid token"))
		return
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		utils.Fail(c, apperr.Store(err))
		return
	}

	update := bson.M{
		"$set":   bson.M{"password": passwordHash},
		"$unset": bson.M{"reset_password_token": "", "reset_password_expire": ""},
	}
	if _, err := db.Users().UpdateByID(ctx, user.ID, update); err != nil {
		utils.Fail(c, apperr.FromStore(err, "User"))
		return
	}

	sendTokenResponse(c, http.StatusOK, &user)
}

// newResetToken returns the plain token and its stored sha256 hex form.
func newResetToken() (token, hashed string, err error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(buf)
	return token, hashResetToken(token), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func scheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
