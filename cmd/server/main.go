package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/InsearchofPandas/devcamper-api/internal/auth"
	"github.com/InsearchofPandas/devcamper-api/internal/bootcamps"
	"github.com/InsearchofPandas/devcamper-api/internal/config"
	"github.com/InsearchofPandas/devcamper-api/internal/courses"
	"github.com/InsearchofPandas/devcamper-api/internal/db"
	"github.com/InsearchofPandas/devcamper-api/internal/geocoder"
	"github.com/InsearchofPandas/devcamper-api/internal/mailer"
	"github.com/InsearchofPandas/devcamper-api/internal/middleware"
	"github.com/InsearchofPandas/devcamper-api/internal/models"
	"github.com/InsearchofPandas/devcamper-api/internal/reviews"
	"github.com/InsearchofPandas/devcamper-api/internal/users"
)

func main() {
	initLogger()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	if err := db.Init(cfg.MongoURI, cfg.MongoDB); err != nil {
		logrus.Fatalf("database: %v", err)
	}

	// Init subsystems
	auth.Configure(cfg)
	bootcamps.Configure(cfg)
	if err := mailer.Configure(cfg); err != nil {
		logrus.Warnf("mailer: %v", err)
	}
	if err := geocoder.Configure(cfg); err != nil {
		logrus.Warnf("geocoder: %v", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logrus.WithField("port", cfg.Port).WithField("env", cfg.Env).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("forced shutdown: %v", err)
	}
	if err := db.Disconnect(ctx); err != nil {
		logrus.Errorf("disconnecting MongoDB: %v", err)
	}

	logrus.Info("server exited")
}

func initLogger() {
	formatter := new(logrus.TextFormatter)
	formatter.TimestampFormat = "2006-01-02 15:04:05"
	formatter.FullTimestamp = true
	logrus.SetFormatter(formatter)
	if os.Getenv("ENV") == "production" {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// newRouter composes the middleware chain and mounts every resource router.
func newRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())

	protect := middleware.Protect(cfg.JWTSecret, middleware.DBUserLoader())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", auth.Register)
		authGroup.POST("/login", auth.Login)
		authGroup.GET("/logout", protect, auth.Logout)
		authGroup.GET("/me", protect, auth.Me)
		authGroup.POST("/forgotpassword", auth.ForgotPassword)
		authGroup.PUT("/resetpassword/:resettoken", auth.ResetPassword)
		authGroup.PUT("/updatedetails", protect, auth.UpdateDetails)
		authGroup.PUT("/updatepassword", protect, auth.UpdatePassword)
	}

	publisherOrAdmin := middleware.RequireRoles(models.RolePublisher, models.RoleAdmin)
	userOrAdmin := middleware.RequireRoles(models.RoleUser, models.RoleAdmin)

	bootcampGroup := api.Group("/bootcamps")
	{
		bootcampGroup.GET("", bootcamps.List)
		bootcampGroup.POST("", protect, publisherOrAdmin, bootcamps.Create)
		bootcampGroup.GET("/radius/:zipcode/:distance", bootcamps.InRadius)
		bootcampGroup.GET("/:id", bootcamps.Get)
		bootcampGroup.PUT("/:id", protect, publisherOrAdmin, bootcamps.Update)
		bootcampGroup.DELETE("/:id", protect, publisherOrAdmin, bootcamps.Delete)
		bootcampGroup.PUT("/:id/photo", protect, publisherOrAdmin, bootcamps.UploadPhoto)
		bootcampGroup.GET("/:id/courses", courses.List)
		bootcampGroup.POST("/:id/courses", protect, publisherOrAdmin, courses.Create)
		bootcampGroup.GET("/:id/reviews", reviews.List)
		bootcampGroup.POST("/:id/reviews", protect, userOrAdmin, reviews.Create)
	}

	courseGroup := api.Group("/courses")
	{
		courseGroup.GET("", courses.List)
		courseGroup.GET("/:id", courses.Get)
		courseGroup.PUT("/:id", protect, publisherOrAdmin, courses.Update)
		courseGroup.DELETE("/:id", protect, publisherOrAdmin, courses.Delete)
	}

	reviewGroup := api.Group("/reviews")
	{
		reviewGroup.GET("", reviews.List)
		reviewGroup.GET("/:id", reviews.Get)
		reviewGroup.PUT("/:id", protect, userOrAdmin, reviews.Update)
		reviewGroup.DELETE("/:id", protect, userOrAdmin, reviews.Delete)
	}

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	userGroup := api.Group("/users", protect, adminOnly)
	{
		userGroup.GET("", users.List)
		userGroup.POST("", users.Create)
		userGroup.GET("/:id", users.Get)
		userGroup.PUT("/:id", users.Update)
		userGroup.DELETE("/:id", users.Delete)
	}

	return router
}
