package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/InsearchofPandas/devcamper-api/internal/config"
	"github.com/InsearchofPandas/devcamper-api/internal/db"
	"github.com/InsearchofPandas/devcamper-api/internal/models"
)

// Promotes an existing user to the admin role. Admin accounts cannot be
// created through registration, so this is the bootstrap path.
func main() {
	email := flag.String("email", "", "Email of the user to promote to admin")
	flag.Parse()

	if *email == "" {
		log.Fatalf("usage: go run cmd/adminutil/promote_admin/main.go -email user@example.com")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := db.Init(cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatalf("database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := db.Users().UpdateOne(ctx,
		bson.M{"email": *email},
		bson.M{"$set": bson.M{"role": models.RoleAdmin}})
	if err != nil {
		log.Fatalf("failed to promote user to admin: %v", err)
	}
	if result.MatchedCount == 0 {
		log.Fatalf("no user found with email: %s", *email)
	}

	fmt.Printf("User %s promoted to admin.\n", *email)
}
