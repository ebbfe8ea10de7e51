// Package main provides a bootstrap tool that creates the first admin account
// directly against the database, bypassing the HTTP registration gate.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/feedbackhq/feedback-collector/config"
	"github.com/feedbackhq/feedback-collector/db"
	"github.com/feedbackhq/feedback-collector/logger"
	"github.com/feedbackhq/feedback-collector/store/postgres"
	"github.com/feedbackhq/feedback-collector/types"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "", "Admin username (min 3 characters)")
	email := flag.String("email", "", "Admin email")
	password := flag.String("password", "", "Admin password (min 8 characters)")
	force := flag.Bool("force", false, "Create the account even when admins already exist")
	flag.Parse()

	logger.IsTest = true
	logger.InitLogger()
	defer logger.Close()

	if len(strings.TrimSpace(*username)) < 3 {
		log.Fatal("username must be at least 3 characters")
	}
	cleanEmail := strings.ToLower(strings.TrimSpace(*email))
	if !strings.Contains(cleanEmail, "@") {
		log.Fatal("a valid email is required")
	}
	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if !cfg.Admin.EmailDomainAllowed(cleanEmail) {
		log.Fatalf("email domain is not in ALLOWED_EMAIL_DOMAINS")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg, "db/migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users := postgres.NewPgUserStore(pool)

	count, err := users.CountAdmins(ctx)
	if err != nil {
		log.Fatalf("Failed to count admins: %v", err)
	}
	if count > 0 && !*force {
		log.Fatalf("%d admin account(s) already exist; register further admins via the API with the invitation code, or pass -force", count)
	}

	exists, err := users.UserExists(ctx, strings.TrimSpace(*username), cleanEmail)
	if err != nil {
		log.Fatalf("Failed to check existing users: %v", err)
	}
	if exists {
		log.Fatal("a user with this username or email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &types.User{
		Username:     strings.TrimSpace(*username),
		Email:        cleanEmail,
		PasswordHash: string(hashed),
		Role:         types.RoleAdmin,
	}

	id, err := users.CreateUser(ctx, user)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin account created: id=%s username=%s email=%s", id, user.Username, user.Email)
}
