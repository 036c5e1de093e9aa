package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"fleetcheck/auth"
	"fleetcheck/config"
	"fleetcheck/db"
	"fleetcheck/models"
	"fleetcheck/store"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	log.SetHandler(cli.New(os.Stderr))

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	ctx := context.Background()
	kv, err := db.Open(ctx, db.Options{
		Driver:          cfg.Storage.Driver,
		FilePath:        cfg.Storage.FilePath,
		ProjectID:       cfg.Firebase.ProjectID,
		CredentialsPath: cfg.Firebase.CredentialsPath,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to open storage")
	}
	defer kv.Close()

	log.Info("🌱 Starting database seeding...")

	if err := seedUsers(ctx, store.NewUserStore(kv)); err != nil {
		log.WithError(err).Fatal("Failed to seed users")
	}
	if err := seedPeople(ctx, store.NewPeopleStore(kv)); err != nil {
		log.WithError(err).Fatal("Failed to seed people")
	}

	log.Info("✅ Database seeding completed successfully!")
}

func seedUsers(ctx context.Context, users *store.UserStore) error {
	seeds := []struct {
		User     models.User
		Password string
	}{
		{
			User: models.User{
				Username: "admin",
				FullName: "Administrator",
				Role:     models.RoleAdmin,
			},
			Password: getenv("SEED_ADMIN_PASSWORD", "admin12345"),
		},
		{
			User: models.User{
				Username: "robby",
				FullName: "Robby Kurnia",
				NIP:      "199512042025211025",
				Role:     models.RoleInspector,
			},
			Password: getenv("SEED_INSPECTOR_PASSWORD", "inspeksi2026"),
		},
	}

	for _, seed := range seeds {
		user := seed.User
		user.UserID = uuid.NewString()
		user.CreatedAt = time.Now().UTC()

		hash, err := auth.HashPassword(seed.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", user.Username, err)
		}
		user.PasswordHash = hash

		if err := users.Create(ctx, &user); err != nil {
			if errors.Is(err, store.ErrUserExists) {
				log.WithField("username", user.Username).Info("  • User already exists, skipping")
				continue
			}
			return fmt.Errorf("failed to create user %s: %w", user.Username, err)
		}
		log.WithFields(log.Fields{"username": user.Username, "role": user.Role}).Info("  ✓ Created user")
	}
	return nil
}

// seedPeople stores the team's known drivers and team leads beyond the
// predefined ones.
func seedPeople(ctx context.Context, people *store.PeopleStore) error {
	if err := people.Load(ctx); err != nil {
		return err
	}
	extra := []struct{ driver, katim models.Person }{
		{driver: models.Person{Name: "Ahmad Fauzi", NIP: "198803152010011004"}},
		{driver: models.Person{Name: "Dedi Saputra", NIP: "199107222019031008"}},
	}
	for _, p := range extra {
		if err := people.Remember(ctx, p.driver, p.katim); err != nil {
			return fmt.Errorf("failed to remember %s: %w", p.driver.Name, err)
		}
	}
	log.WithField("drivers", len(people.Drivers())).Info("  ✓ People directories ready")
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
