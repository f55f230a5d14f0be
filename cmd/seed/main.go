package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/harshu1611/todoAppServer/config"
	"github.com/harshu1611/todoAppServer/internal/container"
	"github.com/harshu1611/todoAppServer/internal/domain/entity"
	"github.com/harshu1611/todoAppServer/internal/domain/repository"
	"github.com/harshu1611/todoAppServer/pkg/helpers"
)

// seed creates a verified demo user with one task through the configured store.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ct := container.New(cfg, logger)
	defer ct.Close()
	users, err := ct.OpenUsers(ctx)
	if err != nil {
		log.Fatalf("user store: %v", err)
	}

	email := "demo@todoapp.local"
	password := "password123"

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	now := time.Now().UTC()
	u := &entity.User{
		ID:       uuid.NewString(),
		Name:     "demoUser",
		Email:    email,
		Password: hash,
		Verified: true,
		Tasks: []entity.Task{{
			ID:          uuid.NewString(),
			Title:       "Try the API",
			Description: "Toggle me with PATCH /task/:taskId",
			CreatedAt:   now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = users.Create(ctx, u)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		fmt.Printf("demo user %s already exists\n", email)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)
}
