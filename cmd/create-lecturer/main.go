package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/orexam/orexam-backend/internal/config"
	"github.com/orexam/orexam-backend/internal/database"
	"github.com/orexam/orexam-backend/internal/logger"
	"github.com/orexam/orexam-backend/internal/model"
	"github.com/orexam/orexam-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Lecturer ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Username
	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Error: Username is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────

	existing, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check username")
	}
	if existing != nil {
		fmt.Println("Error: Username already taken")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	lecturer := &model.User{
		Name:         name,
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleLecturer,
	}

	if err := userRepo.Create(ctx, lecturer); err != nil {
		log.Fatal().Err(err).Msg("Failed to create lecturer")
	}

	fmt.Printf("\nSuccess! Lecturer '%s' (%s) created with ID: %d\n", lecturer.Name, lecturer.Username, lecturer.ID)
}
