package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orexam/orexam-backend/internal/config"
	"github.com/orexam/orexam-backend/internal/database"
	"github.com/orexam/orexam-backend/internal/logger"
	"github.com/orexam/orexam-backend/internal/model"
	"github.com/orexam/orexam-backend/internal/repository"
	"github.com/orexam/orexam-backend/internal/service"
)

func main() {
	var (
		username string
		perTopic int
		approve  bool
	)
	flag.StringVar(&username, "lecturer", "", "Username of the lecturer to own the seeded questions")
	flag.IntVar(&perTopic, "per-topic", 2, "Questions to generate per topic (1-10)")
	flag.BoolVar(&approve, "approve", true, "Approve the generated questions so students can see them")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if username == "" {
		log.Fatal().Msg("-lecturer is required")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	userRepo := repository.NewUserRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	questionService := service.NewQuestionService(questionRepo, userRepo, rdb, clockwork.NewRealClock(), log)

	lecturer, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to look up lecturer")
	}
	if lecturer == nil || lecturer.Role != model.RoleLecturer {
		log.Fatal().Str("username", username).Msg("No lecturer with that username")
	}

	fmt.Printf("=== Seeding %d questions per topic ===\n", perTopic)

	total := 0
	for _, topic := range model.Topics {
		generated, err := questionService.Generate(ctx, &model.GenerateQuestionsRequest{
			Topic: topic,
			Count: perTopic,
		}, lecturer.ID)
		if err != nil {
			log.Fatal().Err(err).Str("topic", string(topic)).Msg("Generation failed")
		}

		if approve {
			for _, q := range generated {
				if _, err := questionService.Approve(ctx, q.ID, lecturer.ID); err != nil {
					log.Fatal().Err(err).Int("question_id", q.ID).Msg("Approve failed")
				}
			}
		}

		total += len(generated)
		fmt.Printf("  %-28s %d questions\n", topic, len(generated))
	}

	fmt.Printf("\nSuccess! Seeded %d questions owned by '%s'\n", total, lecturer.Username)
}
