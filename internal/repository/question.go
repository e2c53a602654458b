package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/redis/go-redis/v9"

	"github.com/mathemix/trivia-backend/internal/apperror"
	"github.com/mathemix/trivia-backend/internal/entity"
)

const categoriesKey = "questions:categories"

// QuestionRepository serves uniform-random questions from the seeded
// corpus. Selection is with replacement; the same question may come up
// in consecutive rounds.
type QuestionRepository interface {
	Seed(ctx context.Context, corpus map[string][]entity.Question) error
	GetRandom(ctx context.Context, category string) (*entity.Question, error)
	Categories(ctx context.Context) ([]string, error)
}

type dbQuestion struct {
	client *redis.Client
}

func NewQuestionRepository(client *redis.Client) QuestionRepository {
	return &dbQuestion{
		client: client,
	}
}

// Seed replaces the stored corpus with the given one. Each category maps
// to a Redis list of JSON question records.
func (that *dbQuestion) Seed(ctx context.Context, corpus map[string][]entity.Question) error {
	for category, questions := range corpus {
		key := questionKey(category)

		if err := that.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to clear category %q: %w", category, err)
		}

		for _, question := range questions {
			questionJSON, err := json.Marshal(question)
			if err != nil {
				return fmt.Errorf("could not marshal question: %w", err)
			}

			if err = that.client.RPush(ctx, key, questionJSON).Err(); err != nil {
				return fmt.Errorf("failed to push question into %q: %w", category, err)
			}
		}

		if err := that.client.SAdd(ctx, categoriesKey, category).Err(); err != nil {
			return fmt.Errorf("failed to register category %q: %w", category, err)
		}
	}

	return nil
}

func (that *dbQuestion) GetRandom(ctx context.Context, category string) (*entity.Question, error) {
	key := questionKey(category)

	total, err := that.client.LLen(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to count questions in %q: %w", category, err)
	}

	if total == 0 {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownCategory, category)
	}

	index := rand.Int64N(total)

	response, err := that.client.LIndex(ctx, key, index).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get question from %q: %w", category, err)
	}

	var question entity.Question
	if err = json.Unmarshal([]byte(response), &question); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question: %w", err)
	}

	return &question, nil
}

func (that *dbQuestion) Categories(ctx context.Context) ([]string, error) {
	categories, err := that.client.SMembers(ctx, categoriesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

func questionKey(category string) string {
	return "questions:" + category
}
