package repository

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mathemix/trivia-backend/internal/entity"
)

var ErrEmptyCorpus = errors.New("question corpus is empty")

// LoadCorpus reads the question corpus from a YAML file mapping each
// category name to its question list.
func LoadCorpus(path string) (map[string][]entity.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read corpus file: %w", err)
	}

	corpus := make(map[string][]entity.Question)
	if err = yaml.Unmarshal(raw, &corpus); err != nil {
		return nil, fmt.Errorf("could not parse corpus file: %w", err)
	}

	if len(corpus) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyCorpus)
	}

	for category, questions := range corpus {
		if len(questions) == 0 {
			return nil, fmt.Errorf("category %q: %w", category, ErrEmptyCorpus)
		}
	}

	return corpus, nil
}
