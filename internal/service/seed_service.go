package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"storefront/internal/logging"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// DefaultSeedCount is the number of categories a fresh catalog is seeded with.
const DefaultSeedCount = 100

var (
	productAdjectives = []string{
		"Awesome", "Ergonomic", "Fantastic", "Handcrafted", "Incredible", "Intelligent",
		"Licensed", "Practical", "Refined", "Rustic", "Sleek", "Unbranded",
	}
	productMaterials = []string{
		"Bamboo", "Bronze", "Ceramic", "Concrete", "Cotton", "Granite",
		"Marble", "Metal", "Plastic", "Rubber", "Steel", "Wooden",
	}
	departments = []string{
		"Automotive", "Baby", "Beauty", "Books", "Clothing", "Electronics",
		"Garden", "Grocery", "Health", "Home", "Outdoors", "Toys",
	}
)

// MaxSeedCount is the number of distinct names the generator can produce.
var MaxSeedCount = len(productAdjectives) * len(productMaterials) * len(departments)

// CategorySeeder fills the catalog with generated category names.
type CategorySeeder struct {
	categoryRepo repository.CategoryRepository
	rng          *rand.Rand
	log          logging.Logger
}

// NewCategorySeeder creates a seeder. A nil rng draws from the global source.
func NewCategorySeeder(categoryRepo repository.CategoryRepository, rng *rand.Rand, log logging.Logger) *CategorySeeder {
	return &CategorySeeder{categoryRepo: categoryRepo, rng: rng, log: log}
}

// Seed generates n distinct category names and inserts those not already
// present. It returns the number of rows created.
func (s *CategorySeeder) Seed(ctx context.Context, n int) (int64, error) {
	if n <= 0 || n > MaxSeedCount {
		return 0, fmt.Errorf("seed count must be between 1 and %d, got %d", MaxSeedCount, n)
	}

	names := s.uniqueNames(n)
	categories := make([]model.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, model.Category{Name: name})
	}

	created, err := s.categoryRepo.CreateMissing(ctx, categories)
	if err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}
	s.log.Info(ctx, "categories seeded", "generated", len(names), "created", created)
	return created, nil
}

func (s *CategorySeeder) uniqueNames(n int) []string {
	seen := make(map[string]struct{}, n)
	names := make([]string, 0, n)
	for len(names) < n {
		name := s.pick(productAdjectives) + " " + s.pick(productMaterials) + " " + s.pick(departments)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func (s *CategorySeeder) pick(words []string) string {
	if s.rng != nil {
		return words[s.rng.IntN(len(words))]
	}
	return words[rand.IntN(len(words))]
}
