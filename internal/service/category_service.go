package service

import (
	"context"

	"todo-calendar/internal/model"
	"todo-calendar/internal/repository"
)

// CategoryService reports task counts per category.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List returns every known category in display order, including empty ones.
func (s *CategoryService) List(ctx context.Context, user *model.User) ([]model.CategoryCount, error) {
	counts, err := s.repo.CountsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	out := make([]model.CategoryCount, 0, len(model.Categories))
	for _, name := range model.Categories {
		c := counts[name]
		c.Name = name
		out = append(out, c)
	}
	return out, nil
}
