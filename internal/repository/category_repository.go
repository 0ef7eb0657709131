package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"todo-calendar/internal/model"
)

// CategoryRepository reads per-category aggregates from the tasks table.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

type categoryRow struct {
	Category  string
	Total     int
	Completed int
}

// CountsByUser groups the user's tasks by category. Categories without tasks
// are absent from the result.
func (r *CategoryRepository) CountsByUser(ctx context.Context, userID uint) (map[string]model.CategoryCount, error) {
	var rows []categoryRow
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("category, COUNT(*) AS total, SUM(CASE WHEN is_completed THEN 1 ELSE 0 END) AS completed").
		Where("user_id = ?", userID).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	counts := make(map[string]model.CategoryCount, len(rows))
	for _, row := range rows {
		counts[row.Category] = model.CategoryCount{Name: row.Category, Total: row.Total, Completed: row.Completed}
	}
	return counts, nil
}
