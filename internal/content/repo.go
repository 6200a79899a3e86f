package content

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Query is a resolved list request against one table.
type Query struct {
	// Filters maps column to exact value.
	Filters       map[string]any
	SearchColumns []string
	Search        string
	Order         string
	Offset        int
	Limit         int
}

// Repository persists records of one model type.
type Repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func (r *Repository[T]) Create(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *Repository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var rec T
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save writes every column of rec, including zero values.
func (r *Repository[T]) Save(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// Delete removes the row and reports whether one existed.
func (r *Repository[T]) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository[T]) List(ctx context.Context, q Query) ([]T, int64, error) {
	tx := r.db.WithContext(ctx).Model(new(T))
	for col, v := range q.Filters {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
	}
	if term := strings.TrimSpace(q.Search); term != "" && len(q.SearchColumns) > 0 {
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		conds := make([]string, 0, len(q.SearchColumns))
		args := make([]any, 0, len(q.SearchColumns))
		for _, col := range q.SearchColumns {
			conds = append(conds, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col))
			args = append(args, like)
		}
		tx = tx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]T, 0)
	if total == 0 {
		return rows, 0, nil
	}
	find := tx
	if q.Order != "" {
		find = find.Order(q.Order)
	}
	if err := find.Offset(q.Offset).Limit(q.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Recent returns the most recently updated records.
func (r *Repository[T]) Recent(ctx context.Context, limit int) ([]T, error) {
	rows := make([]T, 0)
	err := r.db.WithContext(ctx).Order("updated_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
