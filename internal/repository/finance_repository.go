package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/bolsinho/bolsinho/internal/model"
)

// FinanceRepository covers the personal-finance tables: straight CRUD,
// no domain logic.
type FinanceRepository interface {
	ListTransactions(ctx context.Context, userID uint, start, end *time.Time) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, tx *model.Transaction) error
	UpdateTransaction(ctx context.Context, id, userID uint, updates map[string]any) error
	DeleteTransaction(ctx context.Context, id, userID uint) error

	ListBudgets(ctx context.Context, userID uint) ([]model.Budget, error)
	CreateBudget(ctx context.Context, budget *model.Budget) error

	ListGoals(ctx context.Context, userID uint) ([]model.Goal, error)
	CreateGoal(ctx context.Context, goal *model.Goal) error

	ListAlerts(ctx context.Context, userID uint, onlyUnread bool) ([]model.Alert, error)

	ListChatMessages(ctx context.Context, userID uint, limit int) ([]model.ChatMessage, error)
	CreateChatMessage(ctx context.Context, msg *model.ChatMessage) error
}

type gormFinanceRepository struct {
	db *gorm.DB
}

func NewGormFinanceRepository(db *gorm.DB) FinanceRepository {
	return &gormFinanceRepository{db: db}
}

func (r *gormFinanceRepository) ListTransactions(ctx context.Context, userID uint, start, end *time.Time) ([]model.Transaction, error) {
	var txs []model.Transaction
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if start != nil && end != nil {
		query = query.Where("date >= ? AND date <= ?", *start, *end)
	} else {
		query = query.Limit(100)
	}
	if err := query.Order("date desc").Find(&txs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}
	return txs, nil
}

func (r *gormFinanceRepository) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(tx).Error, "failed to create transaction")
}

func (r *gormFinanceRepository) UpdateTransaction(ctx context.Context, id, userID uint, updates map[string]any) error {
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error
	return errors.Wrap(err, "failed to update transaction")
}

func (r *gormFinanceRepository) DeleteTransaction(ctx context.Context, id, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Transaction{}).Error
	return errors.Wrap(err, "failed to delete transaction")
}

func (r *gormFinanceRepository) ListBudgets(ctx context.Context, userID uint) ([]model.Budget, error) {
	var budgets []model.Budget
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&budgets).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list budgets")
	}
	return budgets, nil
}

func (r *gormFinanceRepository) CreateBudget(ctx context.Context, budget *model.Budget) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(budget).Error, "failed to create budget")
}

func (r *gormFinanceRepository) ListGoals(ctx context.Context, userID uint) ([]model.Goal, error) {
	var goals []model.Goal
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&goals).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list goals")
	}
	return goals, nil
}

func (r *gormFinanceRepository) CreateGoal(ctx context.Context, goal *model.Goal) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(goal).Error, "failed to create goal")
}

func (r *gormFinanceRepository) ListAlerts(ctx context.Context, userID uint, onlyUnread bool) ([]model.Alert, error) {
	var alerts []model.Alert
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if onlyUnread {
		query = query.Where("is_read = ?", false)
	} else {
		query = query.Limit(50)
	}
	if err := query.Order("created_at desc").Find(&alerts).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list alerts")
	}
	return alerts, nil
}

func (r *gormFinanceRepository) ListChatMessages(ctx context.Context, userID uint, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at desc").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chat messages")
	}
	return msgs, nil
}

func (r *gormFinanceRepository) CreateChatMessage(ctx context.Context, msg *model.ChatMessage) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(msg).Error, "failed to create chat message")
}
