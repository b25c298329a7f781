package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

var hundred = decimal.NewFromInt(100)

// Budget is a spending limit for one category over a weekly or monthly window.
type Budget struct {
	DefaultModel
	OwnerID     uuid.UUID       `json:"ownerId" gorm:"uniqueIndex:budget_owner_category_period_start"`
	Category    string          `json:"category" gorm:"type:varchar(100);uniqueIndex:budget_owner_category_period_start"`
	Period      Period          `json:"period" gorm:"type:varchar(10);uniqueIndex:budget_owner_category_period_start"`
	LimitAmount decimal.Decimal `json:"limitAmount" gorm:"type:NUMERIC;check:budget_limit_positive,limit_amount > 0"`
	StartDate   types.Date      `json:"startDate" gorm:"uniqueIndex:budget_owner_category_period_start"`
	AlertLevel  AlertLevel      `json:"alertLevel" gorm:"type:varchar(10);default:none"`
}

func (Budget) Self() string {
	return "Budget"
}

// Normalize trims the category and defaults period and alert level.
func (b *Budget) Normalize() {
	b.Category = strings.TrimSpace(b.Category)
	if b.Period == "" {
		b.Period = PeriodMonthly
	}
	if b.AlertLevel == "" {
		b.AlertLevel = AlertLevelNone
	}
}

// Validate checks the budget before it is written.
func (b Budget) Validate() error {
	if b.Category == "" {
		return ErrCategoryEmpty
	}

	if b.Period != PeriodWeekly && b.Period != PeriodMonthly {
		return ErrPeriodInvalid
	}

	if b.StartDate.IsZero() {
		return ErrStartDateMissing
	}

	if !b.LimitAmount.IsPositive() {
		return ErrLimitNotPositive
	}

	return checkAmount(b.LimitAmount)
}

// Window returns the half-open window the budget covers.
//
// Weekly budgets cover seven days from the start date. Monthly budgets cover
// the start date until the first day of the following calendar month.
func (b Budget) Window() types.Window {
	if b.Period == PeriodWeekly {
		return types.Weekly(b.StartDate)
	}
	return types.Monthly(b.StartDate)
}

// Spent returns the sum of debits of the owner in the budget's category
// inside the budget's window.
func (b Budget) Spent(db *gorm.DB) (decimal.Decimal, error) {
	window := b.Window()

	var result struct {
		Total decimal.NullDecimal
	}

	err := db.Model(&Transaction{}).
		Select("SUM(amount) AS total").
		Where(&Transaction{
			OwnerID:  b.OwnerID,
			Category: b.Category,
			Type:     TransactionTypeDebit,
		}).
		Where("datetime(transactions.date) >= datetime(?)", window.Start).
		Where("datetime(transactions.date) < datetime(?)", window.End).
		Find(&result).Error
	if err != nil {
		return decimal.Zero, err
	}

	return sum(result.Total), nil
}

// BudgetProgress is a budget with its spending in the current window.
type BudgetProgress struct {
	Budget
	Window    types.Window    `json:"window"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"` // Negative when overspent
	Progress  decimal.Decimal `json:"progress"`  // Percent of the limit, rounded to two decimals
}

// Percent returns part in percent of whole, rounded to two decimals.
// It is zero if whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(2)
}

// WithProgress computes the progress of the budget.
func (b Budget) WithProgress(db *gorm.DB) (BudgetProgress, error) {
	spent, err := b.Spent(db)
	if err != nil {
		return BudgetProgress{}, err
	}

	return BudgetProgress{
		Budget:    b,
		Window:    b.Window(),
		Spent:     spent,
		Remaining: b.LimitAmount.Sub(spent),
		Progress:  Percent(spent, b.LimitAmount),
	}, nil
}

// BudgetsWithProgress returns all budgets of owner with their progress,
// ordered by start date descending and category ascending.
func BudgetsWithProgress(db *gorm.DB, owner uuid.UUID) ([]BudgetProgress, error) {
	var budgets []Budget
	err := db.Where(&Budget{OwnerID: owner}).
		Order("date(budgets.start_date) DESC, budgets.category ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, err
	}

	progress := make([]BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		p, err := b.WithProgress(db)
		if err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}

	return progress, nil
}

// CreateBudget validates and stores a new budget.
func CreateBudget(db *gorm.DB, budget *Budget) error {
	budget.Normalize()
	budget.AlertLevel = AlertLevelNone
	if err := budget.Validate(); err != nil {
		return err
	}

	return db.Create(budget).Error
}

// UpdateBudgetLimit sets a new limit for the budget in a single statement
// scoped to its owner.
func UpdateBudgetLimit(db *gorm.DB, owner, id uuid.UUID, limit decimal.Decimal) (Budget, error) {
	if !limit.IsPositive() {
		return Budget{}, ErrLimitNotPositive
	}

	if err := checkAmount(limit); err != nil {
		return Budget{}, err
	}

	tx := db.Model(&Budget{}).
		Where("id = ? AND owner_id = ?", id, owner).
		Update("limit_amount", limit)
	if tx.Error != nil {
		return Budget{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return Budget{}, notFound(Budget{})
	}

	return FindOwned[Budget](db, owner, id)
}

// DeleteBudget deletes the budget in a single statement scoped to its owner.
// Its alerts are deleted by the database.
func DeleteBudget(db *gorm.DB, owner, id uuid.UUID) error {
	return DeleteOwned[Budget](db, owner, id)
}
