package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Goal is a savings target. Progress is the sum of credits tagged with the goal.
type Goal struct {
	DefaultModel
	OwnerID      uuid.UUID       `json:"ownerId" gorm:"index"`
	Name         string          `json:"name" gorm:"type:varchar(100)"`
	TargetAmount decimal.Decimal `json:"targetAmount" gorm:"type:NUMERIC;check:goal_target_positive,target_amount > 0"`
	TargetDate   types.Date      `json:"targetDate"`
}

func (Goal) Self() string {
	return "Goal"
}

// Normalize trims the name.
func (g *Goal) Normalize() {
	g.Name = strings.TrimSpace(g.Name)
}

// Validate checks the goal before it is written.
func (g Goal) Validate() error {
	if g.Name == "" {
		return ErrNameEmpty
	}

	if !g.TargetAmount.IsPositive() {
		return ErrTargetNotPositive
	}

	return checkAmount(g.TargetAmount)
}

// Contributed returns the sum of all credits tagged with the goal.
func (g Goal) Contributed(db *gorm.DB) (decimal.Decimal, error) {
	var result struct {
		Total decimal.NullDecimal
	}

	err := db.Model(&Transaction{}).
		Select("SUM(amount) AS total").
		Where("transactions.goal_id = ? AND transactions.tx_type = ?", g.ID, TransactionTypeCredit).
		Find(&result).Error
	if err != nil {
		return decimal.Zero, err
	}

	return sum(result.Total), nil
}

// GoalProgress is a goal with its contributions.
type GoalProgress struct {
	Goal
	Contributed decimal.Decimal `json:"contributed"`
	Remaining   decimal.Decimal `json:"remaining"` // Never negative
	Progress    decimal.Decimal `json:"progress"`  // Percent of the target, rounded to two decimals
}

// WithProgress computes the progress of the goal.
func (g Goal) WithProgress(db *gorm.DB) (GoalProgress, error) {
	contributed, err := g.Contributed(db)
	if err != nil {
		return GoalProgress{}, err
	}

	return GoalProgress{
		Goal:        g,
		Contributed: contributed,
		Remaining:   decimal.Max(decimal.Zero, g.TargetAmount.Sub(contributed)),
		Progress:    Percent(contributed, g.TargetAmount),
	}, nil
}

// GoalsWithProgress returns all goals of owner with their progress, ordered by
// target date with undated goals last.
func GoalsWithProgress(db *gorm.DB, owner uuid.UUID) ([]GoalProgress, error) {
	var goals []Goal
	err := db.Where(&Goal{OwnerID: owner}).
		Order("goals.target_date IS NULL ASC, date(goals.target_date) ASC, goals.name ASC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}

	progress := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		p, err := g.WithProgress(db)
		if err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}

	return progress, nil
}

// CreateGoal validates and stores a new goal.
func CreateGoal(db *gorm.DB, goal *Goal) error {
	goal.Normalize()
	if err := goal.Validate(); err != nil {
		return err
	}

	return db.Create(goal).Error
}

// UpdateGoal writes all editable fields of the goal in a single statement
// scoped to its owner.
func UpdateGoal(db *gorm.DB, goal Goal) (Goal, error) {
	goal.Normalize()
	if err := goal.Validate(); err != nil {
		return Goal{}, err
	}

	tx := db.Model(&Goal{}).
		Where("id = ? AND owner_id = ?", goal.ID, goal.OwnerID).
		Select("Name", "TargetAmount", "TargetDate").
		Updates(goal)
	if tx.Error != nil {
		return Goal{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return Goal{}, notFound(goal)
	}

	return FindOwned[Goal](db, goal.OwnerID, goal.ID)
}

// Contribution is a payment towards a goal.
type Contribution struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
	Notes     string
}

// Contribute records a contribution as a credit on the account, tagged with the goal.
//
// The account balance is not changed.
func Contribute(db *gorm.DB, owner, goalID uuid.UUID, c Contribution, now time.Time) (Transaction, error) {
	if !c.Amount.IsPositive() {
		return Transaction{}, ErrAmountNotPositive
	}

	if err := checkAmount(c.Amount); err != nil {
		return Transaction{}, err
	}

	if _, err := FindOwned[Goal](db, owner, goalID); err != nil {
		return Transaction{}, err
	}

	if _, err := FindOwned[Account](db, owner, c.AccountID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Transaction{}, ErrReferenceMissing
		}
		return Transaction{}, err
	}

	t := Transaction{
		OwnerID:   owner,
		AccountID: c.AccountID,
		Amount:    c.Amount,
		Type:      TransactionTypeCredit,
		Category:  GoalSavingsCategory,
		Notes:     c.Notes,
		Date:      now,
		GoalID:    &goalID,
	}
	t.Normalize(now)

	if err := db.Create(&t).Error; err != nil {
		return Transaction{}, err
	}

	return t, nil
}

// DeleteGoal deletes the goal in a single statement scoped to its owner.
// Tagged transactions keep their amount and date, the database clears their goal reference.
func DeleteGoal(db *gorm.DB, owner, id uuid.UUID) error {
	return DeleteOwned[Goal](db, owner, id)
}
