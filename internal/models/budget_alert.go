package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AlertLevel string

const (
	AlertLevelNone     AlertLevel = "none"
	AlertLevelWarning  AlertLevel = "warning"
	AlertLevelExceeded AlertLevel = "exceeded"
)

func (l AlertLevel) rank() int {
	switch l {
	case AlertLevelWarning:
		return 1
	case AlertLevelExceeded:
		return 2
	default:
		return 0
	}
}

// AlertPolicy holds the thresholds in percent of the budget limit at which
// alerts are raised.
type AlertPolicy struct {
	Warning  decimal.Decimal `json:"warning"`
	Exceeded decimal.Decimal `json:"exceeded"`
}

// DefaultAlertPolicy warns at 80% and reports exceeded budgets at 100%.
var DefaultAlertPolicy = AlertPolicy{
	Warning:  decimal.NewFromInt(80),
	Exceeded: decimal.NewFromInt(100),
}

// Validate checks that both thresholds are positive and ordered.
func (p AlertPolicy) Validate() error {
	if !p.Warning.IsPositive() || !p.Exceeded.IsPositive() || p.Warning.GreaterThan(p.Exceeded) {
		return ErrAlertPolicyInvalid
	}
	return nil
}

// Level returns the alert level for the spending against the limit.
// The comparison is done on the unrounded ratio.
func (p AlertPolicy) Level(spent, limit decimal.Decimal) AlertLevel {
	if !limit.IsPositive() {
		return AlertLevelNone
	}

	scaled := spent.Mul(hundred)
	switch {
	case scaled.GreaterThanOrEqual(p.Exceeded.Mul(limit)):
		return AlertLevelExceeded
	case scaled.GreaterThanOrEqual(p.Warning.Mul(limit)):
		return AlertLevelWarning
	default:
		return AlertLevelNone
	}
}

// BudgetAlert is raised when a budget rises to a higher alert level.
type BudgetAlert struct {
	DefaultModel
	OwnerID  uuid.UUID  `json:"ownerId" gorm:"index"`
	BudgetID uuid.UUID  `json:"budgetId" gorm:"index"`
	Budget   Budget     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Level    AlertLevel `json:"level" gorm:"type:varchar(10)"`
	Message  string     `json:"message"`
}

func (BudgetAlert) Self() string {
	return "Budget alert"
}

func alertMessage(b Budget, spent decimal.Decimal, level AlertLevel) string {
	verb := "reached"
	if level == AlertLevelExceeded {
		verb = "exceeded"
	}

	return fmt.Sprintf("The %s budget for %s has %s %s%% of its limit: %s of %s spent.",
		b.Period, b.Category, verb, Percent(spent, b.LimitAmount).StringFixed(2), spent.StringFixed(2), b.LimitAmount.StringFixed(2))
}

// EvaluateBudget recomputes the alert level of the budget and stores it.
//
// The level is moved with a compare-and-set on the previously read level, so
// concurrent evaluations emit at most one alert per rise. An alert is created
// only when the level rises. If the alert can not be stored, the level is set
// back so that the rise is evaluated again. Lowering the level is silent and re-arms the alert.
// Rising to exceeded also appends an overspend recommendation.
//
// It returns the created alert or nil.
func EvaluateBudget(db *gorm.DB, policy AlertPolicy, budget Budget) (*BudgetAlert, error) {
	spent, err := budget.Spent(db)
	if err != nil {
		return nil, err
	}

	current := budget.AlertLevel
	if current == "" {
		current = AlertLevelNone
	}

	level := policy.Level(spent, budget.LimitAmount)
	if level == current {
		return nil, nil
	}

	tx := db.Model(&Budget{}).
		Where("id = ? AND alert_level = ?", budget.ID, current).
		UpdateColumn("alert_level", level)
	if tx.Error != nil {
		return nil, tx.Error
	}

	// Another evaluation moved the level first
	if tx.RowsAffected == 0 {
		return nil, nil
	}

	if level.rank() < current.rank() {
		return nil, nil
	}

	alert := BudgetAlert{
		OwnerID:  budget.OwnerID,
		BudgetID: budget.ID,
		Level:    level,
		Message:  alertMessage(budget, spent, level),
	}
	if err := db.Create(&alert).Error; err != nil {
		// Without the alert the rise has not happened, the next evaluation retries it
		restore := db.Model(&Budget{}).
			Where("id = ? AND alert_level = ?", budget.ID, level).
			UpdateColumn("alert_level", current)
		if restore.Error != nil {
			log.Error().Err(restore.Error).Str("budget", budget.ID.String()).Msg("restoring alert level")
		}
		return nil, err
	}

	if level == AlertLevelExceeded {
		err := AppendRecommendation(db, &Recommendation{
			OwnerID: budget.OwnerID,
			Type:    RecommendationOverspend,
			Message: fmt.Sprintf("You have overspent your %s budget for %s by %s. Consider reducing spending in this category or raising the limit.",
				budget.Period, budget.Category, spent.Sub(budget.LimitAmount).StringFixed(2)),
		})
		if err != nil {
			return &alert, err
		}
	}

	return &alert, nil
}

// EvaluateTransaction evaluates every budget of the transaction's owner whose
// category matches and whose window contains the transaction date.
// Credits never affect budgets.
func EvaluateTransaction(db *gorm.DB, policy AlertPolicy, t Transaction) ([]BudgetAlert, error) {
	if t.Type != TransactionTypeDebit {
		return nil, nil
	}

	var budgets []Budget
	err := db.Where(&Budget{OwnerID: t.OwnerID, Category: t.Category}).Find(&budgets).Error
	if err != nil {
		return nil, err
	}

	var alerts []BudgetAlert
	for _, b := range budgets {
		if !b.Window().Contains(t.Date) {
			continue
		}

		alert, err := EvaluateBudget(db, policy, b)
		if err != nil {
			return alerts, err
		}

		if alert != nil {
			alerts = append(alerts, *alert)
		}
	}

	return alerts, nil
}

// EvaluateBudgets evaluates all budgets of owner. If owner is uuid.Nil, the
// budgets of all owners are evaluated.
func EvaluateBudgets(db *gorm.DB, policy AlertPolicy, owner uuid.UUID) ([]BudgetAlert, error) {
	var budgets []Budget
	err := db.Where(&Budget{OwnerID: owner}).Order("budgets.created_at ASC").Find(&budgets).Error
	if err != nil {
		return nil, err
	}

	var alerts []BudgetAlert
	for _, b := range budgets {
		alert, err := EvaluateBudget(db, policy, b)
		if err != nil {
			return alerts, err
		}

		if alert != nil {
			alerts = append(alerts, *alert)
		}
	}

	return alerts, nil
}

// AlertFeedItem is an alert together with the budget it belongs to.
type AlertFeedItem struct {
	ID        uuid.UUID  `json:"id"`
	BudgetID  uuid.UUID  `json:"budgetId"`
	Category  string     `json:"category"`
	Period    Period     `json:"period"`
	Level     AlertLevel `json:"level"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"createdAt"`
}

// DefaultFeedLimit is the number of entries returned by feeds when no limit is given.
const DefaultFeedLimit = 50

// Alerts returns the newest alerts of owner.
func Alerts(db *gorm.DB, owner uuid.UUID, limit int) ([]AlertFeedItem, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	items := make([]AlertFeedItem, 0)
	err := db.Model(&BudgetAlert{}).
		Select("budget_alerts.id, budget_alerts.budget_id, budgets.category, budgets.period, budget_alerts.level, budget_alerts.message, budget_alerts.created_at").
		Joins("JOIN budgets ON budgets.id = budget_alerts.budget_id").
		Where("budget_alerts.owner_id = ?", owner).
		Order("budget_alerts.created_at DESC, budget_alerts.id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].CreatedAt = items[i].CreatedAt.UTC()
	}

	return items, nil
}
