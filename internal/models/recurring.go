package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecurringOptions configure the detection of recurring payments.
type RecurringOptions struct {
	Days     int `json:"days"`     // Length of the trailing window in days
	MinCount int `json:"minCount"` // Minimum number of debits in the window
	Limit    int `json:"limit"`    // Maximum number of candidates, 0 for no limit
}

// DefaultRecurringOptions looks at the last 90 days and requires three debits.
var DefaultRecurringOptions = RecurringOptions{
	Days:     90,
	MinCount: 3,
}

// Validate checks the options.
func (o RecurringOptions) Validate() error {
	if o.Days < 1 || o.MinCount < 1 || o.Limit < 0 {
		return ErrRecurringOptionsBad
	}
	return nil
}

// RecurringCandidate is a merchant and category pair that was debited repeatedly.
type RecurringCandidate struct {
	Merchant      string          `json:"merchant"`
	Category      string          `json:"category"`
	Count         int64           `json:"count"`
	AverageAmount decimal.Decimal `json:"averageAmount"`
	FirstSeen     types.Date      `json:"firstSeen"`
	LastSeen      types.Date      `json:"lastSeen"`
}

// DetectRecurring groups the debits of owner with a merchant in the trailing
// window by merchant and category and returns the groups with at least
// MinCount debits, ordered by count and then average amount, both descending.
//
// This is a frequency heuristic. It does not check that payments are evenly spaced.
func DetectRecurring(db *gorm.DB, owner uuid.UUID, now time.Time, options RecurringOptions) ([]RecurringCandidate, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	var rows []struct {
		Merchant      string
		Category      string
		Count         int64
		AverageAmount decimal.NullDecimal
		FirstSeen     string
		LastSeen      string
	}

	q := db.Model(&Transaction{}).
		Select("transactions.merchant, transactions.category, COUNT(*) AS count, AVG(transactions.amount) AS average_amount, MIN(date(transactions.date)) AS first_seen, MAX(date(transactions.date)) AS last_seen").
		Where(&Transaction{OwnerID: owner, Type: TransactionTypeDebit}).
		Where("transactions.merchant IS NOT NULL AND transactions.merchant != ''").
		Where("datetime(transactions.date) >= datetime(?)", types.DaysBefore(now, options.Days)).
		Group("transactions.merchant, transactions.category").
		Having("COUNT(*) >= ?", options.MinCount).
		Order("count DESC, average_amount DESC, transactions.merchant ASC")

	if options.Limit > 0 {
		q = q.Limit(options.Limit)
	}

	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	candidates := make([]RecurringCandidate, 0, len(rows))
	for _, row := range rows {
		first, err := types.ParseDate(row.FirstSeen)
		if err != nil {
			return nil, err
		}

		last, err := types.ParseDate(row.LastSeen)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, RecurringCandidate{
			Merchant:      row.Merchant,
			Category:      row.Category,
			Count:         row.Count,
			AverageAmount: sum(row.AverageAmount),
			FirstSeen:     first,
			LastSeen:      last,
		})
	}

	return candidates, nil
}
