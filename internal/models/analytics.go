package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Defaults and bounds of the aggregation queries.
const (
	DefaultSummaryDays   = 30
	DefaultTrailingDays  = 30
	DefaultRecentLimit   = 20
	DefaultCategoryLimit = 10
	DefaultMonths        = 6
	MaxMonths            = 24
	MaxSearchResults     = 500
)

const (
	debitSum  = "SUM(CASE WHEN transactions.tx_type = 'debit' THEN transactions.amount ELSE 0 END)"
	creditSum = "SUM(CASE WHEN transactions.tx_type = 'credit' THEN transactions.amount ELSE 0 END)"
)

// sum returns the SQL sum as decimal, zero for NULL. Sums are computed by the
// database and rounded back to the storage scale.
func sum(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal.Round(AmountPlaces)
}

// owned scopes a transaction query to the owner.
func owned(db *gorm.DB, owner uuid.UUID) *gorm.DB {
	return db.Model(&Transaction{}).Where("transactions.owner_id = ?", owner)
}

// DaySummary are the totals of one calendar day.
type DaySummary struct {
	Day     types.Date      `json:"day"`
	Debits  decimal.Decimal `json:"debits"`
	Credits decimal.Decimal `json:"credits"`
}

// DailySummary returns the debit and credit totals per day for the trailing
// days. Days without transactions are not included.
func DailySummary(db *gorm.DB, owner uuid.UUID, now time.Time, days int) ([]DaySummary, error) {
	if days <= 0 {
		days = DefaultSummaryDays
	}

	var rows []struct {
		Day     string
		Debits  decimal.NullDecimal
		Credits decimal.NullDecimal
	}

	err := owned(db, owner).
		Select("date(transactions.date) AS day, "+debitSum+" AS debits, "+creditSum+" AS credits").
		Where("datetime(transactions.date) >= datetime(?)", types.DaysBefore(now, days)).
		Group("date(transactions.date)").
		Order("day ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := make([]DaySummary, 0, len(rows))
	for _, row := range rows {
		day, err := types.ParseDate(row.Day)
		if err != nil {
			return nil, err
		}

		summary = append(summary, DaySummary{
			Day:     day,
			Debits:  sum(row.Debits),
			Credits: sum(row.Credits),
		})
	}

	return summary, nil
}

// CategoryTotal is the debit total of a category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Spent    decimal.Decimal `json:"spent"`
}

// CategoryTotals returns the debit totals per category, largest first. Only
// categories with a positive total are included. If since is nil, all
// transactions are considered.
func CategoryTotals(db *gorm.DB, owner uuid.UUID, since *time.Time, limit int) ([]CategoryTotal, error) {
	if limit <= 0 {
		limit = DefaultCategoryLimit
	}

	var rows []struct {
		Category string
		Spent    decimal.NullDecimal
	}

	q := owned(db, owner).
		Select("transactions.category, SUM(transactions.amount) AS spent").
		Where("transactions.tx_type = ?", TransactionTypeDebit)

	if since != nil {
		q = q.Where("datetime(transactions.date) >= datetime(?)", *since)
	}

	err := q.Group("transactions.category").
		Having("SUM(transactions.amount) > 0").
		Order("spent DESC, transactions.category ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]CategoryTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, CategoryTotal{Category: row.Category, Spent: sum(row.Spent)})
	}

	return totals, nil
}

// PeriodSummary are the totals of a time period.
type PeriodSummary struct {
	Debits  decimal.Decimal `json:"debits"`
	Credits decimal.Decimal `json:"credits"`
	Net     decimal.Decimal `json:"net"` // Credits minus debits
}

func newPeriodSummary(debits, credits decimal.NullDecimal) PeriodSummary {
	d, c := sum(debits), sum(credits)
	return PeriodSummary{Debits: d, Credits: c, Net: c.Sub(d)}
}

// MonthSummary returns the totals of one calendar month.
func MonthSummary(db *gorm.DB, owner uuid.UUID, month types.Month) (PeriodSummary, error) {
	window := month.Window()

	var row struct {
		Debits  decimal.NullDecimal
		Credits decimal.NullDecimal
	}

	err := owned(db, owner).
		Select(debitSum+" AS debits, "+creditSum+" AS credits").
		Where("datetime(transactions.date) >= datetime(?)", window.Start).
		Where("datetime(transactions.date) < datetime(?)", window.End).
		Find(&row).Error
	if err != nil {
		return PeriodSummary{}, err
	}

	return newPeriodSummary(row.Debits, row.Credits), nil
}

// LastMonthSummary returns the totals of the calendar month before now.
func LastMonthSummary(db *gorm.DB, owner uuid.UUID, now time.Time) (PeriodSummary, error) {
	return MonthSummary(db, owner, types.MonthOf(now).AddDate(0, -1))
}

// TopCategory returns the category with the highest debit total in the
// trailing days. ok is false if there were no debits.
func TopCategory(db *gorm.DB, owner uuid.UUID, now time.Time, days int) (top CategoryTotal, ok bool, err error) {
	if days <= 0 {
		days = DefaultTrailingDays
	}

	since := types.DaysBefore(now, days)
	totals, err := CategoryTotals(db, owner, &since, 1)
	if err != nil || len(totals) == 0 {
		return CategoryTotal{}, false, err
	}

	return totals[0], true, nil
}

// AverageDailySpend returns the mean of the daily debit totals in the trailing
// days. Only days with at least one transaction count, days without any are not
// filled with zero.
func AverageDailySpend(db *gorm.DB, owner uuid.UUID, now time.Time, days int) (decimal.Decimal, error) {
	if days <= 0 {
		days = DefaultTrailingDays
	}

	var rows []struct {
		Debits decimal.NullDecimal
	}

	err := owned(db, owner).
		Select(debitSum+" AS debits").
		Where("datetime(transactions.date) >= datetime(?)", types.DaysBefore(now, days)).
		Group("date(transactions.date)").
		Find(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}

	if len(rows) == 0 {
		return decimal.Zero, nil
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(sum(row.Debits))
	}

	return total.DivRound(decimal.NewFromInt(int64(len(rows))), AmountPlaces), nil
}

// MonthTotals are the totals of a calendar month.
type MonthTotals struct {
	Month types.Month `json:"month"`
	PeriodSummary
}

// MonthlyBreakdown returns the totals per calendar month for the given number
// of months up to and including the month of now. Months without transactions
// are not included.
func MonthlyBreakdown(db *gorm.DB, owner uuid.UUID, now time.Time, months int) ([]MonthTotals, error) {
	if months <= 0 {
		months = DefaultMonths
	}
	if months > MaxMonths {
		months = MaxMonths
	}

	start := types.MonthOf(now).AddDate(0, -(months - 1))

	var rows []struct {
		Month   string
		Debits  decimal.NullDecimal
		Credits decimal.NullDecimal
	}

	err := owned(db, owner).
		Select("strftime('%Y-%m', transactions.date) AS month, "+debitSum+" AS debits, "+creditSum+" AS credits").
		Where("datetime(transactions.date) >= datetime(?)", start.Time()).
		Group("strftime('%Y-%m', transactions.date)").
		Order("month ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := make([]MonthTotals, 0, len(rows))
	for _, row := range rows {
		month, err := types.ParseMonth(row.Month)
		if err != nil {
			return nil, err
		}

		breakdown = append(breakdown, MonthTotals{
			Month:         month,
			PeriodSummary: newPeriodSummary(row.Debits, row.Credits),
		})
	}

	return breakdown, nil
}

// RecentTransactions returns the newest transactions of owner.
func RecentTransactions(db *gorm.DB, owner uuid.UUID, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	transactions := make([]Transaction, 0)
	err := db.Where(&Transaction{OwnerID: owner}).
		Order("datetime(transactions.date) DESC, transactions.created_at DESC").
		Limit(limit).
		Find(&transactions).Error

	return transactions, err
}

// TransactionFilter narrows a transaction search. Zero fields do not filter.
type TransactionFilter struct {
	AccountIDs []uuid.UUID
	Types      []TransactionType
	Category   string     // Substring of the category
	Merchant   string     // Substring of the merchant
	From       types.Date // First day, inclusive
	To         types.Date // Last day, inclusive
	Limit      int        // At most MaxSearchResults
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains returns a LIKE pattern matching s anywhere.
func contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// SearchTransactions returns the transactions of owner matching the filter,
// newest first.
func SearchTransactions(db *gorm.DB, owner uuid.UUID, filter TransactionFilter) ([]Transaction, error) {
	limit := filter.Limit
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}

	q := db.Where(&Transaction{OwnerID: owner})

	if len(filter.AccountIDs) > 0 {
		q = q.Where("transactions.account_id IN ?", filter.AccountIDs)
	}

	if len(filter.Types) > 0 {
		q = q.Where("transactions.tx_type IN ?", filter.Types)
	}

	if c := strings.TrimSpace(filter.Category); c != "" {
		q = q.Where(`transactions.category LIKE ? ESCAPE '\'`, contains(c))
	}

	if m := strings.TrimSpace(filter.Merchant); m != "" {
		q = q.Where(`transactions.merchant LIKE ? ESCAPE '\'`, contains(m))
	}

	if !filter.From.IsZero() {
		q = q.Where("datetime(transactions.date) >= datetime(?)", filter.From.Time())
	}

	if !filter.To.IsZero() {
		q = q.Where("datetime(transactions.date) < datetime(?)", filter.To.AddDays(1).Time())
	}

	transactions := make([]Transaction, 0)
	err := q.Order("datetime(transactions.date) DESC, transactions.created_at DESC").
		Limit(limit).
		Find(&transactions).Error

	return transactions, err
}
