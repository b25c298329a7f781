package v1

import (
	"github.com/mirrorbank/backend/internal/models"
	"github.com/mirrorbank/backend/internal/types"
	"github.com/shopspring/decimal"
)

// QueryDays is the length of a trailing window in days.
type QueryDays struct {
	Days int `form:"days" binding:"min=0,max=3660"` // Number of days to look back. The default depends on the endpoint.
}

type CategoryTotalsQuery struct {
	Days  int `form:"days" binding:"min=0,max=3660"` // Number of days to look back. All transactions are considered when not set.
	Limit int `form:"limit" binding:"min=0"`         // Maximum number of categories. Defaults to 10.
}

type MonthlyQuery struct {
	Months int `form:"months" binding:"min=0,max=24"` // Number of months up to and including the current month. Defaults to 6.
}

type MonthQuery struct {
	Month types.Month `form:"month"` // The month as YYYY-MM. Defaults to the current month.
}

type RecurringQuery struct {
	Days     int `form:"days" binding:"min=0,max=3660"` // Length of the window in days. Defaults to the server configuration.
	MinCount int `form:"minCount" binding:"min=0"`      // Minimum number of debits. Defaults to the server configuration.
	Limit    int `form:"limit" binding:"min=0"`         // Maximum number of candidates. No limit when not set.
}

// options returns the server defaults overridden by the query.
func (q RecurringQuery) options(defaults models.RecurringOptions) models.RecurringOptions {
	o := defaults
	if o.Days == 0 && o.MinCount == 0 {
		o = models.DefaultRecurringOptions
	}
	if q.Days > 0 {
		o.Days = q.Days
	}
	if q.MinCount > 0 {
		o.MinCount = q.MinCount
	}
	if q.Limit > 0 {
		o.Limit = q.Limit
	}
	return o
}

type DailySummaryResponse struct {
	Data  []models.DaySummary `json:"data"`                                                          // Totals per day, oldest first
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CategoryTotalsResponse struct {
	Data  []models.CategoryTotal `json:"data"`                                                          // Debit totals per category, largest first
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type MonthlyBreakdownResponse struct {
	Data  []models.MonthTotals `json:"data"`                                                          // Totals per month, oldest first
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// MonthSummary is the summary of a calendar month.
type MonthSummary struct {
	Month types.Month `json:"month" example:"2024-02"`
	models.PeriodSummary
}

type MonthSummaryResponse struct {
	Data  *MonthSummary `json:"data"`                                                          // Totals of the month
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TopCategoryResponse struct {
	Data  *models.CategoryTotal `json:"data"`                                                          // The category with the highest debits. null if there were no debits
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// AverageDailySpend is the mean of the daily debit totals.
type AverageDailySpend struct {
	Days    int             `json:"days" example:"30"`       // Length of the trailing window
	Average decimal.Decimal `json:"average" example:"42.17"` // Mean of the daily debit totals of days with transactions
}

type AverageDailySpendResponse struct {
	Data  *AverageDailySpend `json:"data"`
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type RecurringResponse struct {
	Data  []models.RecurringCandidate `json:"data"`                                                          // Recurring payment candidates, most frequent first
	Error *string                     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CategoryDriftResponse struct {
	Data  []models.CategoryVariants `json:"data"`                                                          // Categories that only differ in case
	Error *string                   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
