package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirrorbank/backend/internal/httputil"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/mirrorbank/backend/internal/types"
)

func (co Controller) RegisterAnalyticsRoutes(r *gin.RouterGroup) {
	for _, path := range []string{"/daily", "/categories", "/monthly", "/month", "/last-month", "/top-category", "/average-daily", "/recurring", "/category-drift"} {
		r.OPTIONS(path, httputil.OptionsGet)
	}

	r.GET("/daily", co.GetDailySummary)
	r.GET("/categories", co.GetCategoryTotals)
	r.GET("/monthly", co.GetMonthlyBreakdown)
	r.GET("/month", co.GetMonthSummary)
	r.GET("/last-month", co.GetLastMonthSummary)
	r.GET("/top-category", co.GetTopCategory)
	r.GET("/average-daily", co.GetAverageDailySpend)
	r.GET("/recurring", co.GetRecurring)
	r.GET("/category-drift", GetCategoryDrift)
}

// @Summary		Daily summary
// @Description	Returns the debit and credit totals per day. Days without transactions are not included.
// @Tags			Analytics
// @Produce		json
// @Success		200		{object}	DailySummaryResponse
// @Failure		400		{object}	DailySummaryResponse
// @Failure		500		{object}	DailySummaryResponse
// @Param			days	query		int	false	"Number of days to look back. Defaults to 30."
// @Router			/v1/analytics/daily [get]
func (co Controller) GetDailySummary(c *gin.Context) {
	var query QueryDays
	if err := c.ShouldBindQuery(&query); err != nil {
		e := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, DailySummaryResponse{
			Error: &e,
		})
		return
	}

	summary, err := models.DailySummary(models.DB, owner(c), co.now(), query.Days)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DailySummaryResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, DailySummaryResponse{Data: summary})
}

// @Summary		Spending by category
// @Description	Returns the debit totals per category, largest first
// @Tags			Analytics
// @Produce		json
// @Success		200		{object}	CategoryTotalsResponse
// @Failure		400		{object}	CategoryTotalsResponse
// @Failure		500		{object}	CategoryTotalsResponse
// @Param			days	query		int	false	"Number of days to look back. All transactions are considered when not set."
// @Param			limit	query		int	false	"Maximum number of categories. Defaults to 10."
// @Router			/v1/analytics/categories [get]
func (co Controller) GetCategoryTotals(c *gin.Context) {
	var query CategoryTotalsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		e := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, CategoryTotalsResponse{
			Error: &e,
		})
		return
	}

	var err error
	var totals []models.CategoryTotal
	if query.Days > 0 {
		since := types.DaysBefore(co.now(), query.Days)
		totals, err = models.CategoryTotals(models.DB, owner(c), &since, query.Limit)
	} else {
		totals, err = models.CategoryTotals(models.DB, owner(c), nil, query.Limit)
	}
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryTotalsResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, CategoryTotalsResponse{Data: totals})
}

// @Summary		Monthly breakdown
// @Description	Returns the totals per calendar month up to and including the current month.
// @Description	Months without transactions are not included.
// @Tags			Analytics
// @Produce		json
// @Success		200		{object}	MonthlyBreakdownResponse
// @Failure		400		{object}	MonthlyBreakdownResponse
// @Failure		500		{object}	MonthlyBreakdownResponse
// @Param			months	query		int	false	"Number of months, at most 24. Defaults to 6."
// @Router			/v1/analytics/monthly [get]
func (co Controller) GetMonthlyBreakdown(c *gin.Context) {
	var query MonthlyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		e := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, MonthlyBreakdownResponse{
			Error: &e,
		})
		return
	}

	months, err := models.MonthlyBreakdown(models.DB, owner(c), co.now(), query.Months)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MonthlyBreakdownResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, MonthlyBreakdownResponse{Data: months})
}

// @Summary		Month summary
// @Description	Returns the debit, credit and net totals of a calendar month
// @Tags			Analytics
// @Produce		json
// @Success		200		{object}	MonthSummaryResponse
// @Failure		400		{object}	MonthSummaryResponse
// @Failure		500		{object}	MonthSummaryResponse
// @Param			month	query		string	false	"The month as YYYY-MM. Defaults to the current month."
// @Router			/v1/analytics/month [get]
func (co Controller) GetMonthSummary(c *gin.Context) {
	var query MonthQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		e := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, MonthSummaryResponse{
			Error: &e,
		})
		return
	}

	month := query.Month
	if month.IsZero() {
		month = types.MonthOf(co.now())
	}

	co.monthSummary(c, month)
}

// @Summary		Last month summary
// @Description	Returns the debit, credit and net totals of the previous calendar month
// @Tags			Analytics
// @Produce		json
// @Success		200	{object}	MonthSummaryResponse
// @Failure		500	{object}	MonthSummaryResponse
// @Router			/v1/analytics/last-month [get]
func (co Controller) GetLastMonthSummary(c *gin.Context) {
	co.monthSummary(c, types.MonthOf(co.now()).AddDate(0, -1))
}

func (co Controller) monthSummary(c *gin.Context, month types.Month) {
	summary, err := models.MonthSummary(models.DB, owner(c), month)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MonthSummaryResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, MonthSummaryResponse{Data: &MonthSummary{
		Month:         month,
		PeriodSummary: summary,
	}})
}

// @Summary		Top category
// @Description	Returns the category with the highest debits in the trailing days
// @Tags			Analytics
// @Produce		json
// @Success		200		{object}	TopCategoryResponse
// @Failure		400		{object}	TopCategoryResponse
// @Failure		500		{object}	TopCategoryResponse
// @Param			days	query		int	false	"Number of days to look back. Defaults to 30."
// @Router			/v1/analytics/top-category [get]
func (co Controller) GetTopCategory(c *gin.Context) {
	var query QueryDays
	if err := c.ShouldBindQuery(&query); err != nil {
		e := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, TopCategoryResponse{
			Error: &e,
		})
		return
	}

	top, ok, err := models.TopCategory(models.DB, owner(c), co.now(), query.Days)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TopCategoryResponse{
			Error: &e,
		})
		return
	}

	if !ok {
		c.JSON(http.StatusOK, TopCategoryResponse{})
		return
	}

	c.JSON(http.StatusOK, TopCategoryResponse{Data: &top})
}

// @Summary		Average daily spending
// @Description	Returns the mean of the daily debit totals in the trailing days. Only days with transactions count.
// @Tags			Analytics
// @Produce		json
// @Success		200		{object}	AverageDailySpendResponse
// @Failure		400		{object}	AverageDailySpendResponse
// @Failure		500		{object}	AverageDailySpendResponse
// @Param			days	query		int	false	"Number of days to look back. Defaults to 30."
// @Router			/v1/analytics/average-daily [get]
func (co Controller) GetAverageDailySpend(c *gin.Context) {
	var query QueryDays
	if err := c.ShouldBindQuery(&query); err != nil {
		e := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, AverageDailySpendResponse{
			Error: &e,
		})
		return
	}

	days := query.Days
	if days == 0 {
		days = models.DefaultTrailingDays
	}

	average, err := models.AverageDailySpend(models.DB, owner(c), co.now(), days)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AverageDailySpendResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, AverageDailySpendResponse{Data: &AverageDailySpend{
		Days:    days,
		Average: average,
	}})
}

// @Summary		Recurring payments
// @Description	Returns merchants that were debited repeatedly in the trailing window
// @Tags			Analytics
// @Produce		json
// @Success		200			{object}	RecurringResponse
// @Failure		400			{object}	RecurringResponse
// @Failure		500			{object}	RecurringResponse
// @Param			days		query		int	false	"Length of the window in days"
// @Param			minCount	query		int	false	"Minimum number of debits"
// @Param			limit		query		int	false	"Maximum number of candidates"
// @Router			/v1/analytics/recurring [get]
func (co Controller) GetRecurring(c *gin.Context) {
	var query RecurringQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		e := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, RecurringResponse{
			Error: &e,
		})
		return
	}

	candidates, err := models.DetectRecurring(models.DB, owner(c), co.now(), query.options(co.Recurring))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecurringResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, RecurringResponse{Data: candidates})
}

// @Summary		Category drift
// @Description	Returns groups of categories that only differ in case. Budgets match categories exactly,
// @Description	so transactions in a differently spelled category do not count towards a budget.
// @Tags			Analytics
// @Produce		json
// @Success		200	{object}	CategoryDriftResponse
// @Failure		500	{object}	CategoryDriftResponse
// @Router			/v1/analytics/category-drift [get]
func GetCategoryDrift(c *gin.Context) {
	drift, err := models.CategoryDrift(models.DB, owner(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryDriftResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, CategoryDriftResponse{Data: drift})
}
