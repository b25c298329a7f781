package v1

import (
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/mirrorbank/backend/internal/types"
	"github.com/shopspring/decimal"
)

type BudgetEditable struct {
	Category    string          `json:"category" binding:"max=100" example:"Groceries"`                                      // The category the budget limits
	Period      models.Period   `json:"period" binding:"omitempty,oneof=weekly monthly" example:"monthly" default:"monthly"` // Length of the budget window
	LimitAmount decimal.Decimal `json:"limitAmount" example:"400" minimum:"0.00000001" multipleOf:"0.00000001"`              // Maximum spending in the window
	StartDate   types.Date      `json:"startDate" example:"2024-03-01"`                                                      // First day of the window
}

// model returns the database resource for the API representation of the editable fields
func (editable BudgetEditable) model(owner uuid.UUID) models.Budget {
	return models.Budget{
		OwnerID:     owner,
		Category:    editable.Category,
		Period:      editable.Period,
		LimitAmount: editable.LimitAmount,
		StartDate:   editable.StartDate,
	}
}

type BudgetLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/budgets/5b9f4a4e-9f2b-4d7e-a6a3-6d1c1e1f7b1f"`                          // The budget itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?category=Groceries&from=2024-03-01&to=2024-03-31"` // Debits counting towards the budget
}

// Budget is the API v1 representation of a Budget with its progress.
type Budget struct {
	models.DefaultModel
	BudgetEditable
	AlertLevel models.AlertLevel `json:"alertLevel" example:"warning"` // The highest alert level reached in the current window
	Window     types.Window      `json:"window"`                       // The window the budget covers
	Spent      decimal.Decimal   `json:"spent" example:"328.40"`       // Sum of debits in the category inside the window
	Remaining  decimal.Decimal   `json:"remaining" example:"71.60"`    // Negative when overspent
	Progress   decimal.Decimal   `json:"progress" example:"82.10"`     // Percent of the limit, rounded to two decimals
	Links      BudgetLinks       `json:"links"`
}

// newBudget returns the API v1 representation of the resource
func newBudget(c *gin.Context, model models.BudgetProgress) Budget {
	base := c.GetString(string(models.DBContextURL))

	return Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			Category:    model.Category,
			Period:      model.Period,
			LimitAmount: model.LimitAmount,
			StartDate:   model.StartDate,
		},
		AlertLevel: model.AlertLevel,
		Window:     model.Window,
		Spent:      model.Spent,
		Remaining:  model.Remaining,
		Progress:   model.Progress,
		Links: BudgetLinks{
			Self: fmt.Sprintf("%s/v1/budgets/%s", base, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?types=debit&category=%s&from=%s&to=%s",
				base, url.QueryEscape(model.Category), types.DateOf(model.Window.Start), types.DateOf(model.Window.End).AddDays(-1)),
		},
	}
}

type BudgetListResponse struct {
	Data  []Budget `json:"data"`                                                          // List of budgets
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BudgetCreateResponse struct {
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []BudgetResponse `json:"data"`                                                          // List of created budgets
}

func (b *BudgetCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	b.Data = append(b.Data, BudgetResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BudgetResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this budget
	Data  *Budget `json:"data"`                                                          // The budget data, if creation was successful
}

// BudgetLimit is the body of a budget update. Only the limit can be changed.
type BudgetLimit struct {
	LimitAmount decimal.Decimal `json:"limitAmount" example:"450"` // The new limit
}

type AlertListResponse struct {
	Data  []models.AlertFeedItem `json:"data"`                                                          // Alerts, newest first
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
