package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/mirrorbank/backend/internal/types"
	"github.com/shopspring/decimal"
)

type GoalEditable struct {
	Name         string          `json:"name" binding:"max=100" example:"Emergency fund"`                          // Name of the goal
	TargetAmount decimal.Decimal `json:"targetAmount" example:"5000" minimum:"0.00000001" multipleOf:"0.00000001"` // Amount to save
	TargetDate   types.Date      `json:"targetDate" example:"2024-12-31"`                                          // Day the goal should be reached by, if any
}

// model returns the database resource for the API representation of the editable fields
func (editable GoalEditable) model(owner uuid.UUID) models.Goal {
	return models.Goal{
		OwnerID:      owner,
		Name:         editable.Name,
		TargetAmount: editable.TargetAmount,
		TargetDate:   editable.TargetDate,
	}
}

type GoalLinks struct {
	Self          string `json:"self" example:"https://example.com/api/v1/goals/d8bbb6a3-9e53-4ab5-b6e2-3af3a4c2b8b1"`                        // The goal itself
	Contributions string `json:"contributions" example:"https://example.com/api/v1/goals/d8bbb6a3-9e53-4ab5-b6e2-3af3a4c2b8b1/contributions"` // Contribute to the goal
}

// Goal is the API v1 representation of a Goal with its progress.
type Goal struct {
	models.DefaultModel
	GoalEditable
	Contributed decimal.Decimal `json:"contributed" example:"1250"` // Sum of credits tagged with the goal
	Remaining   decimal.Decimal `json:"remaining" example:"3750"`   // Never negative
	Progress    decimal.Decimal `json:"progress" example:"25"`      // Percent of the target, rounded to two decimals
	Links       GoalLinks       `json:"links"`
}

// newGoal returns the API v1 representation of the resource
func newGoal(c *gin.Context, model models.GoalProgress) Goal {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/goals/%s", url, model.ID)

	return Goal{
		DefaultModel: model.DefaultModel,
		GoalEditable: GoalEditable{
			Name:         model.Name,
			TargetAmount: model.TargetAmount,
			TargetDate:   model.TargetDate,
		},
		Contributed: model.Contributed,
		Remaining:   model.Remaining,
		Progress:    model.Progress,
		Links: GoalLinks{
			Self:          self,
			Contributions: self + "/contributions",
		},
	}
}

type GoalListResponse struct {
	Data  []Goal  `json:"data"`                                                          // List of goals
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type GoalCreateResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []GoalResponse `json:"data"`                                                          // List of created goals
}

func (g *GoalCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	g.Data = append(g.Data, GoalResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type GoalResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this goal
	Data  *Goal   `json:"data"`                                                          // The goal data, if creation was successful
}

// ContributionEditable is a payment towards a goal.
type ContributionEditable struct {
	AccountID uuid.UUID       `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`          // The account the contribution is recorded on
	Amount    decimal.Decimal `json:"amount" example:"250" minimum:"0.00000001" multipleOf:"0.00000001"` // The amount of the contribution
	Notes     string          `json:"notes" example:"March savings" default:""`                          // Notes
}

func (editable ContributionEditable) model() models.Contribution {
	return models.Contribution{
		AccountID: editable.AccountID,
		Amount:    editable.Amount,
		Notes:     editable.Notes,
	}
}
