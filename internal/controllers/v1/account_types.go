package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/shopspring/decimal"
)

type AccountEditable struct {
	Name                string             `json:"name" binding:"max=100" example:"Checking"`                                                           // Name of the account
	Type                models.AccountType `json:"type" binding:"omitempty,oneof=checking savings credit wallet" example:"checking" default:"checking"` // Type of the account
	Balance             decimal.Decimal    `json:"balance" example:"1250.35" default:"0"`                                                               // Initial balance. Only used on creation, use the balance endpoint to adjust it
	LowBalanceThreshold decimal.Decimal    `json:"lowBalanceThreshold" example:"100" default:"0"`                                                       // A low_balance recommendation is added when the balance drops below this
}

// model returns the database resource for the API representation of the editable fields
func (editable AccountEditable) model(owner uuid.UUID) models.Account {
	return models.Account{
		OwnerID:             owner,
		Name:                editable.Name,
		Type:                editable.Type,
		Balance:             editable.Balance,
		LowBalanceThreshold: editable.LowBalanceThreshold,
	}
}

type AccountLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                      // The account itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?accounts=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // Transactions of the account
	Balance      string `json:"balance" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/balance"`           // Manual balance adjustment
	Recompute    string `json:"recompute" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/recompute"`       // Recompute the balance from the transactions
}

// Account is the API v1 representation of an Account.
type Account struct {
	models.DefaultModel
	AccountEditable
	Links AccountLinks `json:"links"`
}

// newAccount returns the API v1 representation of the resource
func newAccount(c *gin.Context, model models.Account) Account {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/accounts/%s", url, model.ID)

	return Account{
		DefaultModel: model.DefaultModel,
		AccountEditable: AccountEditable{
			Name:                model.Name,
			Type:                model.Type,
			Balance:             model.Balance,
			LowBalanceThreshold: model.LowBalanceThreshold,
		},
		Links: AccountLinks{
			Self:         self,
			Transactions: fmt.Sprintf("%s/v1/transactions?accounts=%s", url, model.ID),
			Balance:      self + "/balance",
			Recompute:    self + "/recompute",
		},
	}
}

type AccountListResponse struct {
	Data  []Account `json:"data"`                                                          // List of accounts
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AccountCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []AccountResponse `json:"data"`                                                          // List of created Accounts
}

func (a *AccountCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AccountResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AccountResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this Account
	Data  *Account `json:"data"`                                                          // The Account data, if creation was successful
}

// AccountBalance is the body of a manual balance adjustment.
type AccountBalance struct {
	Balance decimal.Decimal `json:"balance" example:"1020.50"` // The new balance
}

type BalanceDriftListResponse struct {
	Data  []models.BalanceDrift `json:"data"`                                                          // Accounts whose stored balance differs from their transactions
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
