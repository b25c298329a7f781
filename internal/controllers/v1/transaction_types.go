package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/mirrorbank/backend/internal/types"
	mb_uuid "github.com/mirrorbank/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

type TransactionEditable struct {
	AccountID uuid.UUID              `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`            // ID of the account
	Amount    decimal.Decimal        `json:"amount" example:"14.03" minimum:"0.00000001" multipleOf:"0.00000001"` // The amount of the transaction, always positive
	Type      models.TransactionType `json:"type" binding:"omitempty,oneof=debit credit" example:"debit"`         // Debits reduce, credits increase the account balance
	Category  string                 `json:"category" binding:"max=100" example:"Groceries"`                      // Category. Set by category rules when empty
	Merchant  *string                `json:"merchant" binding:"omitempty,max=120" example:"Corner Store"`         // Merchant, if any
	Notes     string                 `json:"notes" example:"Weekly shopping" default:""`                          // Notes
	Date      time.Time              `json:"date" example:"2024-03-14T18:43:00Z"`                                 // Time of the transaction. Defaults to now
	GoalID    *uuid.UUID             `json:"goalId" example:"d8bbb6a3-9e53-4ab5-b6e2-3af3a4c2b8b1"`               // ID of the goal this transaction contributes to
}

// model returns the database resource for the API representation of the editable fields
func (editable TransactionEditable) model(owner uuid.UUID) models.Transaction {
	return models.Transaction{
		OwnerID:   owner,
		AccountID: editable.AccountID,
		Amount:    editable.Amount,
		Type:      editable.Type,
		Category:  editable.Category,
		Merchant:  editable.Merchant,
		Notes:     editable.Notes,
		Date:      editable.Date,
		GoalID:    editable.GoalID,
	}
}

type TransactionLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"`    // The transaction itself
	Account string `json:"account" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`     // The account of the transaction
	Goal    string `json:"goal,omitempty" example:"https://example.com/api/v1/goals/d8bbb6a3-9e53-4ab5-b6e2-3af3a4c2b8b1"` // The goal, if the transaction is a contribution
}

// Transaction is the API v1 representation of a Transaction.
type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`
}

// newTransaction returns the API v1 representation of the resource
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	links := TransactionLinks{
		Self:    fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		Account: fmt.Sprintf("%s/v1/accounts/%s", url, model.AccountID),
	}
	if model.GoalID != nil {
		links.Goal = fmt.Sprintf("%s/v1/goals/%s", url, *model.GoalID)
	}

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			AccountID: model.AccountID,
			Amount:    model.Amount,
			Type:      model.Type,
			Category:  model.Category,
			Merchant:  model.Merchant,
			Notes:     model.Notes,
			Date:      model.Date,
			GoalID:    model.GoalID,
		},
		Links: links,
	}
}

// newTransactions returns the API v1 representation of all resources
func newTransactions(c *gin.Context, transactions []models.Transaction) []Transaction {
	data := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		data = append(data, newTransaction(c, t))
	}
	return data
}

type TransactionListResponse struct {
	Data  []Transaction `json:"data"`                                                          // List of transactions
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TransactionCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TransactionResponse `json:"data"`                                                          // List of created transactions
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this transaction
	Data  *Transaction `json:"data"`                                                          // The transaction data, if creation was successful
}

type TransactionQueryFilter struct {
	Accounts mb_uuid.List `form:"accounts"`              // Comma separated account IDs
	Types    string       `form:"types"`                 // Comma separated transaction types
	Category string       `form:"category"`              // Substring of the category
	Merchant string       `form:"merchant"`              // Substring of the merchant
	From     types.Date   `form:"from"`                  // First day, inclusive, as YYYY-MM-DD
	To       types.Date   `form:"to"`                    // Last day, inclusive, as YYYY-MM-DD
	Limit    int          `form:"limit" binding:"min=0"` // Maximum number of transactions to return. Defaults to and is capped at 500.
}

func (f TransactionQueryFilter) model() (models.TransactionFilter, error) {
	filter := models.TransactionFilter{
		AccountIDs: f.Accounts,
		Category:   f.Category,
		Merchant:   f.Merchant,
		From:       f.From,
		To:         f.To,
		Limit:      f.Limit,
	}

	if f.Types != "" {
		for _, s := range strings.Split(f.Types, ",") {
			t := models.TransactionType(strings.TrimSpace(s))
			if t != models.TransactionTypeDebit && t != models.TransactionTypeCredit {
				return models.TransactionFilter{}, errTransactionType
			}
			filter.Types = append(filter.Types, t)
		}
	}

	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return models.TransactionFilter{}, errDateRangeInvalid
	}

	return filter, nil
}
