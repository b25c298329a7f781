package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
)

// GoalSavingsCategory is the category of transactions created by goal contributions.
const GoalSavingsCategory = "Goal Savings"

// Transaction is a single money movement on an account. Debits reduce, credits
// increase the balance. The amount is always a positive magnitude.
type Transaction struct {
	DefaultModel
	OwnerID   uuid.UUID       `json:"ownerId" gorm:"index"`
	AccountID uuid.UUID       `json:"accountId" gorm:"index"`
	Account   Account         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:NUMERIC;check:transaction_amount_positive,amount > 0"`
	Type      TransactionType `json:"type" gorm:"column:tx_type;type:varchar(10);index"`
	Category  string          `json:"category" gorm:"type:varchar(100);index"`
	Merchant  *string         `json:"merchant" gorm:"type:varchar(120)"`
	Notes     string          `json:"notes"`
	Date      time.Time       `json:"date" gorm:"index"`
	GoalID    *uuid.UUID      `json:"goalId" gorm:"index"`
	Goal      *Goal           `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}

func (Transaction) Self() string {
	return "Transaction"
}

// AfterFind updates the timestamps to use UTC as timezone.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	if err := t.DefaultModel.AfterFind(tx); err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return nil
}

// Normalize trims text fields, drops empty merchants and moves the
// date to UTC. A missing date defaults to now.
func (t *Transaction) Normalize(now time.Time) {
	t.Category = strings.TrimSpace(t.Category)
	t.Notes = strings.TrimSpace(t.Notes)

	if t.Merchant != nil {
		m := strings.TrimSpace(*t.Merchant)
		if m == "" {
			t.Merchant = nil
		} else {
			t.Merchant = &m
		}
	}

	if t.GoalID != nil && *t.GoalID == uuid.Nil {
		t.GoalID = nil
	}

	if t.Date.IsZero() {
		t.Date = now
	}
	t.Date = t.Date.UTC()
}

// Validate checks the transaction before it is written.
func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if err := checkAmount(t.Amount); err != nil {
		return err
	}

	if t.Type != TransactionTypeDebit && t.Type != TransactionTypeCredit {
		return ErrTransactionTypeBad
	}

	if t.Category == "" {
		return ErrCategoryEmpty
	}

	if t.AccountID == uuid.Nil {
		return ErrAccountMissing
	}

	return nil
}

// MerchantName returns the merchant or the empty string.
func (t Transaction) MerchantName() string {
	if t.Merchant == nil {
		return ""
	}
	return *t.Merchant
}

// checkReferences verifies that the account and goal belong to the same owner.
func (t Transaction) checkReferences(db *gorm.DB) error {
	if _, err := FindOwned[Account](db, t.OwnerID, t.AccountID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrReferenceMissing
		}
		return err
	}

	if t.GoalID != nil {
		if _, err := FindOwned[Goal](db, t.OwnerID, *t.GoalID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrReferenceMissing
			}
			return err
		}
	}

	return nil
}

// CreateTransaction validates and stores a new transaction. If the category is
// empty and a category rule matches the merchant, the rule's category is used.
//
// The account balance is not changed.
func CreateTransaction(db *gorm.DB, t *Transaction, now time.Time) error {
	t.Normalize(now)

	if merchant := t.MerchantName(); t.Category == "" && merchant != "" {
		category, ok, err := CategoryFor(db, t.OwnerID, merchant)
		if err != nil {
			return err
		}
		if ok {
			t.Category = category
		}
	}

	if err := t.Validate(); err != nil {
		return err
	}

	if err := t.checkReferences(db); err != nil {
		return err
	}

	return db.Create(t).Error
}

// UpdateTransaction writes all editable fields of the transaction in a single
// statement scoped to its owner.
func UpdateTransaction(db *gorm.DB, t Transaction, now time.Time) (Transaction, error) {
	t.Normalize(now)
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}

	if err := t.checkReferences(db); err != nil {
		return Transaction{}, err
	}

	tx := db.Model(&Transaction{}).
		Where("id = ? AND owner_id = ?", t.ID, t.OwnerID).
		Select("AccountID", "Amount", "Type", "Category", "Merchant", "Notes", "Date", "GoalID").
		Updates(t)
	if tx.Error != nil {
		return Transaction{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return Transaction{}, notFound(t)
	}

	return FindOwned[Transaction](db, t.OwnerID, t.ID)
}
