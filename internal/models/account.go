package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCredit   AccountType = "credit"
	AccountTypeWallet   AccountType = "wallet"
)

// Account is a place where money is held. The stored balance is maintained
// explicitly, RecomputeBalance derives it from the transaction history.
type Account struct {
	DefaultModel
	OwnerID             uuid.UUID       `json:"ownerId" gorm:"index"`
	Name                string          `json:"name" gorm:"type:varchar(100)" example:"Checking"`
	Type                AccountType     `json:"type" gorm:"type:varchar(20)" example:"checking"`
	Balance             decimal.Decimal `json:"balance" gorm:"type:NUMERIC" example:"1250.35"`
	LowBalanceThreshold decimal.Decimal `json:"lowBalanceThreshold" gorm:"type:NUMERIC" example:"100"`
}

func (Account) Self() string {
	return "Account"
}

// Normalize trims the name and defaults the type.
func (a *Account) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	if a.Type == "" {
		a.Type = AccountTypeChecking
	}
}

// Validate checks the account before it is written.
func (a Account) Validate() error {
	if a.Name == "" {
		return ErrNameEmpty
	}

	switch a.Type {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCredit, AccountTypeWallet:
	default:
		return ErrAccountTypeBad
	}

	if a.LowBalanceThreshold.IsNegative() {
		return ErrThresholdNegative
	}

	if err := checkAmount(a.Balance); err != nil {
		return err
	}

	return checkAmount(a.LowBalanceThreshold)
}

// BelowThreshold reports if the balance is below the low balance threshold.
func (a Account) BelowThreshold() bool {
	return a.Balance.LessThan(a.LowBalanceThreshold)
}

// CreateAccount validates and stores a new account.
func CreateAccount(db *gorm.DB, account *Account) error {
	account.Normalize()
	if err := account.Validate(); err != nil {
		return err
	}

	if err := db.Create(account).Error; err != nil {
		return err
	}

	return checkLowBalance(db, Account{}, *account)
}

// Accounts returns all accounts of owner ordered by name.
func Accounts(db *gorm.DB, owner uuid.UUID) ([]Account, error) {
	accounts := make([]Account, 0)
	err := db.Where(&Account{OwnerID: owner}).
		Order("accounts.name ASC, accounts.id ASC").
		Find(&accounts).Error
	return accounts, err
}

// UpdateAccount writes name, type and threshold of the account in a single
// statement scoped to its owner. previous is the state before the update and
// is used to detect a low balance crossing.
func UpdateAccount(db *gorm.DB, previous Account, account Account) (Account, error) {
	account.Normalize()
	if err := account.Validate(); err != nil {
		return Account{}, err
	}

	tx := db.Model(&Account{}).
		Where("id = ? AND owner_id = ?", account.ID, account.OwnerID).
		Select("Name", "Type", "LowBalanceThreshold").
		Updates(account)
	if tx.Error != nil {
		return Account{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return Account{}, notFound(account)
	}

	updated, err := FindOwned[Account](db, account.OwnerID, account.ID)
	if err != nil {
		return Account{}, err
	}

	return updated, checkLowBalance(db, previous, updated)
}

// SetBalance is a manual balance adjustment. No transaction is recorded.
func SetBalance(db *gorm.DB, owner, id uuid.UUID, balance decimal.Decimal) (Account, error) {
	if err := checkAmount(balance); err != nil {
		return Account{}, err
	}

	previous, err := FindOwned[Account](db, owner, id)
	if err != nil {
		return Account{}, err
	}

	tx := db.Model(&Account{}).
		Where("id = ? AND owner_id = ?", id, owner).
		Update("balance", balance)
	if tx.Error != nil {
		return Account{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return Account{}, notFound(Account{})
	}

	account, err := FindOwned[Account](db, owner, id)
	if err != nil {
		return Account{}, err
	}

	return account, checkLowBalance(db, previous, account)
}

// balanceFromTransactions is the balance derived from the transaction history.
const balanceFromTransactions = "ROUND((SELECT COALESCE(SUM(CASE WHEN transactions.tx_type = 'credit' THEN transactions.amount ELSE -transactions.amount END), 0) FROM transactions WHERE transactions.account_id = accounts.id), 8)"

// RecomputeBalance sets the stored balance to the balance derived from all
// transactions of the account.
func RecomputeBalance(db *gorm.DB, owner, id uuid.UUID) (Account, error) {
	previous, err := FindOwned[Account](db, owner, id)
	if err != nil {
		return Account{}, err
	}

	tx := db.Model(&Account{}).
		Where("id = ? AND owner_id = ?", id, owner).
		UpdateColumn("balance", gorm.Expr(balanceFromTransactions))
	if tx.Error != nil {
		return Account{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return Account{}, notFound(Account{})
	}

	account, err := FindOwned[Account](db, owner, id)
	if err != nil {
		return Account{}, err
	}

	return account, checkLowBalance(db, previous, account)
}

// BalanceDrift is the difference between the stored balance and the balance
// derived from the transactions of an account.
type BalanceDrift struct {
	AccountID uuid.UUID       `json:"accountId"`
	Name      string          `json:"name"`
	Stored    decimal.Decimal `json:"stored"`
	Derived   decimal.Decimal `json:"derived"`
	Drift     decimal.Decimal `json:"drift"`
}

// BalanceDrifts lists all accounts of owner whose stored balance differs from
// the derived balance.
func BalanceDrifts(db *gorm.DB, owner uuid.UUID) ([]BalanceDrift, error) {
	var rows []struct {
		ID      uuid.UUID
		Name    string
		Balance decimal.Decimal
		Derived decimal.NullDecimal
	}

	err := db.Model(&Account{}).
		Select("accounts.id, accounts.name, accounts.balance, "+balanceFromTransactions+" AS derived").
		Where("accounts.owner_id = ?", owner).
		Order("accounts.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	drifts := make([]BalanceDrift, 0)
	for _, row := range rows {
		derived := sum(row.Derived)
		if row.Balance.Equal(derived) {
			continue
		}

		drifts = append(drifts, BalanceDrift{
			AccountID: row.ID,
			Name:      row.Name,
			Stored:    row.Balance,
			Derived:   derived,
			Drift:     row.Balance.Sub(derived),
		})
	}

	return drifts, nil
}

// checkLowBalance appends a low_balance recommendation when the balance
// crosses below the threshold.
func checkLowBalance(db *gorm.DB, previous, current Account) error {
	if !current.BelowThreshold() {
		return nil
	}

	// Already below before, nothing crossed
	if previous.ID != uuid.Nil && previous.BelowThreshold() {
		return nil
	}

	err := AppendRecommendation(db, &Recommendation{
		OwnerID: current.OwnerID,
		Type:    RecommendationLowBalance,
		Message: fmt.Sprintf("The balance of %s is %s, below your threshold of %s.", current.Name, current.Balance.StringFixed(2), current.LowBalanceThreshold.StringFixed(2)),
	})
	if err != nil && !errors.Is(err, ErrValidation) {
		return err
	}

	return nil
}
