package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/mirrorbank/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAverageDailySpend() {
	account := suite.createTestAccount(models.Account{})

	// Activity on 5 of the 30 days
	for i, amount := range []int64{10, 20, 30, 40, 50} {
		suite.createTestTransaction(models.Transaction{AccountID: account.ID, Amount: decimal.NewFromInt(amount), Date: day(2024, 3, 1+i)})
	}

	// Outside of the window
	suite.createTestTransaction(models.Transaction{AccountID: account.ID, Amount: decimal.NewFromInt(1000), Date: day(2024, 1, 10)})

	average, err := models.AverageDailySpend(models.DB, suite.owner, now, 30)
	suite.Require().Nil(err)
	suite.Assert().True(decimal.NewFromInt(30).Equal(average), "Average is %s", average)
}

func (suite *TestSuiteStandard) TestAverageDailySpendCreditDays() {
	account := suite.createTestAccount(models.Account{})
	suite.createTestTransaction(models.Transaction{AccountID: account.ID, Amount: decimal.NewFromInt(30), Date: day(2024, 3, 1)})
	suite.createTestTransaction(models.Transaction{AccountID: account.ID, Type: models.TransactionTypeCredit, Amount: decimal.NewFromInt(500), Date: day(2024, 3, 2)})

	// A day with only credits has activity and counts with zero debits
	average, err := models.AverageDailySpend(models.DB, suite.owner, now, 0)
	suite.Require().Nil(err)
	suite.Assert().True(decimal.NewFromInt(15).Equal(average), "Average is %s", average)
}

func (suite *TestSuiteStandard) TestAverageDailySpendEmpty() {
	average, err := models.AverageDailySpend(models.DB, suite.owner, now, 30)
	suite.Require().Nil(err)
	suite.Assert().True(average.IsZero())
}

func (suite *TestSuiteStandard) TestDailySummary() {
	account := suite.createTestAccount(models.Account{})
	suite.createTestTransaction(models.Transaction{AccountID: account.ID, Amount: decimal.RequireFromString("10.5"), Date: day(2024, 3, 2)})
	suite.createTestTransaction(models.Transaction{AccountID: account.ID, Amount: decimal.RequireFromString("4.5"), Date: day(2024, 3, 2)})
	suite.createTestTransaction(models.Transaction{AccountID: account.ID, Type: models.TransactionTypeCredit, Amount: decimal.NewFromInt(100), Date: day(2024, 3, 2)})
	suite.createTestTransaction(models.Transaction{AccountID: account.ID, Type: models.TransactionTypeCredit, Amount: decimal.NewFromInt(7), Date: day(2024, 3, 1)})
	suite.createTestTransaction(models.Transaction{AccountID: account.ID, Amount: decimal.NewFromInt(99), Date: day(2024, 2, 1)})

	summary, err := models.DailySummary(models.DB, suite.owner, now, 30)
	suite.Require().Nil(err)
	suite.Require().Len(summary, 2)

	suite.Assert().Equal(types.NewDate(2024, 3, 1), summary[0].Day)
	suite.Assert().True(summary[0].Debits.IsZero())
	suite.Assert().True(decimal.NewFromInt(7).Equal(summary[0].Credits))

	suite.Assert().Equal(types.NewDate(2024, 3, 2), summary[1].Day)
	suite.Assert().True(decimal.NewFromInt(15).Equal(summary[1].Debits), "Debits are %s", summary[1].Debits)
	suite.Assert().True(decimal.NewFromInt(100).Equal(summary[1].Credits))
}

func (suite *TestSuiteStandard) TestCategoryTotals() {
	account := suite.createTestAccount(models.Account{})
	for _, tx := range []models.Transaction{
		{Category: "Rent", Amount: decimal.NewFromInt(900), Date: day(2024, 3, 1)},
		{Category: "Food", Amount: decimal.NewFromInt(50), Date: day(2024, 3, 2)},
		{Category: "Food", Amount: decimal.NewFromInt(25), Date: day(2024, 3, 3)},
		{Category: "Fun", Amount: decimal.NewFromInt(20), Date: day(2024, 1, 3)},
		{Category: "Salary", Amount: decimal.NewFromInt(3000), Date: day(2024, 3, 1), Type: models.TransactionTypeCredit},
	} {
		tx.AccountID = account.ID
		suite.createTestTransaction(tx)
	}

	totals, err := models.CategoryTotals(models.DB, suite.owner, nil, 0)
	suite.Require().Nil(err)
	suite.Require().Len(totals, 3)
	suite.Assert().Equal("Rent", totals[0].Category)
	suite.Assert().Equal("Food", totals[1].Category)
	suite.Assert().True(decimal.NewFromInt(75).Equal(totals[1].Spent))
	suite.Assert().Equal("Fun", totals[2].Category)

	since := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	totals, err = models.CategoryTotals(models.DB, suite.owner, &since, 0)
	suite.Require().Nil(err)
	suite.Require().Len(totals, 1)
	suite.Assert().Equal("Food", totals[0].Category)

	totals, err = models.CategoryTotals(models.DB, suite.owner, nil, 1)
	suite.Require().Nil(err)
	suite.Assert().Len(totals, 1)

	top, ok, err := models.TopCategory(models.DB, suite.owner, now, 30)
	suite.Require().Nil(err)
	suite.Assert().True(ok)
	suite.Assert().Equal("Rent", top.Category)

	_, ok, err = models.TopCategory(models.DB, uuid.New(), now, 30)
	suite.Require().Nil(err)
	suite.Assert().False(ok)
}

func (suite *TestSuiteStandard) TestMonthSummary() {
	account := suite.createTestAccount(models.Account{})
	for _, tx := range []models.Transaction{
		{Amount: decimal.NewFromInt(100), Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Amount: decimal.NewFromInt(50), Date: time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)},
		{Amount: decimal.NewFromInt(1000), Type: models.TransactionTypeCredit, Date: day(2024, 2, 15)},
		{Amount: decimal.NewFromInt(7), Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	} {
		tx.AccountID = account.ID
		suite.createTestTransaction(tx)
	}

	summary, err := models.LastMonthSummary(models.DB, suite.owner, now)
	suite.Require().Nil(err)
	suite.Assert().True(decimal.NewFromInt(150).Equal(summary.Debits), "Debits are %s", summary.Debits)
	suite.Assert().True(decimal.NewFromInt(1000).Equal(summary.Credits))
	suite.Assert().True(decimal.NewFromInt(850).Equal(summary.Net))

	summary, err = models.MonthSummary(models.DB, suite.owner, types.NewMonth(2024, 3))
	suite.Require().Nil(err)
	suite.Assert().True(decimal.NewFromInt(7).Equal(summary.Debits))
	suite.Assert().True(decimal.NewFromInt(-7).Equal(summary.Net))

	summary, err = models.MonthSummary(models.DB, suite.owner, types.NewMonth(2023, 3))
	suite.Require().Nil(err)
	suite.Assert().True(summary.Debits.IsZero())
	suite.Assert().True(summary.Credits.IsZero())
}

func (suite *TestSuiteStandard) TestMonthlyBreakdown() {
	account := suite.createTestAccount(models.Account{})
	for _, tx := range []models.Transaction{
		{Amount: decimal.NewFromInt(10), Date: day(2023, 12, 5)},
		{Amount: decimal.NewFromInt(20), Date: day(2024, 1, 5)},
		{Amount: decimal.NewFromInt(30), Type: models.TransactionTypeCredit, Date: day(2024, 1, 6)},
		{Amount: decimal.NewFromInt(40), Date: day(2024, 3, 5)},
	} {
		tx.AccountID = account.ID
		suite.createTestTransaction(tx)
	}

	breakdown, err := models.MonthlyBreakdown(models.DB, suite.owner, now, 3)
	suite.Require().Nil(err)
	suite.Require().Len(breakdown, 2, "December is outside, February has no transactions")

	suite.Assert().Equal(types.NewMonth(2024, 1), breakdown[0].Month)
	suite.Assert().True(decimal.NewFromInt(20).Equal(breakdown[0].Debits))
	suite.Assert().True(decimal.NewFromInt(30).Equal(breakdown[0].Credits))
	suite.Assert().True(decimal.NewFromInt(10).Equal(breakdown[0].Net))
	suite.Assert().Equal(types.NewMonth(2024, 3), breakdown[1].Month)

	breakdown, err = models.MonthlyBreakdown(models.DB, suite.owner, now, 0)
	suite.Require().Nil(err)
	suite.Assert().Len(breakdown, 3)
}

func (suite *TestSuiteStandard) TestRecentTransactions() {
	account := suite.createTestAccount(models.Account{})
	for d := 1; d <= 5; d++ {
		suite.createTestTransaction(models.Transaction{AccountID: account.ID, Notes: types.NewDate(2024, 3, d).String(), Date: day(2024, 3, d)})
	}

	recent, err := models.RecentTransactions(models.DB, suite.owner, 3)
	suite.Require().Nil(err)
	suite.Require().Len(recent, 3)
	suite.Assert().Equal("2024-03-05", recent[0].Notes)
	suite.Assert().Equal("2024-03-03", recent[2].Notes)
}

func (suite *TestSuiteStandard) TestSearchTransactions() {
	checking := suite.createTestAccount(models.Account{})
	savings := suite.createTestAccount(models.Account{Type: models.AccountTypeSavings})

	for _, tx := range []models.Transaction{
		{AccountID: checking.ID, Category: "Shopping", Merchant: merchant("Amazon"), Date: day(2024, 3, 1)},
		{AccountID: checking.ID, Category: "50%_off", Merchant: merchant("Outlet"), Date: day(2024, 3, 2)},
		{AccountID: checking.ID, Category: "500 off", Merchant: merchant("Outlet"), Date: day(2024, 3, 3)},
		{AccountID: savings.ID, Category: "Interest", Type: models.TransactionTypeCredit, Date: day(2024, 3, 4)},
		{AccountID: savings.ID, Category: "Shopping", Date: day(2024, 3, 5)},
	} {
		suite.createTestTransaction(tx)
	}

	tests := []struct {
		name   string
		filter models.TransactionFilter
		count  int
	}{
		{"No filter", models.TransactionFilter{}, 5},
		{"Account", models.TransactionFilter{AccountIDs: []uuid.UUID{savings.ID}}, 2},
		{"Accounts", models.TransactionFilter{AccountIDs: []uuid.UUID{savings.ID, checking.ID}}, 5},
		{"Type", models.TransactionFilter{Types: []models.TransactionType{models.TransactionTypeCredit}}, 1},
		{"Category substring", models.TransactionFilter{Category: "hop"}, 2},
		{"Percent is literal", models.TransactionFilter{Category: "0%"}, 1},
		{"Underscore is literal", models.TransactionFilter{Category: "%_"}, 1},
		{"Merchant substring", models.TransactionFilter{Merchant: "mazo"}, 1},
		{"From", models.TransactionFilter{From: types.NewDate(2024, 3, 4)}, 2},
		{"Inclusive range", models.TransactionFilter{From: types.NewDate(2024, 3, 2), To: types.NewDate(2024, 3, 3)}, 2},
		{"Combined", models.TransactionFilter{AccountIDs: []uuid.UUID{checking.ID}, Merchant: "Outlet", To: types.NewDate(2024, 3, 2)}, 1},
		{"Limit", models.TransactionFilter{Limit: 2}, 2},
		{"Limit above the cap", models.TransactionFilter{Limit: models.MaxSearchResults + 1}, 5},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			transactions, err := models.SearchTransactions(models.DB, suite.owner, tt.filter)
			assert.Nil(t, err)
			assert.Len(t, transactions, tt.count)
		})
	}

	transactions, err := models.SearchTransactions(models.DB, uuid.New(), models.TransactionFilter{})
	suite.Require().Nil(err)
	suite.Assert().Len(transactions, 0)
}
