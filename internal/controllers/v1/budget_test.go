package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/controllers/v1"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/mirrorbank/backend/internal/types"
	"github.com/mirrorbank/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestBudgetsOptions verifies that the HTTP OPTIONS response for /v1/budgets/{id} is correct.
func (suite *TestSuiteStandard) TestBudgetsOptions() {
	tests := []struct {
		name     string        // Name for the test
		status   int           // Expected HTTP status
		id       string        // String to use as ID. Ignored when pathFunc is non-nil
		pathFunc func() string // Function returning the path
	}{
		{
			"Does not exist",
			http.StatusNotFound,
			uuid.New().String(),
			nil,
		},
		{
			"Invalid UUID",
			http.StatusBadRequest,
			"NotParseableAsUUID",
			nil,
		},
		{
			"Success",
			http.StatusNoContent,
			"",
			func() string {
				return createTestBudget(suite.T(), v1.BudgetEditable{}).Data.Links.Self
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var p string
			if tt.pathFunc != nil {
				p = tt.pathFunc()
			} else {
				p = fmt.Sprintf("%s/%s", "http://example.com/v1/budgets", tt.id)
			}

			r := test.Request(t, http.MethodOptions, p, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestBudgetsDatabaseError verifies that the endpoints return the appropriate
// error when the database is disconnected.
func (suite *TestSuiteStandard) TestBudgetsDatabaseError() {
	tests := []struct {
		name   string // Name of the test
		path   string // Path to send request to
		method string // HTTP method to use
		body   string // The request body
	}{
		{"GET Collection", "", http.MethodGet, ""},
		{"GET Alerts", "/alerts", http.MethodGet, ""},
		{"OPTIONS Single", fmt.Sprintf("/%s", uuid.New().String()), http.MethodOptions, ""},
		{"GET Single", fmt.Sprintf("/%s", uuid.New().String()), http.MethodGet, ""},
		{"PATCH Single", fmt.Sprintf("/%s", uuid.New().String()), http.MethodPatch, `{ "limitAmount": "20" }`},
		{"DELETE Single", fmt.Sprintf("/%s", uuid.New().String()), http.MethodDelete, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			recorder := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/budgets%s", tt.path), tt.body)
			test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

			var response v1.BudgetListResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.Equal(t, models.ErrGeneral.Error(), *response.Error)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetsCreate() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{
		Category:    "Groceries",
		LimitAmount: decimal.NewFromInt(400),
		StartDate:   types.NewDate(2024, time.March, 1),
	})

	assert.Equal(suite.T(), models.PeriodMonthly, budget.Data.Period, "period must default to monthly")
	assert.Equal(suite.T(), models.AlertLevelNone, budget.Data.AlertLevel)
	assert.True(suite.T(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Equal(budget.Data.Window.Start))
	assert.True(suite.T(), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC).Equal(budget.Data.Window.End))
	assert.True(suite.T(), decimal.NewFromInt(400).Equal(budget.Data.Remaining), budget.Data.Remaining.String())
	assert.Equal(suite.T(), fmt.Sprintf("http://example.com/v1/budgets/%s", budget.Data.ID), budget.Data.Links.Self)
	assert.Equal(suite.T(), "http://example.com/v1/transactions?types=debit&category=Groceries&from=2024-03-01&to=2024-03-31", budget.Data.Links.Transactions)

	weekly := createTestBudget(suite.T(), v1.BudgetEditable{
		Category:  "Eating out",
		Period:    models.PeriodWeekly,
		StartDate: types.NewDate(2024, time.March, 11),
	})
	assert.True(suite.T(), time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC).Equal(weekly.Data.Window.End))
	assert.Equal(suite.T(), "http://example.com/v1/transactions?types=debit&category=Eating+out&from=2024-03-11&to=2024-03-17", weekly.Data.Links.Transactions)
}

func (suite *TestSuiteStandard) TestBudgetsCreateFail() {
	createTestBudget(suite.T(), v1.BudgetEditable{Category: "Groceries"})

	tests := []struct {
		name   string
		body   any
		status int
		err    string
	}{
		{
			"Duplicate",
			[]v1.BudgetEditable{{Category: "Groceries", LimitAmount: decimal.NewFromInt(5), StartDate: types.NewDate(2024, time.March, 1)}},
			http.StatusConflict,
			models.ErrBudgetNotUnique.Error(),
		},
		{
			"No start date",
			`[{ "category": "Rent", "limitAmount": "900" }]`,
			http.StatusBadRequest,
			models.ErrStartDateMissing.Error(),
		},
		{
			"Limit not positive",
			`[{ "category": "Rent", "limitAmount": "0", "startDate": "2024-03-01" }]`,
			http.StatusBadRequest,
			models.ErrLimitNotPositive.Error(),
		},
		{
			"No category",
			`[{ "category": " ", "limitAmount": "10", "startDate": "2024-03-01" }]`,
			http.StatusBadRequest,
			models.ErrCategoryEmpty.Error(),
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/budgets", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.BudgetCreateResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.err, *response.Data[0].Error)
		})
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/budgets", `[{ "period": "daily" }]`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestBudgetsGet() {
	createTestBudget(suite.T(), v1.BudgetEditable{Category: "Rent", StartDate: types.NewDate(2024, time.February, 1)})
	createTestBudget(suite.T(), v1.BudgetEditable{Category: "Groceries"})
	createTestBudget(suite.T(), v1.BudgetEditable{Category: "Eating out"})

	createTestTransaction(suite.T(), v1.TransactionEditable{Amount: decimal.NewFromInt(25), Category: "Groceries"})
	createTestTransaction(suite.T(), v1.TransactionEditable{Amount: decimal.NewFromInt(25), Category: "Groceries", Type: models.TransactionTypeCredit})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/budgets", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().Len(response.Data, 3)
	assert.Equal(suite.T(), "Eating out", response.Data[0].Category)
	assert.Equal(suite.T(), "Groceries", response.Data[1].Category)
	assert.Equal(suite.T(), "Rent", response.Data[2].Category)

	// Credits do not count towards the budget
	groceries := response.Data[1]
	assert.True(suite.T(), decimal.NewFromInt(25).Equal(groceries.Spent), groceries.Spent.String())
	assert.True(suite.T(), decimal.NewFromInt(75).Equal(groceries.Remaining), groceries.Remaining.String())
	assert.True(suite.T(), decimal.NewFromInt(25).Equal(groceries.Progress), groceries.Progress.String())
}

// TestBudgetsAlerts verifies that alerts are raised only when the alert
// level of a budget rises and that every alert is sent to the notifier.
func (suite *TestSuiteStandard) TestBudgetsAlerts() {
	notifier := &recordingNotifier{}
	co := controllerWith(notifier)

	budget := createTestBudgetWith(suite.T(), co, v1.BudgetEditable{Category: "Groceries", LimitAmount: decimal.NewFromInt(100)})
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	// 50%: no alert
	createTestTransactionWith(suite.T(), co, v1.TransactionEditable{AccountID: account.Data.ID, Amount: decimal.NewFromInt(50)})
	assert.Len(suite.T(), notifier.alerts, 0)

	// 85%: warning
	createTestTransactionWith(suite.T(), co, v1.TransactionEditable{AccountID: account.Data.ID, Amount: decimal.NewFromInt(35)})
	suite.Require().Len(notifier.alerts, 1)
	assert.Equal(suite.T(), models.AlertLevelWarning, notifier.alerts[0].Level)
	assert.Equal(suite.T(), budget.Data.ID, notifier.alerts[0].BudgetID)

	// 90%: still warning, no new alert
	createTestTransactionWith(suite.T(), co, v1.TransactionEditable{AccountID: account.Data.ID, Amount: decimal.NewFromInt(5)})
	assert.Len(suite.T(), notifier.alerts, 1)

	// Other categories and credits are ignored
	createTestTransactionWith(suite.T(), co, v1.TransactionEditable{AccountID: account.Data.ID, Amount: decimal.NewFromInt(500), Category: "Rent"})
	createTestTransactionWith(suite.T(), co, v1.TransactionEditable{AccountID: account.Data.ID, Amount: decimal.NewFromInt(500), Type: models.TransactionTypeCredit})
	assert.Len(suite.T(), notifier.alerts, 1)

	// 120%: exceeded
	last := createTestTransactionWith(suite.T(), co, v1.TransactionEditable{AccountID: account.Data.ID, Amount: decimal.NewFromInt(30)})
	suite.Require().Len(notifier.alerts, 2)
	assert.Equal(suite.T(), models.AlertLevelExceeded, notifier.alerts[1].Level)
	assert.Contains(suite.T(), notifier.alerts[1].Message, "120.00%")

	r := test.Request(suite.T(), http.MethodGet, budget.Data.Links.Self, "")
	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.AlertLevelExceeded, response.Data.AlertLevel)

	// The feed lists the alerts, newest first
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/budgets/alerts", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var feed v1.AlertListResponse
	test.DecodeResponse(suite.T(), &r, &feed)
	suite.Require().Len(feed.Data, 2)
	assert.Equal(suite.T(), models.AlertLevelExceeded, feed.Data[0].Level)
	assert.Equal(suite.T(), models.AlertLevelWarning, feed.Data[1].Level)
	assert.Equal(suite.T(), "Groceries", feed.Data[0].Category)

	// Exceeding appends an overspend recommendation
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/recommendations", "")
	var recommendations v1.RecommendationListResponse
	test.DecodeResponse(suite.T(), &r, &recommendations)
	suite.Require().Len(recommendations.Data, 1)
	assert.Equal(suite.T(), models.RecommendationOverspend, recommendations.Data[0].Type)
	assert.Contains(suite.T(), recommendations.Data[0].Message, "20.00")

	// Deleting the last debit lowers the level silently
	r = test.RequestWith(suite.T(), co, http.MethodDelete, last.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Len(suite.T(), notifier.alerts, 2)

	r = test.Request(suite.T(), http.MethodGet, budget.Data.Links.Self, "")
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.AlertLevelWarning, response.Data.AlertLevel)

	// Exceeding again raises a new alert
	createTestTransactionWith(suite.T(), co, v1.TransactionEditable{AccountID: account.Data.ID, Amount: decimal.NewFromInt(15)})
	suite.Require().Len(notifier.alerts, 3)
	assert.Equal(suite.T(), models.AlertLevelExceeded, notifier.alerts[2].Level)
}

// TestBudgetsAlertsOnUpdate verifies that moving a transaction between
// categories evaluates the budgets of both categories.
func (suite *TestSuiteStandard) TestBudgetsAlertsOnUpdate() {
	notifier := &recordingNotifier{}
	co := controllerWith(notifier)

	groceries := createTestBudgetWith(suite.T(), co, v1.BudgetEditable{Category: "Groceries"})
	eatingOut := createTestBudgetWith(suite.T(), co, v1.BudgetEditable{Category: "Eating out"})

	transaction := createTestTransactionWith(suite.T(), co, v1.TransactionEditable{Amount: decimal.NewFromInt(110), Category: "Groceries"})
	suite.Require().Len(notifier.alerts, 1)
	assert.Equal(suite.T(), groceries.Data.ID, notifier.alerts[0].BudgetID)

	r := test.RequestWith(suite.T(), co, http.MethodPatch, transaction.Data.Links.Self, `{ "category": "Eating out" }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	suite.Require().Len(notifier.alerts, 2)
	assert.Equal(suite.T(), eatingOut.Data.ID, notifier.alerts[1].BudgetID)

	r = test.Request(suite.T(), http.MethodGet, groceries.Data.Links.Self, "")
	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.AlertLevelNone, response.Data.AlertLevel)
	assert.True(suite.T(), response.Data.Spent.IsZero())
}

// TestBudgetsCreateOverspent verifies that a budget is evaluated on creation.
func (suite *TestSuiteStandard) TestBudgetsCreateOverspent() {
	notifier := &recordingNotifier{}
	co := controllerWith(notifier)

	createTestTransactionWith(suite.T(), co, v1.TransactionEditable{Amount: decimal.NewFromInt(150), Category: "Groceries"})
	assert.Len(suite.T(), notifier.alerts, 0)

	budget := createTestBudgetWith(suite.T(), co, v1.BudgetEditable{Category: "Groceries"})
	assert.Equal(suite.T(), models.AlertLevelExceeded, budget.Data.AlertLevel)
	suite.Require().Len(notifier.alerts, 1)
	assert.Equal(suite.T(), budget.Data.ID, notifier.alerts[0].BudgetID)
}

func (suite *TestSuiteStandard) TestBudgetsUpdateLimit() {
	notifier := &recordingNotifier{}
	co := controllerWith(notifier)

	budget := createTestBudgetWith(suite.T(), co, v1.BudgetEditable{Category: "Groceries", LimitAmount: decimal.NewFromInt(200)})
	createTestTransactionWith(suite.T(), co, v1.TransactionEditable{Amount: decimal.NewFromInt(90), Category: "Groceries"})
	assert.Len(suite.T(), notifier.alerts, 0)

	// Lowering the limit raises the level
	r := test.RequestWith(suite.T(), co, http.MethodPatch, budget.Data.Links.Self, `{ "limitAmount": "100" }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), decimal.NewFromInt(100).Equal(response.Data.LimitAmount), response.Data.LimitAmount.String())
	assert.Equal(suite.T(), models.AlertLevelWarning, response.Data.AlertLevel)
	assert.True(suite.T(), decimal.NewFromInt(90).Equal(response.Data.Progress), response.Data.Progress.String())
	suite.Require().Len(notifier.alerts, 1)
	assert.Equal(suite.T(), models.AlertLevelWarning, notifier.alerts[0].Level)

	// Other fields can not be changed
	r = test.RequestWith(suite.T(), co, http.MethodPatch, budget.Data.Links.Self, `{ "category": "Rent" }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var errResponse v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &errResponse)
	assert.Equal(suite.T(), "the limitAmount must be set", *errResponse.Error)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"Zero limit", budget.Data.Links.Self, `{ "limitAmount": "0" }`, http.StatusBadRequest},
		{"Empty body", budget.Data.Links.Self, "", http.StatusBadRequest},
		{"Invalid body", budget.Data.Links.Self, `{ "limitAmount": false }`, http.StatusBadRequest},
		{"Invalid UUID", "http://example.com/v1/budgets/nope", `{ "limitAmount": "10" }`, http.StatusBadRequest},
		{"Not found", fmt.Sprintf("http://example.com/v1/budgets/%s", uuid.New()), `{ "limitAmount": "10" }`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.RequestWith(t, co, http.MethodPatch, tt.path, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetsDelete() {
	notifier := &recordingNotifier{}
	co := controllerWith(notifier)

	budget := createTestBudgetWith(suite.T(), co, v1.BudgetEditable{})
	createTestTransactionWith(suite.T(), co, v1.TransactionEditable{Amount: decimal.NewFromInt(150)})
	suite.Require().Len(notifier.alerts, 1)

	r := test.Request(suite.T(), http.MethodDelete, budget.Data.Links.Self, "", ownerHeader(uuid.New().String()))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodDelete, budget.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, budget.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// Alerts of the budget are deleted with it
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/budgets/alerts", "")
	var feed v1.AlertListResponse
	test.DecodeResponse(suite.T(), &r, &feed)
	assert.Len(suite.T(), feed.Data, 0)
}

func (suite *TestSuiteStandard) TestBudgetsAlertsLimit() {
	notifier := &recordingNotifier{}
	co := controllerWith(notifier)

	createTestBudgetWith(suite.T(), co, v1.BudgetEditable{Category: "Groceries"})
	createTestBudgetWith(suite.T(), co, v1.BudgetEditable{Category: "Rent"})
	createTestTransactionWith(suite.T(), co, v1.TransactionEditable{Amount: decimal.NewFromInt(150), Category: "Groceries"})
	createTestTransactionWith(suite.T(), co, v1.TransactionEditable{Amount: decimal.NewFromInt(150), Category: "Rent"})
	suite.Require().Len(notifier.alerts, 2)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/budgets/alerts?limit=1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var feed v1.AlertListResponse
	test.DecodeResponse(suite.T(), &r, &feed)
	assert.Len(suite.T(), feed.Data, 1)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/budgets/alerts?limit=-4", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

// TestBudgetsNotificationFailure verifies that a failing notifier does not
// fail the request that raised the alert.
func (suite *TestSuiteStandard) TestBudgetsNotificationFailure() {
	notifier := &recordingNotifier{err: fmt.Errorf("mail server down")}
	co := controllerWith(notifier)

	createTestBudgetWith(suite.T(), co, v1.BudgetEditable{})
	createTestTransactionWith(suite.T(), co, v1.TransactionEditable{Amount: decimal.NewFromInt(150)})

	assert.Len(suite.T(), notifier.alerts, 1)
}
