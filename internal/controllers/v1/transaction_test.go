package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/controllers/v1"
	"github.com/mirrorbank/backend/internal/httputil"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/mirrorbank/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestTransactionsOptions verifies that the HTTP OPTIONS response for /v1/transactions/{id} is correct.
func (suite *TestSuiteStandard) TestTransactionsOptions() {
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
				return createTestTransaction(suite.T(), v1.TransactionEditable{Amount: decimal.NewFromFloat(31)}).Data.Links.Self
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var p string
			if tt.pathFunc != nil {
				p = tt.pathFunc()
			} else {
				p = fmt.Sprintf("%s/%s", "http://example.com/v1/transactions", tt.id)
			}

			r := test.Request(t, http.MethodOptions, p, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestTransactionsDatabaseError verifies that the endpoints return the appropriate
// error when the database is disconnected.
func (suite *TestSuiteStandard) TestTransactionsDatabaseError() {
	tests := []struct {
		name   string // Name of the test
		path   string // Path to send request to
		method string // HTTP method to use
		body   string // The request body
	}{
		{"GET Collection", "", http.MethodGet, ""},
		{"GET Recent", "/recent", http.MethodGet, ""},
		// Skipping POST Collection here since we need to check the individual transactions for that one
		{"OPTIONS Single", fmt.Sprintf("/%s", uuid.New().String()), http.MethodOptions, ""},
		{"GET Single", fmt.Sprintf("/%s", uuid.New().String()), http.MethodGet, ""},
		{"PATCH Single", fmt.Sprintf("/%s", uuid.New().String()), http.MethodPatch, ""},
		{"DELETE Single", fmt.Sprintf("/%s", uuid.New().String()), http.MethodDelete, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			recorder := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/transactions%s", tt.path), tt.body)
			test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

			var response v1.TransactionListResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.Equal(t, models.ErrGeneral.Error(), *response.Error)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsCreate() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	foreign := uuid.New()

	tests := []struct {
		name           string
		transactions   []v1.TransactionEditable
		expectedStatus int
		expectedErrors []string // Errors expected for the individual transactions
	}{
		{
			"Both succeed",
			[]v1.TransactionEditable{
				{AccountID: account.Data.ID, Amount: decimal.NewFromFloat(17.23), Type: models.TransactionTypeDebit, Category: "Groceries"},
				{AccountID: account.Data.ID, Amount: decimal.NewFromFloat(2500), Type: models.TransactionTypeCredit, Category: "Salary"},
			},
			http.StatusCreated,
			[]string{"", ""},
		},
		{
			"One success, one fail",
			[]v1.TransactionEditable{
				{AccountID: foreign, Amount: decimal.NewFromFloat(17.23), Type: models.TransactionTypeDebit, Category: "Groceries"},
				{AccountID: account.Data.ID, Amount: decimal.NewFromFloat(57.01), Type: models.TransactionTypeDebit, Category: "Groceries"},
			},
			http.StatusNotFound,
			[]string{models.ErrReferenceMissing.Error(), ""},
		},
		{
			"Validation errors",
			[]v1.TransactionEditable{
				{AccountID: account.Data.ID, Amount: decimal.Zero, Type: models.TransactionTypeDebit, Category: "Groceries"},
				{AccountID: account.Data.ID, Amount: decimal.NewFromInt(3), Type: models.TransactionTypeDebit},
				{Amount: decimal.NewFromInt(3), Type: models.TransactionTypeDebit, Category: "Groceries"},
				{AccountID: account.Data.ID, Amount: decimal.NewFromInt(3), Category: "Groceries"},
			},
			http.StatusBadRequest,
			[]string{
				models.ErrAmountNotPositive.Error(),
				models.ErrCategoryEmpty.Error(),
				models.ErrAccountMissing.Error(),
				models.ErrTransactionTypeBad.Error(),
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", tt.transactions)
			test.AssertHTTPStatus(t, &r, tt.expectedStatus)

			var tr v1.TransactionCreateResponse
			test.DecodeResponse(t, &r, &tr)

			for i, transaction := range tr.Data {
				if tt.expectedErrors[i] == "" {
					assert.Equal(t, fmt.Sprintf("http://example.com/v1/transactions/%s", transaction.Data.ID), transaction.Data.Links.Self)
					assert.Equal(t, fmt.Sprintf("http://example.com/v1/accounts/%s", account.Data.ID), transaction.Data.Links.Account)
				} else {
					// This needs to be in the else to prevent nil pointer errors since we're dereferencing pointers
					assert.Equal(t, tt.expectedErrors[i], *transaction.Error)
				}
			}
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsCreateInvalidBody() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions", `{ "amount": "not a number" }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions", `[{ "type": "transfer" }]`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

// TestTransactionsCreateCategoryRule verifies that transactions without
// category get the category of the first matching rule.
func (suite *TestSuiteStandard) TestTransactionsCreateCategoryRule() {
	createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{Priority: 20, Match: "*Coffee*", Category: "Eating out"})
	createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{Priority: 10, Match: "Corner*", Category: "Groceries"})

	tests := []struct {
		name     string
		merchant string
		category string
		expected string
	}{
		{"Lower priority wins", "Corner Coffee", "", "Groceries"},
		{"Single match", "Downtown Coffee Bar", "", "Eating out"},
		{"Explicit category", "Corner Coffee", "Gifts", "Gifts"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			transaction := createTestTransaction(t, v1.TransactionEditable{
				Amount:   decimal.NewFromFloat(4.5),
				Merchant: merchant(tt.merchant),
				Category: tt.category,
			})

			assert.Equal(t, tt.expected, transaction.Data.Category)
		})
	}

	// No rule matches and no category is set
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{
		Amount:   decimal.NewFromFloat(4.5),
		Merchant: merchant("Gas Station"),
	}, http.StatusBadRequest)
	assert.Equal(suite.T(), models.ErrCategoryEmpty.Error(), *transaction.Error)
}

func (suite *TestSuiteStandard) TestTransactionsGetSingle() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{Amount: decimal.NewFromInt(8), Notes: "Milk"})

	r := test.Request(suite.T(), http.MethodGet, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "Milk", response.Data.Notes)
	assert.True(suite.T(), day(10).Equal(response.Data.Date))

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions/not-a-uuid", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodGet, transaction.Data.Links.Self, "", ownerHeader(uuid.New().String()))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionsSearch() {
	checking := createTestAccount(suite.T(), v1.AccountEditable{Name: "Checking"})
	savings := createTestAccount(suite.T(), v1.AccountEditable{Name: "Savings"})

	t1 := createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: checking.Data.ID, Amount: decimal.NewFromInt(10), Category: "Groceries", Merchant: merchant("Corner Store"), Date: day(1)})
	t2 := createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: checking.Data.ID, Amount: decimal.NewFromInt(20), Category: "Eating out", Merchant: merchant("Corner Coffee"), Date: day(5)})
	t3 := createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: savings.Data.ID, Amount: decimal.NewFromInt(30), Type: models.TransactionTypeCredit, Category: "Interest", Date: day(9)})

	tests := []struct {
		name     string
		query    string
		expected []uuid.UUID
	}{
		{"All, newest first", "", []uuid.UUID{t3.Data.ID, t2.Data.ID, t1.Data.ID}},
		{"Account", fmt.Sprintf("accounts=%s", savings.Data.ID), []uuid.UUID{t3.Data.ID}},
		{"Both accounts", fmt.Sprintf("accounts=%s,%s", savings.Data.ID, checking.Data.ID), []uuid.UUID{t3.Data.ID, t2.Data.ID, t1.Data.ID}},
		{"Type", "types=debit", []uuid.UUID{t2.Data.ID, t1.Data.ID}},
		{"Types", "types=debit,credit", []uuid.UUID{t3.Data.ID, t2.Data.ID, t1.Data.ID}},
		{"Category substring", "category=out", []uuid.UUID{t2.Data.ID}},
		{"Merchant substring", "merchant=Corner", []uuid.UUID{t2.Data.ID, t1.Data.ID}},
		{"From", "from=2024-03-05", []uuid.UUID{t3.Data.ID, t2.Data.ID}},
		{"To is inclusive", "to=2024-03-05", []uuid.UUID{t2.Data.ID, t1.Data.ID}},
		{"Window", "from=2024-03-02&to=2024-03-08", []uuid.UUID{t2.Data.ID}},
		{"Limit", "limit=1", []uuid.UUID{t3.Data.ID}},
		{"No match", "merchant=Bakery", []uuid.UUID{}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.TransactionListResponse
			test.DecodeResponse(t, &r, &response)

			ids := make([]uuid.UUID, 0, len(response.Data))
			for _, transaction := range response.Data {
				ids = append(ids, transaction.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsSearchInvalidQuery() {
	tests := []struct {
		query string
		err   string
	}{
		{"types=transfer", "the types parameter must only contain 'debit' and 'credit'"},
		{"from=2024-03-10&to=2024-03-01", "the from date must not be after the to date"},
		{"from=yesterday", httputil.ErrInvalidQueryString.Error()},
		{"accounts=not-a-uuid", httputil.ErrInvalidQueryString.Error()},
		{"limit=-1", httputil.ErrInvalidQueryString.Error()},
	}

	for _, tt := range tests {
		suite.T().Run(tt.query, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.TransactionListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.err, *response.Error)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsRecent() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	for i := 1; i <= 3; i++ {
		createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: account.Data.ID, Amount: decimal.NewFromInt(int64(i)), Date: day(i)})
	}

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions/recent?limit=2", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().Len(response.Data, 2)
	assert.True(suite.T(), day(3).Equal(response.Data[0].Date))
	assert.True(suite.T(), day(2).Equal(response.Data[1].Date))

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions/recent?limit=abc", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTransactionsUpdate() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{Amount: decimal.NewFromInt(12), Notes: "Bread", Merchant: merchant("Bakery"), Category: "Groceries"})

	r := test.Request(suite.T(), http.MethodPatch, transaction.Data.Links.Self, map[string]any{
		"amount": "13.50",
		"notes":  "Bread and butter",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.True(suite.T(), decimal.NewFromFloat(13.5).Equal(response.Data.Amount), response.Data.Amount.String())
	assert.Equal(suite.T(), "Bread and butter", response.Data.Notes)

	// Unset fields keep their value
	assert.Equal(suite.T(), "Groceries", response.Data.Category)
	assert.Equal(suite.T(), "Bakery", *response.Data.Merchant)
	assert.True(suite.T(), day(10).Equal(response.Data.Date))
}

func (suite *TestSuiteStandard) TestTransactionsUpdateFail() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{Amount: decimal.NewFromInt(12)})

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"Invalid UUID", "http://example.com/v1/transactions/not-a-uuid", `{ "notes": "x" }`, http.StatusBadRequest},
		{"Not found", fmt.Sprintf("http://example.com/v1/transactions/%s", uuid.New()), `{ "notes": "x" }`, http.StatusNotFound},
		{"Empty body", transaction.Data.Links.Self, "", http.StatusBadRequest},
		{"Invalid body", transaction.Data.Links.Self, `{ "notes": 2 }`, http.StatusBadRequest},
		{"Negative amount", transaction.Data.Links.Self, `{ "amount": "-3" }`, http.StatusBadRequest},
		{"Bad type", transaction.Data.Links.Self, `{ "type": "transfer" }`, http.StatusBadRequest},
		{"Foreign account", transaction.Data.Links.Self, fmt.Sprintf(`{ "accountId": "%s" }`, uuid.New()), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, tt.path, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsDelete() {
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{Amount: decimal.NewFromInt(12)})

	r := test.Request(suite.T(), http.MethodDelete, transaction.Data.Links.Self, "", ownerHeader(uuid.New().String()))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodDelete, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/transactions/not-a-uuid", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
