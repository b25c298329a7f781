package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirrorbank/backend/internal/httputil"
	"github.com/mirrorbank/backend/internal/models"
	"golang.org/x/exp/slices"
)

var errBalanceReadOnly = errors.New("the balance can only be changed through the balance and recompute endpoints")

func (co Controller) RegisterAccountRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsAccounts)
		r.GET("", GetAccounts)
		r.POST("", CreateAccounts)
	}
	{
		r.OPTIONS("/drift", OptionsAccountDrift)
		r.GET("/drift", GetAccountDrift)
	}
	{
		r.OPTIONS("/:id", OptionsAccountDetail)
		r.GET("/:id", GetAccount)
		r.PATCH("/:id", UpdateAccount)
		r.DELETE("/:id", co.DeleteAccount)
	}
	{
		r.OPTIONS("/:id/balance", httputil.OptionsPut)
		r.PUT("/:id/balance", SetAccountBalance)
		r.OPTIONS("/:id/recompute", httputil.OptionsPost)
		r.POST("/:id/recompute", RecomputeAccountBalance)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Router			/v1/accounts [options]
func OptionsAccounts(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/accounts/{id} [options]
func OptionsAccountDetail(c *gin.Context) {
	resourceOptionsDetail[models.Account](c, httputil.OptionsGetPatchDelete)
}

// @Summary		Create accounts
// @Description	Creates new accounts
// @Tags			Accounts
// @Produce		json
// @Success		201			{object}	AccountCreateResponse
// @Failure		400			{object}	AccountCreateResponse
// @Failure		500			{object}	AccountCreateResponse
// @Param			accounts	body		[]AccountEditable	true	"Accounts"
// @Router			/v1/accounts [post]
func CreateAccounts(c *gin.Context) {
	var editables []AccountEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := AccountCreateResponse{}

	for _, editable := range editables {
		account := editable.model(owner(c))
		err = models.CreateAccount(models.DB, &account)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newAccount(c, account)
		r.Data = append(r.Data, AccountResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get accounts
// @Description	Returns all accounts ordered by name
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	AccountListResponse
// @Failure		500	{object}	AccountListResponse
// @Router			/v1/accounts [get]
func GetAccounts(c *gin.Context) {
	accounts, err := models.Accounts(models.DB, owner(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountListResponse{
			Error: &e,
		})
		return
	}

	// Transform resources to their API representation
	data := make([]Account, 0, len(accounts))
	for _, account := range accounts {
		data = append(data, newAccount(c, account))
	}

	c.JSON(http.StatusOK, AccountListResponse{Data: data})
}

// @Summary		Get account
// @Description	Returns a specific account
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	AccountResponse
// @Failure		400	{object}	AccountResponse
// @Failure		404	{object}	AccountResponse
// @Failure		500	{object}	AccountResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/accounts/{id} [get]
func GetAccount(c *gin.Context) {
	id, err := uriID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	account, err := models.FindOwned[models.Account](models.DB, owner(c), id)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	data := newAccount(c, account)
	c.JSON(http.StatusOK, AccountResponse{Data: &data})
}

// @Summary		Update account
// @Description	Updates name, type and low balance threshold of an account. Only values to be updated need to be specified.
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	AccountResponse
// @Failure		400		{object}	AccountResponse
// @Failure		404		{object}	AccountResponse
// @Failure		500		{object}	AccountResponse
// @Param			id		path		URIID			true	"ID formatted as string"
// @Param			account	body		AccountEditable	true	"Account"
// @Router			/v1/accounts/{id} [patch]
func UpdateAccount(c *gin.Context) {
	id, err := uriID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	previous, err := models.FindOwned[models.Account](models.DB, owner(c), id)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, AccountEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	if slices.Contains(updateFields, "Balance") {
		e := errBalanceReadOnly.Error()
		c.JSON(http.StatusBadRequest, AccountResponse{
			Error: &e,
		})
		return
	}

	// Fields missing in the body keep their current value
	data := newAccount(c, previous).AccountEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	account := data.model(previous.OwnerID)
	account.ID = previous.ID

	account, err = models.UpdateAccount(models.DB, previous, account)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	apiResource := newAccount(c, account)
	c.JSON(http.StatusOK, AccountResponse{Data: &apiResource})
}

// @Summary		Delete account
// @Description	Deletes an account and all of its transactions and evaluates the budgets of the owner
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/accounts/{id} [delete]
func (co Controller) DeleteAccount(c *gin.Context) {
	if !resourceDelete[models.Account](c) {
		return
	}

	// The transactions of the account are gone and no longer count towards budgets
	co.evaluateOwner(c)
}

// @Summary		Set account balance
// @Description	Sets the balance of an account. No transaction is recorded.
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	AccountResponse
// @Failure		400		{object}	AccountResponse
// @Failure		404		{object}	AccountResponse
// @Failure		500		{object}	AccountResponse
// @Param			id		path		URIID			true	"ID formatted as string"
// @Param			balance	body		AccountBalance	true	"Balance"
// @Router			/v1/accounts/{id}/balance [put]
func SetAccountBalance(c *gin.Context) {
	id, err := uriID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	fields, err := httputil.GetBodyFields(c, AccountBalance{})
	if err == nil && !slices.Contains(fields, "Balance") {
		err = errBalanceMissing
	}
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	var data AccountBalance
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	account, err := models.SetBalance(models.DB, owner(c), id, data.Balance)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	apiResource := newAccount(c, account)
	c.JSON(http.StatusOK, AccountResponse{Data: &apiResource})
}

// @Summary		Recompute account balance
// @Description	Sets the balance of the account to the sum of its credits minus the sum of its debits
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	AccountResponse
// @Failure		400	{object}	AccountResponse
// @Failure		404	{object}	AccountResponse
// @Failure		500	{object}	AccountResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/accounts/{id}/recompute [post]
func RecomputeAccountBalance(c *gin.Context) {
	id, err := uriID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	account, err := models.RecomputeBalance(models.DB, owner(c), id)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	apiResource := newAccount(c, account)
	c.JSON(http.StatusOK, AccountResponse{Data: &apiResource})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Router			/v1/accounts/drift [options]
func OptionsAccountDrift(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get balance drift
// @Description	Returns all accounts whose stored balance differs from the balance derived from their transactions
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	BalanceDriftListResponse
// @Failure		500	{object}	BalanceDriftListResponse
// @Router			/v1/accounts/drift [get]
func GetAccountDrift(c *gin.Context) {
	drifts, err := models.BalanceDrifts(models.DB, owner(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BalanceDriftListResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, BalanceDriftListResponse{Data: drifts})
}
