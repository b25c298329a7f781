package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/httputil"
	"github.com/mirrorbank/backend/internal/models"
	"golang.org/x/exp/slices"
)

func (co Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsBudgets)
		r.GET("", GetBudgets)
		r.POST("", co.CreateBudgets)
	}
	{
		r.OPTIONS("/alerts", OptionsBudgetAlerts)
		r.GET("/alerts", GetBudgetAlerts)
	}
	{
		r.OPTIONS("/:id", OptionsBudgetDetail)
		r.GET("/:id", GetBudget)
		r.PATCH("/:id", co.UpdateBudget)
		r.DELETE("/:id", DeleteBudget)
	}
}

// budgetProgress loads the budget of the owner with its progress.
func budgetProgress(owner, id uuid.UUID) (models.BudgetProgress, error) {
	budget, err := models.FindOwned[models.Budget](models.DB, owner, id)
	if err != nil {
		return models.BudgetProgress{}, err
	}

	return budget.WithProgress(models.DB)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func OptionsBudgets(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/budgets/{id} [options]
func OptionsBudgetDetail(c *gin.Context) {
	resourceOptionsDetail[models.Budget](c, httputil.OptionsGetPatchDelete)
}

// @Summary		Create budgets
// @Description	Creates new budgets. Each budget is evaluated right away, so a budget that is already
// @Description	overspent raises an alert.
// @Tags			Budgets
// @Produce		json
// @Success		201		{object}	BudgetCreateResponse
// @Failure		400		{object}	BudgetCreateResponse
// @Failure		409		{object}	BudgetCreateResponse
// @Failure		500		{object}	BudgetCreateResponse
// @Param			budgets	body		[]BudgetEditable	true	"Budgets"
// @Router			/v1/budgets [post]
func (co Controller) CreateBudgets(c *gin.Context) {
	var editables []BudgetEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BudgetCreateResponse{}

	for _, editable := range editables {
		budget := editable.model(owner(c))
		err = models.CreateBudget(models.DB, &budget)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		co.evaluateBudget(c, budget)

		progress, err := budgetProgress(budget.OwnerID, budget.ID)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newBudget(c, progress)
		r.Data = append(r.Data, BudgetResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get budgets
// @Description	Returns all budgets with their progress, newest window first
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetListResponse
// @Failure		500	{object}	BudgetListResponse
// @Router			/v1/budgets [get]
func GetBudgets(c *gin.Context) {
	budgets, err := models.BudgetsWithProgress(models.DB, owner(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetListResponse{
			Error: &e,
		})
		return
	}

	// Transform resources to their API representation
	data := make([]Budget, 0, len(budgets))
	for _, budget := range budgets {
		data = append(data, newBudget(c, budget))
	}

	c.JSON(http.StatusOK, BudgetListResponse{Data: data})
}

// @Summary		Get budget
// @Description	Returns a specific budget with its progress
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		400	{object}	BudgetResponse
// @Failure		404	{object}	BudgetResponse
// @Failure		500	{object}	BudgetResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/budgets/{id} [get]
func GetBudget(c *gin.Context) {
	id, err := uriID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	progress, err := budgetProgress(owner(c), id)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	data := newBudget(c, progress)
	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

// @Summary		Update budget
// @Description	Sets a new limit for the budget and evaluates it
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		404		{object}	BudgetResponse
// @Failure		500		{object}	BudgetResponse
// @Param			id		path		URIID		true	"ID formatted as string"
// @Param			budget	body		BudgetLimit	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func (co Controller) UpdateBudget(c *gin.Context) {
	id, err := uriID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	fields, err := httputil.GetBodyFields(c, BudgetLimit{})
	if err == nil && !slices.Contains(fields, "LimitAmount") {
		err = errLimitMissing
	}
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	var data BudgetLimit
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	budget, err := models.UpdateBudgetLimit(models.DB, owner(c), id, data.LimitAmount)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	co.evaluateBudget(c, budget)

	progress, err := budgetProgress(budget.OwnerID, budget.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	apiResource := newBudget(c, progress)
	c.JSON(http.StatusOK, BudgetResponse{Data: &apiResource})
}

// @Summary		Delete budget
// @Description	Deletes a budget and its alerts
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/budgets/{id} [delete]
func DeleteBudget(c *gin.Context) {
	resourceDelete[models.Budget](c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets/alerts [options]
func OptionsBudgetAlerts(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get budget alerts
// @Description	Returns the alerts of all budgets, newest first
// @Tags			Budgets
// @Produce		json
// @Success		200		{object}	AlertListResponse
// @Failure		400		{object}	AlertListResponse
// @Failure		500		{object}	AlertListResponse
// @Param			limit	query		int	false	"Maximum number of alerts to return. Defaults to 50."
// @Router			/v1/budgets/alerts [get]
func GetBudgetAlerts(c *gin.Context) {
	var query QueryLimit
	if err := c.ShouldBindQuery(&query); err != nil {
		e := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, AlertListResponse{
			Error: &e,
		})
		return
	}

	alerts, err := models.Alerts(models.DB, owner(c), query.Limit)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AlertListResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, AlertListResponse{Data: alerts})
}
