package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/httputil"
	"github.com/mirrorbank/backend/internal/models"
)

func (co Controller) RegisterGoalRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsGoals)
		r.GET("", GetGoals)
		r.POST("", CreateGoals)
	}
	{
		r.OPTIONS("/:id", OptionsGoalDetail)
		r.GET("/:id", GetGoal)
		r.PATCH("/:id", UpdateGoal)
		r.DELETE("/:id", DeleteGoal)
	}
	{
		r.OPTIONS("/:id/contributions", OptionsGoalContributions)
		r.POST("/:id/contributions", co.CreateGoalContribution)
	}
}

// goalProgress loads the goal of the owner with its progress.
func goalProgress(owner, id uuid.UUID) (models.GoalProgress, error) {
	goal, err := models.FindOwned[models.Goal](models.DB, owner, id)
	if err != nil {
		return models.GoalProgress{}, err
	}

	return goal.WithProgress(models.DB)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Router			/v1/goals [options]
func OptionsGoals(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/goals/{id} [options]
func OptionsGoalDetail(c *gin.Context) {
	resourceOptionsDetail[models.Goal](c, httputil.OptionsGetPatchDelete)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/goals/{id}/contributions [options]
func OptionsGoalContributions(c *gin.Context) {
	resourceOptionsDetail[models.Goal](c, httputil.OptionsPost)
}

// @Summary		Create goals
// @Description	Creates new savings goals
// @Tags			Goals
// @Produce		json
// @Success		201		{object}	GoalCreateResponse
// @Failure		400		{object}	GoalCreateResponse
// @Failure		500		{object}	GoalCreateResponse
// @Param			goals	body		[]GoalEditable	true	"Goals"
// @Router			/v1/goals [post]
func CreateGoals(c *gin.Context) {
	var editables []GoalEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := GoalCreateResponse{}

	for _, editable := range editables {
		goal := editable.model(owner(c))
		err = models.CreateGoal(models.DB, &goal)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		// A new goal has no contributions
		data := newGoal(c, models.GoalProgress{
			Goal:      goal,
			Remaining: goal.TargetAmount,
		})
		r.Data = append(r.Data, GoalResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get goals
// @Description	Returns all goals with their progress ordered by target date. Goals without target date are last.
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalListResponse
// @Failure		500	{object}	GoalListResponse
// @Router			/v1/goals [get]
func GetGoals(c *gin.Context) {
	goals, err := models.GoalsWithProgress(models.DB, owner(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{
			Error: &e,
		})
		return
	}

	// Transform resources to their API representation
	data := make([]Goal, 0, len(goals))
	for _, goal := range goals {
		data = append(data, newGoal(c, goal))
	}

	c.JSON(http.StatusOK, GoalListResponse{Data: data})
}

// @Summary		Get goal
// @Description	Returns a specific goal with its progress
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalResponse
// @Failure		400	{object}	GoalResponse
// @Failure		404	{object}	GoalResponse
// @Failure		500	{object}	GoalResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/goals/{id} [get]
func GetGoal(c *gin.Context) {
	id, err := uriID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	progress, err := goalProgress(owner(c), id)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	data := newGoal(c, progress)
	c.JSON(http.StatusOK, GoalResponse{Data: &data})
}

// @Summary		Update goal
// @Description	Updates an existing goal. Only values to be updated need to be specified.
// @Tags			Goals
// @Accept			json
// @Produce		json
// @Success		200		{object}	GoalResponse
// @Failure		400		{object}	GoalResponse
// @Failure		404		{object}	GoalResponse
// @Failure		500		{object}	GoalResponse
// @Param			id		path		URIID			true	"ID formatted as string"
// @Param			goal	body		GoalEditable	true	"Goal"
// @Router			/v1/goals/{id} [patch]
func UpdateGoal(c *gin.Context) {
	id, err := uriID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	previous, err := models.FindOwned[models.Goal](models.DB, owner(c), id)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	// Fields missing in the body keep their current value
	data := GoalEditable{
		Name:         previous.Name,
		TargetAmount: previous.TargetAmount,
		TargetDate:   previous.TargetDate,
	}
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	goal := data.model(previous.OwnerID)
	goal.ID = previous.ID

	goal, err = models.UpdateGoal(models.DB, goal)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	progress, err := goal.WithProgress(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	apiResource := newGoal(c, progress)
	c.JSON(http.StatusOK, GoalResponse{Data: &apiResource})
}

// @Summary		Delete goal
// @Description	Deletes a goal. Its contributions are kept as regular transactions.
// @Tags			Goals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/goals/{id} [delete]
func DeleteGoal(c *gin.Context) {
	resourceDelete[models.Goal](c)
}

// @Summary		Contribute to goal
// @Description	Records a contribution to the goal as a credit on the account
// @Tags			Goals
// @Accept			json
// @Produce		json
// @Success		201				{object}	TransactionResponse
// @Failure		400				{object}	TransactionResponse
// @Failure		404				{object}	TransactionResponse
// @Failure		500				{object}	TransactionResponse
// @Param			id				path		URIID					true	"ID formatted as string"
// @Param			contribution	body		ContributionEditable	true	"Contribution"
// @Router			/v1/goals/{id}/contributions [post]
func (co Controller) CreateGoalContribution(c *gin.Context) {
	id, err := uriID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	var data ContributionEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	transaction, err := models.Contribute(models.DB, owner(c), id, data.model(), co.now())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	goalContributions.Inc()

	apiResource := newTransaction(c, transaction)
	c.JSON(http.StatusCreated, TransactionResponse{Data: &apiResource})
}
