package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirrorbank/backend/internal/httputil"
	"github.com/mirrorbank/backend/internal/models"
)

type CategoryRuleEditable struct {
	Priority uint   `json:"priority" example:"10" default:"0"`               // Rules with lower priority are applied first
	Match    string `json:"match" binding:"max=120" example:"*Coffee*"`      // Glob pattern for the merchant. Case sensitive.
	Category string `json:"category" binding:"max=100" example:"Eating out"` // The category assigned to matching transactions
}

type CategoryRuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/category-rules/0f2ac6a1-2b6c-4cf2-9e52-7a1d5ab06c7e"` // The rule itself
}

// CategoryRule is the API v1 representation of a CategoryRule.
type CategoryRule struct {
	models.DefaultModel
	CategoryRuleEditable
	Links CategoryRuleLinks `json:"links"`
}

func newCategoryRule(c *gin.Context, model models.CategoryRule) CategoryRule {
	return CategoryRule{
		DefaultModel: model.DefaultModel,
		CategoryRuleEditable: CategoryRuleEditable{
			Priority: model.Priority,
			Match:    model.Match,
			Category: model.Category,
		},
		Links: CategoryRuleLinks{
			Self: fmt.Sprintf("%s/v1/category-rules/%s", c.GetString(string(models.DBContextURL)), model.ID),
		},
	}
}

type CategoryRuleListResponse struct {
	Data  []CategoryRule `json:"data"`                                                          // Rules in the order they are applied
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CategoryRuleCreateResponse struct {
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []CategoryRuleResponse `json:"data"`                                                          // List of created rules
}

func (r *CategoryRuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, CategoryRuleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CategoryRuleResponse struct {
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this rule
	Data  *CategoryRule `json:"data"`                                                          // The rule data, if creation was successful
}

func (co Controller) RegisterCategoryRuleRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsCategoryRules)
		r.GET("", GetCategoryRules)
		r.POST("", CreateCategoryRules)
	}
	{
		r.OPTIONS("/:id", OptionsCategoryRuleDetail)
		r.GET("/:id", GetCategoryRule)
		r.DELETE("/:id", DeleteCategoryRule)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Category Rules
// @Success		204
// @Router			/v1/category-rules [options]
func OptionsCategoryRules(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Category Rules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/category-rules/{id} [options]
func OptionsCategoryRuleDetail(c *gin.Context) {
	resourceOptionsDetail[models.CategoryRule](c, httputil.OptionsGetDelete)
}

// @Summary		Create category rules
// @Description	Creates new category rules. Rules are applied to new transactions without category.
// @Tags			Category Rules
// @Produce		json
// @Success		201		{object}	CategoryRuleCreateResponse
// @Failure		400		{object}	CategoryRuleCreateResponse
// @Failure		409		{object}	CategoryRuleCreateResponse
// @Failure		500		{object}	CategoryRuleCreateResponse
// @Param			rules	body		[]CategoryRuleEditable	true	"Category rules"
// @Router			/v1/category-rules [post]
func CreateCategoryRules(c *gin.Context) {
	var editables []CategoryRuleEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryRuleCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := CategoryRuleCreateResponse{}

	for _, editable := range editables {
		rule := models.CategoryRule{
			OwnerID:  owner(c),
			Priority: editable.Priority,
			Match:    editable.Match,
			Category: editable.Category,
		}

		err = models.CreateCategoryRule(models.DB, &rule)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newCategoryRule(c, rule)
		r.Data = append(r.Data, CategoryRuleResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get category rules
// @Description	Returns all category rules in the order they are applied
// @Tags			Category Rules
// @Produce		json
// @Success		200	{object}	CategoryRuleListResponse
// @Failure		500	{object}	CategoryRuleListResponse
// @Router			/v1/category-rules [get]
func GetCategoryRules(c *gin.Context) {
	rules, err := models.CategoryRules(models.DB, owner(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryRuleListResponse{
			Error: &e,
		})
		return
	}

	data := make([]CategoryRule, 0, len(rules))
	for _, rule := range rules {
		data = append(data, newCategoryRule(c, rule))
	}

	c.JSON(http.StatusOK, CategoryRuleListResponse{Data: data})
}

// @Summary		Get category rule
// @Description	Returns a specific category rule
// @Tags			Category Rules
// @Produce		json
// @Success		200	{object}	CategoryRuleResponse
// @Failure		400	{object}	CategoryRuleResponse
// @Failure		404	{object}	CategoryRuleResponse
// @Failure		500	{object}	CategoryRuleResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/category-rules/{id} [get]
func GetCategoryRule(c *gin.Context) {
	id, err := uriID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryRuleResponse{
			Error: &e,
		})
		return
	}

	rule, err := models.FindOwned[models.CategoryRule](models.DB, owner(c), id)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryRuleResponse{
			Error: &e,
		})
		return
	}

	data := newCategoryRule(c, rule)
	c.JSON(http.StatusOK, CategoryRuleResponse{Data: &data})
}

// @Summary		Delete category rule
// @Description	Deletes a category rule. Categories already assigned are kept.
// @Tags			Category Rules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/category-rules/{id} [delete]
func DeleteCategoryRule(c *gin.Context) {
	resourceDelete[models.CategoryRule](c)
}
