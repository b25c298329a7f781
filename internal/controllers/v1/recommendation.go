package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirrorbank/backend/internal/httputil"
	"github.com/mirrorbank/backend/internal/models"
)

type RecommendationEditable struct {
	Type    models.RecommendationType `json:"type" binding:"max=40" example:"low_balance"`                       // Kind of the recommendation
	Message string                    `json:"message" example:"The balance of Checking is below 100.00: 87.12."` // Text of the recommendation
}

// Recommendation is the API v1 representation of a Recommendation.
type Recommendation struct {
	models.DefaultModel
	RecommendationEditable
}

func newRecommendation(model models.Recommendation) Recommendation {
	return Recommendation{
		DefaultModel: model.DefaultModel,
		RecommendationEditable: RecommendationEditable{
			Type:    model.Type,
			Message: model.Message,
		},
	}
}

type RecommendationListResponse struct {
	Data  []Recommendation `json:"data"`                                                          // Recommendations, newest first
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type RecommendationCreateResponse struct {
	Error *string                  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []RecommendationResponse `json:"data"`                                                          // List of created recommendations
}

func (r *RecommendationCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, RecommendationResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type RecommendationResponse struct {
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this recommendation
	Data  *Recommendation `json:"data"`                                                          // The recommendation data, if creation was successful
}

func (co Controller) RegisterRecommendationRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsRecommendations)
	r.GET("", GetRecommendations)
	r.POST("", CreateRecommendations)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recommendations
// @Success		204
// @Router			/v1/recommendations [options]
func OptionsRecommendations(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Get recommendations
// @Description	Returns the newest entries of the recommendation feed
// @Tags			Recommendations
// @Produce		json
// @Success		200		{object}	RecommendationListResponse
// @Failure		400		{object}	RecommendationListResponse
// @Failure		500		{object}	RecommendationListResponse
// @Param			limit	query		int	false	"Maximum number of recommendations to return. Defaults to 50."
// @Router			/v1/recommendations [get]
func GetRecommendations(c *gin.Context) {
	var query QueryLimit
	if err := c.ShouldBindQuery(&query); err != nil {
		e := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, RecommendationListResponse{
			Error: &e,
		})
		return
	}

	recommendations, err := models.Recommendations(models.DB, owner(c), query.Limit)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecommendationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Recommendation, 0, len(recommendations))
	for _, r := range recommendations {
		data = append(data, newRecommendation(r))
	}

	c.JSON(http.StatusOK, RecommendationListResponse{Data: data})
}

// @Summary		Create recommendations
// @Description	Appends entries to the recommendation feed. Entries can not be changed or deleted.
// @Tags			Recommendations
// @Produce		json
// @Success		201				{object}	RecommendationCreateResponse
// @Failure		400				{object}	RecommendationCreateResponse
// @Failure		500				{object}	RecommendationCreateResponse
// @Param			recommendations	body		[]RecommendationEditable	true	"Recommendations"
// @Router			/v1/recommendations [post]
func CreateRecommendations(c *gin.Context) {
	var editables []RecommendationEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecommendationCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := RecommendationCreateResponse{}

	for _, editable := range editables {
		recommendation := models.Recommendation{
			OwnerID: owner(c),
			Type:    editable.Type,
			Message: editable.Message,
		}

		err = models.AppendRecommendation(models.DB, &recommendation)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newRecommendation(recommendation)
		r.Data = append(r.Data, RecommendationResponse{Data: &data})
	}

	c.JSON(status, r)
}
