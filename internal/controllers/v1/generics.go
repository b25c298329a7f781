package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirrorbank/backend/internal/models"
)

type ownedResource interface {
	models.Account | models.Transaction | models.Budget | models.Goal | models.CategoryRule
	models.Model
}

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
func resourceOptionsDetail[R ownedResource](c *gin.Context, allowed gin.HandlerFunc) {
	id, err := uriID(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = models.FindOwned[R](models.DB, owner(c), id)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	allowed(c)
}

// resourceDelete deletes a specific resource of the owner and reports if it
// was deleted.
func resourceDelete[R ownedResource](c *gin.Context) bool {
	id, err := uriID(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return false
	}

	err = models.DeleteOwned[R](models.DB, owner(c), id)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return false
	}

	c.Status(http.StatusNoContent)
	return true
}
