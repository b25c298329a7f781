package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/httputil"
	mb_uuid "github.com/mirrorbank/backend/internal/uuid"
)

type URIID struct {
	ID mb_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// uriID binds the resource ID from the path.
func uriID(c *gin.Context) (uuid.UUID, error) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		return uuid.Nil, httputil.ErrInvalidUUID
	}
	return uri.ID.UUID, nil
}

// QueryLimit is the maximum number of entries for list endpoints.
type QueryLimit struct {
	Limit int `form:"limit" binding:"min=0"` // Maximum number of entries to return
}
