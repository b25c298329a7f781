package httputil

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// Allow returns a handler that answers OPTIONS requests with the allowed methods.
func Allow(methods ...string) gin.HandlerFunc {
	allowed := strings.Join(append([]string{http.MethodOptions}, methods...), ", ")

	return func(c *gin.Context) {
		c.Header("allow", allowed)
		c.Render(http.StatusNoContent, render.JSON{})
	}
}

var (
	OptionsGet            = Allow(http.MethodGet)
	OptionsPost           = Allow(http.MethodPost)
	OptionsPut            = Allow(http.MethodPut)
	OptionsGetPost        = Allow(http.MethodGet, http.MethodPost)
	OptionsGetDelete      = Allow(http.MethodGet, http.MethodDelete)
	OptionsGetPatchDelete = Allow(http.MethodGet, http.MethodPatch, http.MethodDelete)
)
