package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// BindData decodes the JSON body of the request into data.
//
// Violations of binding tags are returned as a readable validation error.
// Values that a field type rejects, like an amount that is not a number or an
// ID that is not a UUID, are returned wrapped in ErrInvalidBody together with
// the reason.
func BindData(c *gin.Context, data any) error {
	err := c.ShouldBindJSON(data)
	if err == nil {
		return nil
	}

	var (
		syntaxError      *json.SyntaxError
		typeError        *json.UnmarshalTypeError
		validationErrors validator.ValidationErrors
	)

	switch {
	case errors.Is(err, io.EOF):
		return ErrRequestBodyEmpty
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		return ErrInvalidBody
	case errors.As(err, &typeError):
		return err
	case errors.As(err, &validationErrors):
		return ValidationError(validationErrors)
	}

	log.Debug().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
	return fmt.Errorf("%w (%v)", ErrInvalidBody, err)
}
