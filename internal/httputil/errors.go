package httputil

import "errors"

var (
	ErrInvalidBody        = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")
	ErrRequestBodyEmpty   = errors.New("the request body must not be empty")
	ErrInvalidUUID        = errors.New("the specified resource ID is not a valid UUID")
	ErrInvalidQueryString = errors.New("the query string contains unparseable data. Please check the values")
	ErrMethodNotAllowed   = errors.New("this HTTP method is not allowed for the endpoint you called")
	ErrRouteNotFound      = errors.New("there is no endpoint at this path")
)

var (
	ErrOwnerMissing = errors.New("no owner was specified. Set the X-Owner-ID header or configure OWNER_ID on the server")
	ErrOwnerInvalid = errors.New("the X-Owner-ID header is not a valid UUID")
)
