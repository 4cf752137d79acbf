package azdo

import "fmt"

// ResponseError is returned when the service answers a request with a
// non-success status code.
type ResponseError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s request failed: the service responded with status %d: %s", e.Operation, e.StatusCode, e.Body)
}
