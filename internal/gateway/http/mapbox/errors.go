package mapbox

import (
	"errors"
	"fmt"
)

var (
	ErrNoRoute   = errors.New("no route found")
	ErrNoResults = errors.New("no geocoding results")
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("routing provider responded %d: %s", e.Code, e.Body)
}
