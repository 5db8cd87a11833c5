package platform

import (
	"fmt"
	"strings"
)

// HTTPError reports a non-success transport status from the remote endpoint.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("admin graphql: http %d: %s", e.StatusCode, e.Body)
}

// GraphQLError reports top-level errors returned alongside (or instead of)
// the data payload.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "admin graphql: " + strings.Join(e.Messages, "; ")
}
