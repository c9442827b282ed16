// Package reqid generates correlation IDs for outbound requests so client
// and server log lines can be joined.
package reqid

import "github.com/google/uuid"

// New returns a fresh request ID.
func New() string {
	return uuid.NewString()
}
