package utils

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewConnID returns the identifier assigned to one live connection. Unique
// for the connection's lifetime; a reconnect gets a fresh one.
func NewConnID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		// Fallback to timestamp if entropy is unavailable.
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return id.String()
}
