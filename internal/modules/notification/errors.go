package notification

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDeliveryFailed: all attempts exhausted. The booking's confirmed status
// is never touched because of this.
var ErrDeliveryFailed = errors.New("confirmation delivery failed")

// MissingFieldsError: the booking/event pair lacks data the template needs.
// Fatal, not retried.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}
