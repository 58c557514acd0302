package membership

import (
	"fmt"
	"strings"

	apierrors "github.com/yukikurage/todorace-api/internal/errors"
)

// Decision is the creator's answer to a pending join request.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// ParseDecision accepts "accept" or "reject" in any case.
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionAccept, DecisionReject:
		return d, nil
	}
	return "", fmt.Errorf("%w: decision must be accept or reject", apierrors.ErrValidation)
}

// Event returns the state machine event for d.
func (d Decision) Event() Event {
	if d == DecisionAccept {
		return Accept
	}
	return Reject
}
