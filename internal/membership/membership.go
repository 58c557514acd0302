// Package membership holds the lifecycle of a user's relationship to a group:
// unaffiliated, pending join request, accepted or rejected. It is pure: callers
// load the group and request, ask for the next state, then persist it.
package membership

import (
	"fmt"

	apierrors "github.com/yukikurage/todorace-api/internal/errors"
	"github.com/yukikurage/todorace-api/internal/models"
)

type State string

const (
	Unaffiliated State = "unaffiliated"
	Pending      State = "pending"
	Accepted     State = "accepted"
	Rejected     State = "rejected"
)

type Event string

const (
	RequestJoin Event = "request-join"
	Accept      Event = "accept"
	Reject      Event = "reject"
	Withdraw    Event = "withdraw"
)

var (
	ErrAlreadyMember   = apierrors.New(apierrors.ErrConflict, "user is already a member of this group")
	ErrRequestExists   = apierrors.New(apierrors.ErrConflict, "join request already exists")
	ErrNotPending      = apierrors.New(apierrors.ErrInvalidState, "join request is not pending")
	ErrNotGroupCreator = apierrors.New(apierrors.ErrForbidden, "only the group creator can resolve join requests")
	ErrNotRequester    = apierrors.New(apierrors.ErrForbidden, "not authorized to withdraw this request")
)

// Current derives the state of (userID, group). An accepted member row wins
// over any join request; request may be nil.
func Current(group *models.Group, userID uint64, request *models.JoinRequest) State {
	if group != nil && group.IsAcceptedMember(userID) {
		return Accepted
	}
	if request == nil {
		return Unaffiliated
	}
	return FromRequest(request.Status)
}

// FromRequest maps a stored request status to a state.
func FromRequest(status models.JoinRequestStatus) State {
	switch status {
	case models.JoinRequestPending:
		return Pending
	case models.JoinRequestAccepted:
		return Accepted
	case models.JoinRequestRejected:
		return Rejected
	default:
		return Unaffiliated
	}
}

// Transition returns the state reached by applying event in state from.
// Withdrawing a pending request returns Unaffiliated: the request row is gone.
func Transition(from State, event Event) (State, error) {
	switch event {
	case RequestJoin:
		switch from {
		case Unaffiliated:
			return Pending, nil
		case Accepted:
			return from, ErrAlreadyMember
		default:
			return from, ErrRequestExists
		}
	case Accept, Reject, Withdraw:
		if from != Pending {
			return from, ErrNotPending
		}
		switch event {
		case Accept:
			return Accepted, nil
		case Reject:
			return Rejected, nil
		default:
			return Unaffiliated, nil
		}
	}
	return from, fmt.Errorf("%w: unknown membership event %q", apierrors.ErrValidation, event)
}

// RequestStatus returns the stored status for a state reached by a
// transition. ok is false for Unaffiliated, which has no stored request.
func RequestStatus(s State) (status models.JoinRequestStatus, ok bool) {
	switch s {
	case Pending:
		return models.JoinRequestPending, true
	case Accepted:
		return models.JoinRequestAccepted, true
	case Rejected:
		return models.JoinRequestRejected, true
	}
	return "", false
}

// CanResolve checks that actorID may accept or reject requests for group.
func CanResolve(group *models.Group, actorID uint64) error {
	if group == nil || group.CreatorID != actorID {
		return ErrNotGroupCreator
	}
	return nil
}

// CanWithdraw checks that actorID owns request.
func CanWithdraw(request *models.JoinRequest, actorID uint64) error {
	if request == nil || request.UserID != actorID {
		return ErrNotRequester
	}
	return nil
}
