package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	apierrors "github.com/yukikurage/todorace-api/internal/errors"
	"github.com/yukikurage/todorace-api/internal/membership"
	"github.com/yukikurage/todorace-api/internal/models"
	"github.com/yukikurage/todorace-api/internal/notify"
	"github.com/yukikurage/todorace-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrJoinRequestNotFound  = apierrors.New(apierrors.ErrNotFound, "join request not found")
	ErrJoinRequestForbidden = apierrors.New(apierrors.ErrForbidden, "not authorized to view this join request")
)

// JoinRequestService drives the membership lifecycle: it loads the current
// state, asks the membership state machine for the next one and persists it
// with conditional writes so concurrent resolutions cannot both win.
type JoinRequestService struct {
	requestRepo repository.JoinRequestRepository
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	notifier    notify.Notifier
	now         func() time.Time
}

// NewJoinRequestService creates a new JoinRequestService. A nil notifier
// disables notifications.
func NewJoinRequestService(
	requestRepo repository.JoinRequestRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	notifier notify.Notifier,
) *JoinRequestService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &JoinRequestService{
		requestRepo: requestRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

// SubmitJoinRequest creates a pending request from userID to join groupID and
// notifies the group creator.
func (s *JoinRequestService) SubmitJoinRequest(ctx context.Context, groupID, userID uint64) (*models.JoinRequest, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	group, err := s.findGroup(groupID)
	if err != nil {
		return nil, err
	}

	existing, err := s.requestRepo.FindByGroupAndUser(groupID, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing request: %w", err)
		}
		existing = nil
	}

	if _, err := membership.Transition(membership.Current(group, userID, existing), membership.RequestJoin); err != nil {
		return nil, err
	}

	request := &models.JoinRequest{
		GroupID:   group.ID,
		UserID:    user.ID,
		Username:  user.Username,
		GroupName: group.Name,
		Status:    models.JoinRequestPending,
	}
	if err := s.requestRepo.Create(request); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, membership.ErrRequestExists
		}
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}

	s.notifier.Notify(ctx, group.CreatorID, notify.NewEvent(notify.EventNewJoinRequest, requestPayload(request)))
	return request, nil
}

// ResolveJoinRequest accepts or rejects a pending request. Only the group
// creator may resolve, and only a pending request can be resolved; accepting
// appends the requester to the group in the same transaction.
func (s *JoinRequestService) ResolveJoinRequest(ctx context.Context, requestID, actorID uint64, decision membership.Decision) (*models.JoinRequest, error) {
	request, err := s.findRequest(requestID)
	if err != nil {
		return nil, err
	}

	group, err := s.findGroup(request.GroupID)
	if err != nil {
		return nil, err
	}
	if err := membership.CanResolve(group, actorID); err != nil {
		return nil, err
	}

	next, err := membership.Transition(membership.FromRequest(request.Status), decision.Event())
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch decision {
	case membership.DecisionAccept:
		member := &models.GroupMember{
			GroupID:  group.ID,
			UserID:   request.UserID,
			Username: request.Username,
			Status:   models.MembershipAccepted,
			JoinedAt: now,
		}
		err = s.requestRepo.Accept(request.ID, member, now)
	default:
		err = s.requestRepo.Reject(request.ID, now)
	}
	if err != nil {
		if errors.Is(err, repository.ErrJoinRequestNotPending) {
			return nil, membership.ErrNotPending
		}
		return nil, fmt.Errorf("failed to resolve join request: %w", err)
	}

	status, _ := membership.RequestStatus(next)
	request.Status = status
	request.ResolvedAt = &now

	s.notifier.Notify(ctx, request.UserID, notify.NewEvent(notify.EventJoinRequestResolved, requestPayload(request)))
	return request, nil
}

// WithdrawJoinRequest deletes the caller's own pending request.
func (s *JoinRequestService) WithdrawJoinRequest(ctx context.Context, requestID, callerID uint64) error {
	request, err := s.findRequest(requestID)
	if err != nil {
		return err
	}

	if err := membership.CanWithdraw(request, callerID); err != nil {
		return err
	}
	if _, err := membership.Transition(membership.FromRequest(request.Status), membership.Withdraw); err != nil {
		return err
	}

	if err := s.requestRepo.DeletePending(request.ID, callerID); err != nil {
		if errors.Is(err, repository.ErrJoinRequestNotPending) {
			return membership.ErrNotPending
		}
		return fmt.Errorf("failed to withdraw join request: %w", err)
	}
	return nil
}

// GetJoinRequest returns a request visible to its requester and the group creator.
func (s *JoinRequestService) GetJoinRequest(requestID, actorID uint64) (*models.JoinRequest, error) {
	request, err := s.findRequest(requestID)
	if err != nil {
		return nil, err
	}
	if request.UserID == actorID {
		return request, nil
	}

	group, err := s.findGroup(request.GroupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != actorID {
		return nil, ErrJoinRequestForbidden
	}
	return request, nil
}

// ListForUser returns the user's own requests, newest first.
func (s *JoinRequestService) ListForUser(userID uint64, status *models.JoinRequestStatus) ([]models.JoinRequest, error) {
	requests, err := s.requestRepo.ListByUser(userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	return requests, nil
}

// ListForGroup returns the requests made to a group. Only its creator may list them.
func (s *JoinRequestService) ListForGroup(groupID, actorID uint64, status *models.JoinRequestStatus) ([]models.JoinRequest, error) {
	group, err := s.findGroup(groupID)
	if err != nil {
		return nil, err
	}
	if err := membership.CanResolve(group, actorID); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.ListByGroup(groupID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	return requests, nil
}

func (s *JoinRequestService) findRequest(id uint64) (*models.JoinRequest, error) {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJoinRequestNotFound
		}
		return nil, fmt.Errorf("failed to find join request: %w", err)
	}
	return request, nil
}

func (s *JoinRequestService) findGroup(id uint64) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	return group, nil
}

func requestPayload(r *models.JoinRequest) notify.JoinRequestPayload {
	return notify.JoinRequestPayload{
		RequestID: r.ID,
		GroupID:   r.GroupID,
		GroupName: r.GroupName,
		UserID:    r.UserID,
		Username:  r.Username,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}
