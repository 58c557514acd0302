package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/todorace-api/internal/dto"
	apierrors "github.com/yukikurage/todorace-api/internal/errors"
	"github.com/yukikurage/todorace-api/internal/models"
	"github.com/yukikurage/todorace-api/internal/notify"
)

func (s *APITestSuite) TestJoinRequestLifecycle() {
	alice := s.helper.CreateUser("alice")
	bob := s.helper.CreateUser("bob")
	group := s.helper.CreateGroup("Runners", alice)
	aliceCookies := s.login(alice.ID)
	bobCookies := s.login(bob.ID)

	w := s.do(http.MethodPost, fmt.Sprintf("/api/groups/%d/join-requests", group.ID), nil, bobCookies)
	s.Require().Equal(http.StatusCreated, w.Code)
	var req dto.JoinRequestDTO
	s.decode(w, &req)
	s.Equal(models.JoinRequestPending, req.Status)
	s.Equal("Runners", req.GroupName)

	sent := s.notifier.Sent()
	s.Require().Len(sent, 1)
	s.Equal(alice.ID, sent[0].RecipientID)
	s.Equal(notify.EventNewJoinRequest, sent[0].Event.Type)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/groups/%d/join-requests?status=pending", group.ID), nil, aliceCookies)
	s.Require().Equal(http.StatusOK, w.Code)
	var pending []dto.JoinRequestDTO
	s.decode(w, &pending)
	s.Require().Len(pending, 1)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/groups/%d/join-requests", group.ID), nil, bobCookies)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/join-requests/%d/accept", req.ID), nil, bobCookies)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/join-requests/%d/accept", req.ID), nil, aliceCookies)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &req)
	s.Equal(models.JoinRequestAccepted, req.Status)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/join-requests/%d/accept", req.ID), nil, aliceCookies)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(apierrors.ErrCodeInvalidState, s.errorCode(w))

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/join-requests/%d", req.ID), nil, bobCookies)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(apierrors.ErrCodeInvalidState, s.errorCode(w))

	w = s.do(http.MethodGet, "/api/join-requests", nil, bobCookies)
	s.Require().Equal(http.StatusOK, w.Code)
	var mine []dto.JoinRequestDTO
	s.decode(w, &mine)
	s.Require().Len(mine, 1)
	s.Equal(models.JoinRequestAccepted, mine[0].Status)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/groups/%d", group.ID), nil, bobCookies)
	s.Require().Equal(http.StatusOK, w.Code)
	var detail dto.GroupDTO
	s.decode(w, &detail)
	s.Require().Len(detail.Members, 2)
	s.Equal(bob.ID, detail.Members[1].UserID)
}

func (s *APITestSuite) TestJoinRequestRejectAndWithdraw() {
	alice := s.helper.CreateUser("alice")
	bob := s.helper.CreateUser("bob")
	carol := s.helper.CreateUser("carol")
	group := s.helper.CreateGroup("Runners", alice)
	bobReq := s.helper.CreateJoinRequest(group, bob, models.JoinRequestPending)
	carolReq := s.helper.CreateJoinRequest(group, carol, models.JoinRequestPending)

	w := s.do(http.MethodPost, fmt.Sprintf("/api/join-requests/%d/reject", bobReq.ID), nil, s.login(alice.ID))
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/join-requests/%d", carolReq.ID), nil, s.login(bob.ID))
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/join-requests/%d", carolReq.ID), nil, s.login(carol.ID))
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/join-requests/%d", carolReq.ID), nil, s.login(carol.ID))
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestJoinRequestBadInput() {
	alice := s.helper.CreateUser("alice")
	group := s.helper.CreateGroup("Runners", alice)
	cookies := s.login(alice.ID)

	w := s.do(http.MethodPost, fmt.Sprintf("/api/groups/%d/join-requests", group.ID), nil, cookies)
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/groups/999/join-requests", nil, cookies)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/join-requests?status=maybe", nil, cookies)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/join-requests/abc/accept", nil, cookies)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestResolveJoinRequestWithDecision() {
	alice := s.helper.CreateUser("alice")
	bob := s.helper.CreateUser("bob")
	carol := s.helper.CreateUser("carol")
	group := s.helper.CreateGroup("Runners", alice)
	bobReq := s.helper.CreateJoinRequest(group, bob, models.JoinRequestPending)
	carolReq := s.helper.CreateJoinRequest(group, carol, models.JoinRequestPending)
	cookies := s.login(alice.ID)

	w := s.do(http.MethodPost, fmt.Sprintf("/api/join-requests/%d/resolve", bobReq.ID), map[string]string{"decision": "maybe"}, cookies)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apierrors.ErrCodeInvalidInput, s.errorCode(w))

	w = s.do(http.MethodPost, fmt.Sprintf("/api/join-requests/%d/resolve", bobReq.ID), nil, cookies)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/join-requests/%d/resolve", bobReq.ID), map[string]string{"decision": "Accept"}, cookies)
	s.Require().Equal(http.StatusOK, w.Code)
	var req dto.JoinRequestDTO
	s.decode(w, &req)
	s.Equal(models.JoinRequestAccepted, req.Status)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/join-requests/%d/resolve", carolReq.ID), map[string]string{"decision": "reject"}, cookies)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &req)
	s.Equal(models.JoinRequestRejected, req.Status)
}
