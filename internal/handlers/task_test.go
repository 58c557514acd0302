package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/todorace-api/internal/dto"
	"github.com/yukikurage/todorace-api/internal/race"
)

func (s *APITestSuite) TestTaskLifecycleAndRace() {
	alice := s.helper.CreateUser("alice")
	bob := s.helper.CreateUser("bob")
	carol := s.helper.CreateUser("carol")
	group := s.helper.CreateGroup("Runners", alice)
	s.helper.AddMember(group, bob)
	aliceCookies := s.login(alice.ID)
	bobCookies := s.login(bob.ID)

	var ids []uint64
	for _, title := range []string{"Stretch", "Run 5k", "Swim", "Rest"} {
		w := s.do(http.MethodPost, fmt.Sprintf("/api/groups/%d/tasks", group.ID), map[string]string{"title": title}, aliceCookies)
		s.Require().Equal(http.StatusCreated, w.Code)
		var task dto.TaskDTO
		s.decode(w, &task)
		ids = append(ids, task.ID)
	}

	for _, id := range ids[:2] {
		w := s.do(http.MethodPatch, fmt.Sprintf("/api/tasks/%d/toggle", id), nil, aliceCookies)
		s.Require().Equal(http.StatusOK, w.Code)
		var task dto.TaskDTO
		s.decode(w, &task)
		s.True(task.Completed)
		s.NotNil(task.CompletedAt)
	}
	s.Len(s.notifier.Sent(), 2)

	w := s.do(http.MethodPatch, fmt.Sprintf("/api/tasks/%d/toggle", ids[2]), nil, bobCookies)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/groups/%d/tasks?user_id=%d&completed=true", group.ID, alice.ID), nil, bobCookies)
	s.Require().Equal(http.StatusOK, w.Code)
	var done []dto.TaskDTO
	s.decode(w, &done)
	s.Len(done, 2)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/groups/%d/race", group.ID), nil, bobCookies)
	s.Require().Equal(http.StatusOK, w.Code)
	var standings dto.RaceDTO
	s.decode(w, &standings)
	s.Equal([]race.Participant{
		{UserID: alice.ID, Username: "alice", CompletedTasks: 2, TotalTasks: 4, ProgressPercentage: 50},
		{UserID: bob.ID, Username: "bob", CompletedTasks: 0, TotalTasks: 1, ProgressPercentage: 0},
	}, standings.Participants)
	s.Require().NotNil(standings.LeaderID)
	s.Equal(alice.ID, *standings.LeaderID)
	s.Equal(4, standings.TrackScale)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/groups/%d/race", group.ID), nil, s.login(carol.ID))
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", ids[3]), nil, aliceCookies)
	s.Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", ids[3]), nil, aliceCookies)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestTaskValidation() {
	alice := s.helper.CreateUser("alice")
	group := s.helper.CreateGroup("Runners", alice)
	cookies := s.login(alice.ID)

	w := s.do(http.MethodPost, fmt.Sprintf("/api/groups/%d/tasks", group.ID), map[string]string{"title": "   "}, cookies)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/groups/%d/tasks?user_id=abc", group.ID), nil, cookies)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/groups/%d/tasks/suggest", group.ID), map[string]string{"text": "get fit"}, cookies)
	s.Equal(http.StatusServiceUnavailable, w.Code)
}
