package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/todorace-api/internal/dto"
	"github.com/yukikurage/todorace-api/internal/models"
)

func (s *APITestSuite) TestCreateAndGetGroup() {
	alice := s.helper.CreateUser("alice")
	cookies := s.login(alice.ID)

	w := s.do(http.MethodPost, "/api/groups", map[string]string{"name": "Runners"}, cookies)
	s.Require().Equal(http.StatusCreated, w.Code)

	var created dto.GroupDTO
	s.decode(w, &created)
	s.Equal("Runners", created.Name)
	s.Equal(alice.ID, created.CreatorID)
	s.Require().Len(created.Members, 1)
	s.Equal(models.MembershipAccepted, created.Members[0].Status)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/groups/%d", created.ID), nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/groups", map[string]string{"name": "Runners"}, cookies)
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/groups", map[string]string{"name": "ab"}, cookies)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/groups/999", nil, cookies)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestListAndSearchGroups() {
	alice := s.helper.CreateUser("alice")
	bob := s.helper.CreateUser("bob")
	s.helper.CreateGroup("Runners", alice)
	s.helper.CreateGroup("Readers", bob)
	cookies := s.login(alice.ID)

	w := s.do(http.MethodGet, "/api/groups", nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code)
	var mine []dto.GroupDTO
	s.decode(w, &mine)
	s.Require().Len(mine, 1)
	s.Equal("Runners", mine[0].Name)

	w = s.do(http.MethodGet, "/api/groups/search?q=rea&limit=5", nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code)
	var found dto.GroupSearchResponse
	s.decode(w, &found)
	s.Equal(int64(1), found.Pagination.Total)
	s.Equal(5, found.Pagination.Limit)
	s.Require().Len(found.Groups, 1)
	s.Equal("Readers", found.Groups[0].Name)
}
