package handlers

import (
	"net/http"
	"strconv"

	"github.com/yukikurage/todorace-api/internal/dto"
	apierrors "github.com/yukikurage/todorace-api/internal/errors"
)

func (s *APITestSuite) TestSignupLoginAndMe() {
	w := s.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "NewUser",
		"password": "supersecret",
	}, nil)
	s.Require().Equal(http.StatusCreated, w.Code)

	var created dto.UserDTO
	s.decode(w, &created)
	s.Equal("newuser", created.Username)

	w = s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "newuser",
		"password": "supersecret",
	}, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	s.Require().NotEmpty(cookies, "expected session cookie to be set")

	w = s.do(http.MethodGet, "/api/auth/me", nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code)
	var me dto.UserDTO
	s.decode(w, &me)
	s.Equal(created.ID, me.ID)

	w = s.do(http.MethodPost, "/api/auth/logout", nil, cookies)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestSignupErrors() {
	w := s.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "alice",
		"password": "short",
	}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apierrors.ErrCodeInvalidInput, s.errorCode(w))

	s.helper.CreateUser("alice")
	w = s.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "Alice",
		"password": "supersecret",
	}, nil)
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	}, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestGetUser() {
	alice := s.helper.CreateUser("alice")
	cookies := s.login(alice.ID)

	w := s.do(http.MethodGet, "/api/users/"+strconv.FormatUint(alice.ID, 10), nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/users/username/ALICE", nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code)
	var user dto.UserDTO
	s.decode(w, &user)
	s.Equal(alice.ID, user.ID)

	w = s.do(http.MethodGet, "/api/users/999", nil, cookies)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/users/abc", nil, cookies)
	s.Equal(http.StatusBadRequest, w.Code)
}
