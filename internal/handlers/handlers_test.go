package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/todorace-api/internal/constants"
	apierrors "github.com/yukikurage/todorace-api/internal/errors"
	"github.com/yukikurage/todorace-api/internal/notify"
	"github.com/yukikurage/todorace-api/internal/repository"
	"github.com/yukikurage/todorace-api/internal/services"
	"github.com/yukikurage/todorace-api/internal/testutil"
	"gorm.io/gorm"
)

// APITestSuite drives the API through the full router with a cookie session
// store and an in-memory database.
type APITestSuite struct {
	suite.Suite
	db       *gorm.DB
	helper   *testutil.TestHelper
	notifier *testutil.RecordingNotifier
	hub      *notify.Hub
	tickets  *notify.Tickets
	router   *gin.Engine
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.db = testutil.NewTestDB(s.T())
	s.helper = testutil.NewTestHelper(s.T(), s.db)
	s.notifier = &testutil.RecordingNotifier{}
	s.hub = notify.NewHub(notify.DefaultHubConfig())
	s.tickets = notify.NewTickets("test-secret", time.Minute)
	s.T().Cleanup(s.hub.Close)

	users := repository.NewUserRepository(s.db)
	groups := repository.NewGroupRepository(s.db)
	tasks := repository.NewTaskRepository(s.db)
	requests := repository.NewJoinRequestRepository(s.db)

	authService := services.NewAuthService(users)
	groupService := services.NewGroupService(groups, users)

	s.router = gin.New()
	s.router.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	s.router.GET("/test/login/:id", func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, id)
		s.Require().NoError(session.Save())
		c.Status(http.StatusNoContent)
	})

	RegisterRoutes(s.router, Handlers{
		Auth:        NewAuthHandler(authService),
		Group:       NewGroupHandler(groupService),
		JoinRequest: NewJoinRequestHandler(services.NewJoinRequestService(requests, groups, users, s.notifier)),
		Task:        NewTaskHandler(services.NewTaskService(tasks, groups, nil, s.notifier)),
		Race:        NewRaceHandler(services.NewRaceService(groups, tasks)),
		Realtime:    NewRealtimeHandler(s.hub, s.tickets),
	}, groupService)
}

// login returns the session cookies for userID.
func (s *APITestSuite) login(userID uint64) []*http.Cookie {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test/login/"+strconv.FormatUint(userID, 10), nil))
	s.Require().Equal(http.StatusNoContent, w.Code)
	return w.Result().Cookies()
}

func (s *APITestSuite) do(method, url string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *APITestSuite) errorCode(w *httptest.ResponseRecorder) string {
	var body apierrors.APIError
	s.decode(w, &body)
	return body.Code
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestProtectedRoutesRequireSession() {
	for _, route := range []struct{ method, url string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/groups"},
		{http.MethodPost, "/api/groups/1/join-requests"},
		{http.MethodPost, "/api/join-requests/1/accept"},
		{http.MethodPatch, "/api/tasks/1/toggle"},
		{http.MethodGet, "/api/realtime/ticket"},
	} {
		w := s.do(route.method, route.url, nil, nil)
		s.Equal(http.StatusUnauthorized, w.Code, route.url)
	}
}

func (s *APITestSuite) TestWebsocketRejectsMissingTicket() {
	w := s.do(http.MethodGet, "/ws", nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/ws?ticket=forged", nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestIssueTicket() {
	alice := s.helper.CreateUser("alice")

	w := s.do(http.MethodGet, "/api/realtime/ticket", nil, s.login(alice.ID))
	s.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Ticket    string    `json:"ticket"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	s.decode(w, &body)

	userID, err := s.tickets.Verify(body.Ticket)
	s.Require().NoError(err)
	s.Equal(alice.ID, userID)
}

func (s *APITestSuite) TestNotificationReachesConnectedCreator() {
	alice := s.helper.CreateUser("alice")
	ticket, _, err := s.tickets.Issue(alice.ID)
	s.Require().NoError(err)

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	session, err := notify.NewClient("ws"+srv.URL[len("http"):]+"/ws?ticket="+ticket, nil, notify.DefaultReconnectPolicy()).
		Connect(context.Background())
	s.Require().NoError(err)
	defer session.Close()

	s.Require().Eventually(func() bool { return s.hub.IsOnline(alice.ID) }, 2*time.Second, 10*time.Millisecond)
	s.hub.Notify(context.Background(), alice.ID, notify.NewEvent(notify.EventNewJoinRequest, notify.JoinRequestPayload{Username: "bob"}))

	select {
	case ev := <-session.Events():
		s.Equal(notify.EventNewJoinRequest, ev.Type)
	case <-time.After(2 * time.Second):
		s.Fail("no event received")
	}
}
