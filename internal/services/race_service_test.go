package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todorace-api/internal/membership"
	"github.com/yukikurage/todorace-api/internal/race"
	"github.com/yukikurage/todorace-api/internal/repository"
	"github.com/yukikurage/todorace-api/internal/testutil"
)

func TestRaceService_UnknownGroup(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewRaceService(repository.NewGroupRepository(db), repository.NewTaskRepository(db))

	_, err := svc.ComputeRaceProgress(999)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

// Runners: alice creates the group and finishes two of four tasks, bob joins
// through a request and has no tasks yet.
func TestRaceService_RunnersEndToEnd(t *testing.T) {
	db := testutil.NewTestDB(t)
	h := testutil.NewTestHelper(t, db)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	groups := repository.NewGroupRepository(db)
	tasks := repository.NewTaskRepository(db)
	notifier := &testutil.RecordingNotifier{}

	groupSvc := NewGroupService(groups, users)
	requestSvc := NewJoinRequestService(repository.NewJoinRequestRepository(db), groups, users, notifier)
	taskSvc := NewTaskService(tasks, groups, nil, notifier)
	raceSvc := NewRaceService(groups, tasks)

	alice := h.CreateUser("alice")
	bob := h.CreateUser("bob")

	group, err := groupSvc.CreateGroup(CreateGroupInput{Name: "Runners", CreatorID: alice.ID})
	require.NoError(t, err)

	for i, title := range []string{"Stretch", "Run 5k", "Swim", "Rest"} {
		task, err := taskSvc.CreateTask(CreateTaskInput{Title: title, GroupID: group.ID, UserID: alice.ID})
		require.NoError(t, err)
		if i < 2 {
			_, err = taskSvc.ToggleTask(ctx, task.ID, alice.ID)
			require.NoError(t, err)
		}
	}

	req, err := requestSvc.SubmitJoinRequest(ctx, group.ID, bob.ID)
	require.NoError(t, err)

	participants, err := raceSvc.ComputeRaceProgress(group.ID)
	require.NoError(t, err)
	assert.Equal(t, []race.Participant{
		{UserID: alice.ID, Username: "alice", CompletedTasks: 2, TotalTasks: 4, ProgressPercentage: 50},
	}, participants)

	_, err = requestSvc.ResolveJoinRequest(ctx, req.ID, alice.ID, membership.DecisionAccept)
	require.NoError(t, err)

	participants, err = raceSvc.ComputeRaceProgress(group.ID)
	require.NoError(t, err)
	assert.Equal(t, []race.Participant{
		{UserID: alice.ID, Username: "alice", CompletedTasks: 2, TotalTasks: 4, ProgressPercentage: 50},
		{UserID: bob.ID, Username: "bob", CompletedTasks: 0, TotalTasks: 1, ProgressPercentage: 0},
	}, participants)

	leader, ok := race.Leader(participants)
	require.True(t, ok)
	assert.Equal(t, alice.ID, leader.UserID)
	assert.Equal(t, 4, race.TrackScale(participants))
}

func TestRaceService_RaceForLoadedGroup(t *testing.T) {
	db := testutil.NewTestDB(t)
	h := testutil.NewTestHelper(t, db)
	groups := repository.NewGroupRepository(db)
	svc := NewRaceService(groups, repository.NewTaskRepository(db))

	alice := h.CreateUser("alice")
	group := h.CreateGroup("Runners", alice)
	h.CreateTasks(group, alice, 1, 1)

	loaded, err := groups.FindByID(group.ID)
	require.NoError(t, err)

	participants, err := svc.RaceForGroup(loaded)
	require.NoError(t, err)
	assert.Equal(t, []race.Participant{
		{UserID: alice.ID, Username: "alice", CompletedTasks: 1, TotalTasks: 1, ProgressPercentage: 100},
	}, participants)
}
