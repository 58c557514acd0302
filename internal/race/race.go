// Package race turns a group's members and tasks into the per-member
// progress shown on the race track.
package race

import (
	"math"

	"github.com/yukikurage/todorace-api/internal/models"
)

// Participant is one lane on the track.
type Participant struct {
	UserID             uint64  `json:"userId"`
	Username           string  `json:"username"`
	CompletedTasks     int     `json:"completedTasks"`
	TotalTasks         int     `json:"totalTasks"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

// Compute returns one Participant per accepted member, in member-list order.
// TotalTasks is floored at 1 so a member without tasks reads 0/1, 0%.
// Tasks owned by anyone who is not an accepted member are ignored.
func Compute(members []models.GroupMember, tasks []models.Task) []Participant {
	type tally struct{ done, total int }
	counts := make(map[uint64]*tally, len(members))

	participants := make([]Participant, 0, len(members))
	for _, m := range members {
		if m.Status != models.MembershipAccepted {
			continue
		}
		if _, seen := counts[m.UserID]; seen {
			continue
		}
		counts[m.UserID] = &tally{}
		participants = append(participants, Participant{
			UserID:   m.UserID,
			Username: m.Username,
		})
	}

	for _, t := range tasks {
		c, ok := counts[t.UserID]
		if !ok {
			continue
		}
		c.total++
		if t.Completed {
			c.done++
		}
	}

	for i := range participants {
		c := counts[participants[i].UserID]
		total := max(c.total, 1)
		participants[i].CompletedTasks = c.done
		participants[i].TotalTasks = total
		participants[i].ProgressPercentage = percentage(c.done, total)
	}

	return participants
}

func percentage(done, total int) float64 {
	p := 100 * float64(done) / float64(total)
	return math.Round(p*100) / 100
}

// Leader returns the participant furthest along. Ties go to the earlier
// member. ok is false when there are no participants.
func Leader(participants []Participant) (leader Participant, ok bool) {
	for i, p := range participants {
		if i == 0 || p.ProgressPercentage > leader.ProgressPercentage {
			leader = p
		}
	}
	return leader, len(participants) > 0
}

// TrackScale is the largest task total on the track, at least 1.
func TrackScale(participants []Participant) int {
	scale := 1
	for _, p := range participants {
		scale = max(scale, p.TotalTasks)
	}
	return scale
}
