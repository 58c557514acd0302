package dto

import "github.com/yukikurage/todorace-api/internal/race"

// RaceDTO is the race track of a group
type RaceDTO struct {
	GroupID      uint64             `json:"groupId"`
	Participants []race.Participant `json:"participants"`
	LeaderID     *uint64            `json:"leaderId"`
	TrackScale   int                `json:"trackScale"`
}

func ToRaceDTO(groupID uint64, participants []race.Participant) RaceDTO {
	dto := RaceDTO{
		GroupID:      groupID,
		Participants: participants,
		TrackScale:   race.TrackScale(participants),
	}
	if leader, ok := race.Leader(participants); ok {
		dto.LeaderID = &leader.UserID
	}
	return dto
}
