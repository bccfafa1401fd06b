// models/leaderboard.go - Cached leaderboard snapshots
package models

import (
	"encoding/json"
	"time"

	"winup/game"
)

// LeaderboardSnapshot caches one ranked board with its fetch
// timestamp, so the midnight rollover check knows when a refresh is
// due.
type LeaderboardSnapshot struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Metric      string    `json:"metric" gorm:"uniqueIndex;size:10;not null"`
	EntriesJSON string    `json:"-" gorm:"type:text"`
	FetchedAt   time.Time `json:"fetched_at"`
}

func (LeaderboardSnapshot) TableName() string {
	return "leaderboard_snapshots"
}

func (s *LeaderboardSnapshot) Entries() ([]game.Entry, error) {
	var entries []game.Entry
	if s.EntriesJSON == "" {
		return entries, nil
	}
	err := json.Unmarshal([]byte(s.EntriesJSON), &entries)
	return entries, err
}

func (s *LeaderboardSnapshot) SetEntries(entries []game.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	s.EntriesJSON = string(data)
	return nil
}
