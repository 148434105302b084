package domain

import "time"

// ScanStats holds statistics about one scan cycle.
type ScanStats struct {
	Users        int
	SkippedUsers int
	Comments     int
	Triggered    int
	Recorded     int
	Malformed    int
	Skipped      int
	Published    int
	Duration     time.Duration
}

// LeaderboardStats holds statistics about one leaderboard publish pass.
type LeaderboardStats struct {
	Teams    int
	Updated  int
	Errors   int
	Duration time.Duration
}
