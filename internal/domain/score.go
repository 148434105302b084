package domain

// ScoreRecord is one row in the scores table. There is at most one record per
// comment; team and author are fixed at first sighting, score tracks the
// latest value seen.
type ScoreRecord struct {
	Team      string `db:"team"`
	CommentID string `db:"comment_id"`
	Author    string `db:"author"`
	Score     int    `db:"score"`
}

// Standing is one leaderboard row: an author and their summed points.
type Standing struct {
	Author string
	Total  int
}
