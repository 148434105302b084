package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"pmlbot/internal/domain"
)

type ScoreStore struct {
	db *sqlx.DB
}

func NewScoreStore(db *sqlx.DB) *ScoreStore {
	return &ScoreStore{db: db}
}

// Upsert inserts the record, or overwrites only the score when the comment
// was seen before. Team and author keep their first-sighting values even if
// the comment now matches a different team. Returns true when a new row was
// inserted.
func (s *ScoreStore) Upsert(ctx context.Context, rec *domain.ScoreRecord) (bool, error) {
	query := `
		INSERT INTO scores (team, comment_id, author, score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (comment_id) DO UPDATE SET
			score = EXCLUDED.score
		RETURNING (xmax = 0)`

	exec := GetExecutor(ctx, s.db)

	var inserted bool
	err := exec.QueryRowxContext(ctx, query,
		rec.Team,
		rec.CommentID,
		rec.Author,
		rec.Score,
	).Scan(&inserted)
	if err != nil {
		return false, err
	}

	return inserted, nil
}

// AuthorsForTeam returns the distinct authors with at least one score
// recorded under team, in first-sighting order.
func (s *ScoreStore) AuthorsForTeam(ctx context.Context, team string) ([]string, error) {
	query := `
		SELECT author FROM scores
		WHERE team = $1
		GROUP BY author
		ORDER BY MIN(id)`

	var authors []string
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &authors, query, team)
	return authors, err
}

// ScoresForAuthor returns every score credited to author across all teams,
// in recording order.
func (s *ScoreStore) ScoresForAuthor(ctx context.Context, author string) ([]int, error) {
	query := `SELECT score FROM scores WHERE author = $1 ORDER BY id`

	var scores []int
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &scores, query, author)
	return scores, err
}

// ScoresForAuthorInTeam is the team-scoped variant of ScoresForAuthor.
func (s *ScoreStore) ScoresForAuthorInTeam(ctx context.Context, author, team string) ([]int, error) {
	query := `SELECT score FROM scores WHERE author = $1 AND team = $2 ORDER BY id`

	var scores []int
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &scores, query, author, team)
	return scores, err
}
