package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"pmlbot/internal/domain"
)

// CommentSource is the remote read/write surface the bot depends on.
type CommentSource interface {
	UserComments(ctx context.Context, user string, limit int) ([]domain.Comment, error)
	Submission(ctx context.Context, fullname string) (*domain.Submission, error)
	EditPost(ctx context.Context, postID string, body string) error
}

type ScoreStore interface {
	Upsert(ctx context.Context, rec *domain.ScoreRecord) (bool, error)
	AuthorsForTeam(ctx context.Context, team string) ([]string, error)
	ScoresForAuthor(ctx context.Context, author string) ([]int, error)
	ScoresForAuthorInTeam(ctx context.Context, author, team string) ([]int, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, rec *domain.ScoreRecord, isNew bool) error
	Close() error
}
