package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pmlbot/internal/config"
	"pmlbot/internal/domain"
	"pmlbot/internal/metrics"
	"pmlbot/internal/roster"
	"pmlbot/internal/trigger"
)

// deletedAuthor is what the remote reports for removed accounts.
const deletedAuthor = "[deleted]"

type scoreEvent struct {
	rec   domain.ScoreRecord
	isNew bool
}

// ScanService runs one pass over all tracked users, recording scores for
// triggered comments. The whole pass commits as a single transaction, so the
// leaderboard never reads a half-written cycle.
type ScanService struct {
	source    CommentSource
	scores    ScoreStore
	txManager TransactionManager
	publisher Publisher
	roster    *roster.Roster
	logger    *slog.Logger
	config    config.ScanConfig
}

func NewScanService(
	source CommentSource,
	scores ScoreStore,
	txManager TransactionManager,
	publisher Publisher,
	ros *roster.Roster,
	logger *slog.Logger,
	cfg config.ScanConfig,
) *ScanService {
	return &ScanService{
		source:    source,
		scores:    scores,
		txManager: txManager,
		publisher: publisher,
		roster:    ros,
		logger:    logger,
		config:    cfg,
	}
}

func (s *ScanService) Scan(ctx context.Context) (*domain.ScanStats, error) {
	startTime := time.Now()
	s.logger.Info("starting scan",
		"players", len(s.roster.Players),
		"scrape_limit", s.config.ScrapeLimit,
	)

	stats := &domain.ScanStats{}
	var events []scoreEvent

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for i, user := range s.roster.Players {
			if s.config.Verbose {
				s.logger.Info("scanning user",
					"user", user,
					"position", i+1,
					"total", len(s.roster.Players),
				)
			}

			comments, err := s.source.UserComments(txCtx, user, s.config.ScrapeLimit)
			if err != nil {
				s.logger.Error("failed to fetch comments, skipping user",
					"user", user,
					"error", err,
				)
				stats.SkippedUsers++
				metrics.UsersScanned.WithLabelValues("skipped").Inc()
				continue
			}

			stats.Users++
			metrics.UsersScanned.WithLabelValues("ok").Inc()

			for _, comment := range comments {
				stats.Comments++
				metrics.CommentsScanned.Inc()

				ev, err := s.processComment(txCtx, comment, stats)
				if err != nil {
					return err
				}
				if ev != nil {
					events = append(events, *ev)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan cycle: %w", err)
	}

	// Events go out only after the cycle has committed.
	if s.publisher != nil {
		for i := range events {
			if err := s.publisher.Publish(ctx, &events[i].rec, events[i].isNew); err != nil {
				s.logger.Error("failed to publish score event",
					"comment_id", events[i].rec.CommentID,
					"error", err,
				)
			} else {
				stats.Published++
			}
		}
	}

	stats.Duration = time.Since(startTime)
	metrics.ScanDuration.Observe(stats.Duration.Seconds())

	s.logger.Info("scan completed",
		"users", stats.Users,
		"skipped_users", stats.SkippedUsers,
		"comments", stats.Comments,
		"triggered", stats.Triggered,
		"recorded", stats.Recorded,
		"malformed", stats.Malformed,
		"skipped", stats.Skipped,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

// processComment classifies one comment and, if it qualifies, upserts its
// score. A nil event with nil error means the comment was skipped. Store
// errors propagate: without the store the bot cannot do anything useful.
func (s *ScanService) processComment(ctx context.Context, comment domain.Comment, stats *domain.ScanStats) (*scoreEvent, error) {
	if comment.Body == "" {
		stats.Skipped++
		metrics.CommentsSkipped.WithLabelValues("empty_body").Inc()
		return nil, nil
	}

	res := trigger.Classify(comment.Body, s.roster.Teams)
	if !res.Triggered {
		return nil, nil
	}
	stats.Triggered++

	if res.Mode == trigger.ModeMalformed {
		s.logger.Debug("triggered comment without mode marker",
			"comment_id", comment.ID,
			"team", res.Team,
		)
		stats.Malformed++
		metrics.CommentsSkipped.WithLabelValues("malformed").Inc()
		return nil, nil
	}

	if comment.ID == "" || comment.Author == "" || comment.Author == deletedAuthor {
		stats.Skipped++
		metrics.CommentsSkipped.WithLabelValues("missing_field").Inc()
		return nil, nil
	}

	score := comment.Score
	if res.Mode == trigger.ModeSubmission {
		if comment.LinkID == "" {
			stats.Skipped++
			metrics.CommentsSkipped.WithLabelValues("missing_field").Inc()
			return nil, nil
		}

		submission, err := s.source.Submission(ctx, comment.LinkID)
		if err != nil {
			s.logger.Error("failed to resolve submission, skipping comment",
				"comment_id", comment.ID,
				"link_id", comment.LinkID,
				"error", err,
			)
			stats.Skipped++
			metrics.CommentsSkipped.WithLabelValues("submission_lookup").Inc()
			return nil, nil
		}
		score = submission.Score
	}

	rec := domain.ScoreRecord{
		Team:      res.Team,
		CommentID: comment.ID,
		Author:    comment.Author,
		Score:     score,
	}

	isNew, err := s.scores.Upsert(ctx, &rec)
	if err != nil {
		return nil, fmt.Errorf("upsert score for comment %s: %w", comment.ID, err)
	}

	stats.Recorded++
	action := "update"
	if isNew {
		action = "create"
	}
	metrics.ScoresRecorded.WithLabelValues(action).Inc()

	return &scoreEvent{rec: rec, isNew: isNew}, nil
}
