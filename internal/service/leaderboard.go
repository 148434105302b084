package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"pmlbot/internal/config"
	"pmlbot/internal/domain"
	"pmlbot/internal/metrics"
	"pmlbot/internal/roster"
)

// LeaderboardService aggregates stored scores into ranked per-team tables
// and pushes them to each team's leaderboard post.
type LeaderboardService struct {
	source     CommentSource
	scores     ScoreStore
	roster     *roster.Roster
	logger     *slog.Logger
	clock      clockwork.Clock
	teamScoped bool
}

func NewLeaderboardService(
	source CommentSource,
	scores ScoreStore,
	ros *roster.Roster,
	logger *slog.Logger,
	clock clockwork.Clock,
	cfg config.LeaderboardConfig,
) *LeaderboardService {
	return &LeaderboardService{
		source:     source,
		scores:     scores,
		roster:     ros,
		logger:     logger,
		clock:      clock,
		teamScoped: cfg.TeamScopedTotals,
	}
}

func (s *LeaderboardService) Publish(ctx context.Context) (*domain.LeaderboardStats, error) {
	startTime := time.Now()
	stats := &domain.LeaderboardStats{}

	for _, team := range s.roster.Teams {
		stats.Teams++

		standings, err := s.standings(ctx, team)
		if err != nil {
			return stats, fmt.Errorf("standings for %s: %w", team, err)
		}

		body := s.render(standings)

		if err := s.source.EditPost(ctx, s.roster.Posts[team], body); err != nil {
			s.logger.Error("failed to update leaderboard post, skipping team",
				"team", team,
				"post_id", s.roster.Posts[team],
				"error", err,
			)
			stats.Errors++
			metrics.LeaderboardPushes.WithLabelValues("error").Inc()
			continue
		}

		stats.Updated++
		metrics.LeaderboardPushes.WithLabelValues("ok").Inc()
		s.logger.Debug("updated leaderboard", "team", team, "players", len(standings))
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("leaderboards published",
		"teams", stats.Teams,
		"updated", stats.Updated,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}

// standings ranks a team's authors by total points, highest first. Unless
// team scoping is enabled, an author's total includes their scores recorded
// under every team: the store's author lookup has always been team-agnostic.
func (s *LeaderboardService) standings(ctx context.Context, team string) ([]domain.Standing, error) {
	authors, err := s.scores.AuthorsForTeam(ctx, team)
	if err != nil {
		return nil, err
	}

	standings := make([]domain.Standing, 0, len(authors))
	for _, author := range authors {
		var scores []int
		if s.teamScoped {
			scores, err = s.scores.ScoresForAuthorInTeam(ctx, author, team)
		} else {
			scores, err = s.scores.ScoresForAuthor(ctx, author)
		}
		if err != nil {
			return nil, err
		}

		total := 0
		for _, score := range scores {
			total += score
		}
		standings = append(standings, domain.Standing{Author: author, Total: total})
	}

	// Stable sort keeps author-enumeration order between equal totals.
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total > standings[j].Total
	})

	return standings, nil
}

func (s *LeaderboardService) render(standings []domain.Standing) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Last updated %s\n\n", s.clock.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString("| Player | Points |\n")
	sb.WriteString("|:------|------:|\n")

	for _, st := range standings {
		fmt.Fprintf(&sb, "|/u/%s|%d|\n", st.Author, st.Total)
	}

	return sb.String()
}
