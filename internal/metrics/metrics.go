package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan cycle metrics
var (
	// UsersScanned counts scanned users by status (ok/skipped)
	UsersScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pmlbot_users_scanned_total",
			Help: "Tracked users scanned by status",
		},
		[]string{"status"},
	)

	// CommentsScanned counts comments examined by the trigger parser
	CommentsScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pmlbot_comments_scanned_total",
			Help: "Comments examined by the trigger parser",
		},
	)

	// ScoresRecorded counts score upserts by action (create/update)
	ScoresRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pmlbot_scores_recorded_total",
			Help: "Score records upserted by action",
		},
		[]string{"action"},
	)

	// CommentsSkipped counts comments dropped by reason (empty_body/malformed/missing_field/submission_lookup)
	CommentsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pmlbot_comments_skipped_total",
			Help: "Triggered comments skipped by reason",
		},
		[]string{"reason"},
	)

	// ScanDuration tracks full scan cycle duration in seconds
	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pmlbot_scan_duration_seconds",
			Help:    "Scan cycle duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
)

// Leaderboard metrics
var (
	// LeaderboardPushes counts leaderboard post edits by status (ok/error)
	LeaderboardPushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pmlbot_leaderboard_pushes_total",
			Help: "Leaderboard post edits by status",
		},
		[]string{"status"},
	)
)
