package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PuzzleMetrics holds all Prometheus metrics for the puzzle module
type PuzzleMetrics struct {
	// Submission metrics
	ResultsApplied   *prometheus.CounterVec
	ResultsRejected  *prometheus.CounterVec
	PointsAwarded    prometheus.Counter
	PenaltiesApplied prometheus.Counter

	// Population metrics
	Players prometheus.Gauge
	Puzzles prometheus.Gauge

	// Finalization and reward metrics
	Finalizations       prometheus.Counter
	FinalizationLatency prometheus.Histogram
	RewardsClaimed      prometheus.Counter
	ClaimsRejected      *prometheus.CounterVec

	// Lifecycle
	GameState prometheus.Gauge
}

var (
	puzzleMetricsOnce sync.Once
	puzzleMetrics     *PuzzleMetrics
)

// NewPuzzleMetrics creates and registers puzzle metrics (singleton pattern)
func NewPuzzleMetrics() *PuzzleMetrics {
	puzzleMetricsOnce.Do(func() {
		puzzleMetrics = &PuzzleMetrics{
			ResultsApplied: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "puzzle",
					Subsystem: "results",
					Name:      "applied_total",
					Help:      "Attestations applied, by correctness",
				},
				[]string{"correct"},
			),
			ResultsRejected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "puzzle",
					Subsystem: "results",
					Name:      "rejected_total",
					Help:      "Attestations rejected, by error class",
				},
				[]string{"class"},
			),
			PointsAwarded: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "puzzle",
					Subsystem: "results",
					Name:      "points_awarded_total",
					Help:      "Total points awarded for correct answers",
				},
			),
			PenaltiesApplied: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "puzzle",
					Subsystem: "results",
					Name:      "penalties_total",
					Help:      "Wrong-answer penalties applied",
				},
			),
			Players: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "puzzle",
					Name:      "players",
					Help:      "Players on the roster",
				},
			),
			Puzzles: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "puzzle",
					Name:      "puzzles",
					Help:      "Registered puzzle count",
				},
			),
			Finalizations: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "puzzle",
					Subsystem: "ranks",
					Name:      "finalizations_total",
					Help:      "Rank finalization passes",
				},
			),
			FinalizationLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "puzzle",
					Subsystem: "ranks",
					Name:      "finalization_seconds",
					Help:      "Wall time spent sorting and writing ranks",
					Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
				},
			),
			RewardsClaimed: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "puzzle",
					Subsystem: "rewards",
					Name:      "claimed_total",
					Help:      "Reward tokens minted",
				},
			),
			ClaimsRejected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "puzzle",
					Subsystem: "rewards",
					Name:      "rejected_total",
					Help:      "Reward claims rejected, by error class",
				},
				[]string{"class"},
			),
			GameState: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "puzzle",
					Name:      "game_state",
					Help:      "Lifecycle state (0 not started, 1 active, 2 ended)",
				},
			),
		}
	})
	return puzzleMetrics
}
