package rotate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinesWritten counts appended lines by severity class.
	// Labels: class (preserved, ordinary)
	LinesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "logkeep",
			Subsystem: "rotate",
			Name:      "lines_written_total",
			Help:      "Total number of lines appended to the log file",
		},
		[]string{"class"},
	)

	// RotationsTotal counts rotation attempts.
	// Labels: result (success, error)
	RotationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "logkeep",
			Subsystem: "rotate",
			Name:      "rotations_total",
			Help:      "Total number of rotation attempts",
		},
		[]string{"result"},
	)

	// LinesDropped counts ordinary lines discarded by rotation.
	LinesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "logkeep",
			Subsystem: "rotate",
			Name:      "lines_dropped_total",
			Help:      "Total number of ordinary lines dropped during rotation",
		},
	)

	// RotationDuration tracks how long rotations take.
	RotationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "logkeep",
			Subsystem: "rotate",
			Name:      "rotation_duration_seconds",
			Help:      "Duration of rotation operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// CurrentLines reports the line count of each backing file.
	// Labels: path
	CurrentLines = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "logkeep",
			Subsystem: "rotate",
			Name:      "current_lines",
			Help:      "Current number of lines in the log file",
		},
		[]string{"path"},
	)
)
