package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	programPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gym_manager",
		Subsystem: "persistence",
		Name:      "last_program_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout program persisted.",
	})
	schedulePersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gym_manager",
		Subsystem: "persistence",
		Name:      "last_schedule_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent schedule template persisted.",
	})
	scheduleConflictsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gym_manager",
		Subsystem: "scheduling",
		Name:      "timeslot_conflicts_detected_total",
		Help:      "Count of timeslot conflicts reported by the validator.",
	})
	volumeReportsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gym_manager",
		Subsystem: "programs",
		Name:      "volume_reports_served_total",
		Help:      "Count of program volume reports computed for API callers.",
	})
)

func init() {
	prometheus.MustRegister(
		programPersistGauge,
		schedulePersistGauge,
		scheduleConflictsCounter,
		volumeReportsCounter,
	)
}

// RecordProgramPersisted updates the program persistence watermark gauge.
func RecordProgramPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	programPersistGauge.Set(float64(ts.Unix()))
}

// RecordSchedulePersisted updates the schedule persistence watermark gauge.
func RecordSchedulePersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	schedulePersistGauge.Set(float64(ts.Unix()))
}

// RecordScheduleConflicts counts conflicts reported to API callers.
func RecordScheduleConflicts(n int) {
	if n <= 0 {
		return
	}
	scheduleConflictsCounter.Add(float64(n))
}

// RecordVolumeReport counts volume reports served.
func RecordVolumeReport() {
	volumeReportsCounter.Inc()
}
