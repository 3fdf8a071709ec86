package services

import "github.com/prometheus/client_golang/prometheus"

// Turn phases used as metric labels.
const (
	PhaseIntake = "intake"
	PhaseAdvice = "advice"
)

var (
	// turnsTotal counts submitted messages by the phase that answered them.
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_turns_total",
			Help: "Submitted messages by phase (intake or advice).",
		},
		[]string{"phase"},
	)

	// completionFailures counts completion calls that ended in the inline
	// error placeholder.
	completionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_completion_failures_total",
			Help: "Completion service calls that failed.",
		},
	)

	// feedbackTotal counts recorded feedback by verdict.
	feedbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_feedback_total",
			Help: "Recorded feedback by verdict (helpful or not_helpful).",
		},
		[]string{"verdict"},
	)
)

func init() {
	prometheus.MustRegister(turnsTotal, completionFailures, feedbackTotal)
}
