// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusMetrics struct {
	groupsInQueue        *prometheus.GaugeVec
	invites              *prometheus.CounterVec
	removals             *prometheus.CounterVec
	formationElapsedTime *prometheus.HistogramVec
	matchesFormed        *prometheus.CounterVec
	unmatchedReasons     *prometheus.CounterVec
	averageWaitSeconds   *prometheus.GaugeVec
	staleTimers          *prometheus.CounterVec
}

func setupPrometheusMetrics(registry *prometheus.Registry) prometheusMetrics {
	factory := promauto.With(registry)

	groupsInQueue := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ab_bracketqueue_groups_in_queue",
			Help: "Number of queued groups per bracket and bucket",
		}, []string{"bracket", "bucket"})

	invites := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_bracketqueue_invites_total",
			Help: "Number of participants invited to a match",
		}, []string{"bracket", "team"})

	removals := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_bracketqueue_removals_total",
			Help: "Number of participants removed from queue by reason",
		}, []string{"bracket", "reason"})

	//nolint:promlinter
	formationElapsedTime := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ab_bracketqueue_formation_elapsed_time_ms",
			Help:    "A histogram of match formation functions elapsed time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"bracket", "function"})

	matchesFormed := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_bracketqueue_matches_formed_total",
			Help: "Number of matches formed by formation function",
		}, []string{"bracket", "function"})

	unmatchedReasons := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_bracketqueue_unmatched_reasons_total",
			Help: "Reasons a match formation attempt did not produce a match",
		}, []string{"bracket", "function", "reason"})

	averageWaitSeconds := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ab_bracketqueue_average_wait_seconds",
			Help: "Rolling average of realized queue waits",
		}, []string{"bracket", "team"})

	staleTimers := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_bracketqueue_stale_timers_total",
			Help: "Invite timers that fired against a superseded deadline",
		}, []string{"kind"})

	return prometheusMetrics{
		groupsInQueue:        groupsInQueue,
		invites:              invites,
		removals:             removals,
		formationElapsedTime: formationElapsedTime,
		matchesFormed:        matchesFormed,
		unmatchedReasons:     unmatchedReasons,
		averageWaitSeconds:   averageWaitSeconds,
		staleTimers:          staleTimers,
	}
}

func (metrics prometheusMetrics) GroupsInQueue(bracket string, bucket string, numGroups int) {
	metrics.groupsInQueue.With(prometheus.Labels{"bracket": bracket, "bucket": bucket}).Set(float64(numGroups))
}

func (metrics prometheusMetrics) AddInvite(bracket string, team string) {
	metrics.invites.With(prometheus.Labels{"bracket": bracket, "team": team}).Inc()
}

func (metrics prometheusMetrics) AddRemoval(bracket string, reason string) {
	metrics.removals.With(prometheus.Labels{"bracket": bracket, "reason": reason}).Inc()
}

func (metrics prometheusMetrics) AddFormationElapsedTimeMs(bracket, function string, elapsedTime time.Duration) {
	metrics.formationElapsedTime.With(prometheus.Labels{"bracket": bracket, "function": function}).Observe(float64(elapsedTime.Milliseconds()))
}

func (metrics prometheusMetrics) AddMatchFormed(bracket string, function string) {
	metrics.matchesFormed.With(prometheus.Labels{"bracket": bracket, "function": function}).Inc()
}

func (metrics prometheusMetrics) AddUnmatchedReason(bracket string, function string, reason string) {
	metrics.unmatchedReasons.With(prometheus.Labels{"bracket": bracket, "function": function, "reason": reason}).Inc()
}

func (metrics prometheusMetrics) SetAverageWait(bracket string, team string, wait time.Duration) {
	metrics.averageWaitSeconds.With(prometheus.Labels{"bracket": bracket, "team": team}).Set(wait.Seconds())
}

func (metrics prometheusMetrics) AddStaleTimer(kind string) {
	metrics.staleTimers.With(prometheus.Labels{"kind": kind}).Inc()
}
