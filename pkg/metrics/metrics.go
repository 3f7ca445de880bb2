// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type QueueMetrics interface {
	GroupsInQueue(bracket string, bucket string, numGroups int)
	AddInvite(bracket string, team string)
	AddRemoval(bracket string, reason string)
	AddFormationElapsedTimeMs(bracket, function string, elapsedTime time.Duration)
	AddMatchFormed(bracket string, function string)
	AddUnmatchedReason(bracket string, function string, reason string)
	SetAverageWait(bracket string, team string, wait time.Duration)
	AddStaleTimer(kind string)
}

func NewMetrics(registry *prometheus.Registry) QueueMetrics {
	return setupPrometheusMetrics(registry)
}
