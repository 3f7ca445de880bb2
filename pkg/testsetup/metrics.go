// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"time"

	"github.com/AccelByte/extend-bracket-queue/pkg/metrics"
)

type stubMetricsCollection struct{}

func (s stubMetricsCollection) GroupsInQueue(bracket string, bucket string, numGroups int) {
}

func (s stubMetricsCollection) AddInvite(bracket string, team string) {
}

func (s stubMetricsCollection) AddRemoval(bracket string, reason string) {
}

func (s stubMetricsCollection) AddFormationElapsedTimeMs(bracket, function string, elapsedTime time.Duration) {
}

func (s stubMetricsCollection) AddMatchFormed(bracket string, function string) {
}

func (s stubMetricsCollection) AddUnmatchedReason(bracket string, function string, reason string) {
}

func (s stubMetricsCollection) SetAverageWait(bracket string, team string, wait time.Duration) {
}

func (s stubMetricsCollection) AddStaleTimer(kind string) {
}

func NewMetrics() metrics.QueueMetrics {
	return stubMetricsCollection{}
}
