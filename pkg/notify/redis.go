// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package notify delivers queue notifications to the session layer.
package notify

import (
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AccelByte/extend-bracket-queue/pkg/config"
	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/matchmaker"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
)

// RedisNotifier appends notifications as JSON to a redis list that the
// session layer consumes. The list is trimmed to the newest maxLen entries.
// Failed deliveries are logged and dropped.
type RedisNotifier struct {
	client redis.UniversalClient
	key    string
	maxLen int64
}

var _ matchmaker.SessionNotifier = (*RedisNotifier)(nil)

func NewRedisNotifier(cfg *config.Config, client redis.UniversalClient) *RedisNotifier {
	return &RedisNotifier{
		client: client,
		key:    cfg.RedisNotifyKey,
		maxLen: int64(cfg.RedisNotifyMaxLen),
	}
}

func (n *RedisNotifier) NotifyInvited(rootScope *envelope.Scope, identity models.Identity, matchID string, deadline time.Time) {
	n.publish(rootScope, matchmaker.Notification{
		Type:     matchmaker.NotificationInvited,
		Identity: identity,
		MatchID:  matchID,
		Deadline: deadline.UnixMilli(),
	})
}

func (n *RedisNotifier) NotifyRemovedFromQueue(rootScope *envelope.Scope, identity models.Identity, reason string) {
	n.publish(rootScope, matchmaker.Notification{
		Type:     matchmaker.NotificationRemoved,
		Identity: identity,
		Reason:   reason,
	})
}

func (n *RedisNotifier) publish(rootScope *envelope.Scope, notification matchmaker.Notification) {
	scope := rootScope.NewChildScope("RedisNotifier.publish")
	defer scope.Finish()

	payload, err := json.Marshal(notification)
	if err != nil {
		scope.Log.WithError(err).WithField("identity", notification.Identity).Warn("failed to encode notification")
		return
	}

	pipe := n.client.Pipeline()
	pipe.RPush(scope.Ctx, n.key, payload)
	if n.maxLen > 0 {
		pipe.LTrim(scope.Ctx, n.key, -n.maxLen, -1)
	}
	if _, err = pipe.Exec(scope.Ctx); err != nil {
		scope.Log.
			WithError(err).
			WithField("identity", notification.Identity).
			WithField("type", notification.Type).
			Warn("failed to deliver notification")
	}
}
