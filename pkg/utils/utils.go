// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package utils

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	ulid "github.com/oklog/ulid/v2"
)

var (
	ulidMutex   sync.Mutex
	ulidEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// GenerateUUID generates uuid without hyphens.
func GenerateUUID() string {
	id, _ := uuid.NewRandom()
	return strings.ReplaceAll(id.String(), "-", "")
}

// NewTicketID returns an id that sorts by the given enqueue time. Times
// before the unix epoch share the zero timestamp.
func NewTicketID(t time.Time) string {
	var ms uint64
	if t.After(time.Unix(0, 0)) {
		ms = ulid.Timestamp(t)
	}

	ulidMutex.Lock()
	defer ulidMutex.Unlock()
	return ulid.MustNew(ms, ulidEntropy).String()
}

// Contains return true if val exist in list, else return false.
func Contains[T comparable](list []T, val T) bool {
	for _, v := range list {
		if v == val {
			return true
		}
	}
	return false
}
