// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"gopkg.in/typ.v4/sync2"
)

// Pool reusable objects to reduce garbage collector
type Pool struct {
	Groups *sync2.Pool[[]*GroupRecord]
}

func NewPool() *Pool {
	return &Pool{
		Groups: &sync2.Pool[[]*GroupRecord]{
			New: func() []*GroupRecord {
				return make([]*GroupRecord, 0, 16)
			},
		},
	}
}
