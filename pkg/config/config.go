// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"time"

	"github.com/caarlos0/env"
)

type Config struct {
	InviteRemindSecond              int     `env:"INVITE_REMIND_SECOND"                envDefault:"20"                          envDocs:"confirm window: when the invite is re-issued or reminded"`
	InviteAcceptWaitSecond          int     `env:"INVITE_ACCEPT_WAIT_SECOND"           envDefault:"80"                          envDocs:"time an invited participant has to enter before being removed from queue"`
	ReinviteLimit                   int     `env:"REINVITE_LIMIT"                      envDefault:"1"                           envDocs:"how many times the confirm window re-issues an invite with a fresh deadline"`
	PremadeGroupWaitForMatchSecond  int     `env:"PREMADE_GROUP_WAIT_FOR_MATCH_SECOND" envDefault:"1800"                        envDocs:"after this wait a premade group is moved to the pickup bucket (0 disables)"`
	OfflineGraceSecond              int     `env:"OFFLINE_GRACE_SECOND"                envDefault:"0"                           envDocs:"participants not seen online (see Touch) for this long are removed (0 disables)"`
	SkirmishWaitSecond              int     `env:"SKIRMISH_WAIT_SECOND"                envDefault:"60"                          envDocs:"wait of the oldest group before a same-faction skirmish may be formed"`
	ArenaMaxRatingDifference        int     `env:"ARENA_MAX_RATING_DIFFERENCE"         envDefault:"150"                         envDocs:"max matchmaking rating distance for rated matches (0 means unlimited)"`
	RatingDiscardSecond             int     `env:"RATING_DISCARD_SECOND"               envDefault:"600"                         envDocs:"rated teams waiting longer than this ignore the rating distance"`
	WaitSampleSize                  int     `env:"WAIT_SAMPLE_SIZE"                    envDefault:"10"                          envDocs:"number of realized waits averaged per team and bracket"`
	NoBalanceMaxSurplus             int     `env:"NO_BALANCE_MAX_SURPLUS"              envDefault:"0"                           envDocs:"max headcount difference for the no-balance policy (0 means unlimited)"`
	PickupOverflowTolerance         int     `env:"PICKUP_OVERFLOW_TOLERANCE"           envDefault:"0"                           envDocs:"headcount a final pickup group may add above the desired size, within side capacity"`
	RedisNotifyKey                  string  `env:"REDIS_NOTIFY_KEY"                    envDefault:"bracketqueue:notifications"  envDocs:"redis list the notifier pushes session notifications to"`
	RedisNotifyMaxLen               int     `env:"REDIS_NOTIFY_MAX_LEN"                envDefault:"10000"                       envDocs:"redis notification list is trimmed to this length"`
	ZipkinEndpoint                  string  `env:"ZIPKIN_ENDPOINT"                     envDefault:""                            envDocs:"zipkin collector url, tracing is disabled when empty"`
	TraceSampleRatio                float64 `env:"TRACE_SAMPLE_RATIO"                  envDefault:"1"                           envDocs:"fraction of root spans sampled"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) InviteRemind() time.Duration {
	return time.Duration(c.InviteRemindSecond) * time.Second
}

func (c *Config) InviteAcceptWait() time.Duration {
	return time.Duration(c.InviteAcceptWaitSecond) * time.Second
}

func (c *Config) PremadeGroupWaitForMatch() time.Duration {
	return time.Duration(c.PremadeGroupWaitForMatchSecond) * time.Second
}

func (c *Config) OfflineGrace() time.Duration {
	return time.Duration(c.OfflineGraceSecond) * time.Second
}

func (c *Config) SkirmishWait() time.Duration {
	return time.Duration(c.SkirmishWaitSecond) * time.Second
}

func (c *Config) RatingDiscard() time.Duration {
	return time.Duration(c.RatingDiscardSecond) * time.Second
}
