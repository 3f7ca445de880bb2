// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package queue holds the queued groups of every bracket. It has no matching
// logic: groups are inserted, looked up, moved between buckets and removed.
package queue

import (
	"fmt"
	"slices"
	"time"

	"github.com/elliotchance/pie/v2"

	"github.com/AccelByte/extend-bracket-queue/pkg/envelope"
	"github.com/AccelByte/extend-bracket-queue/pkg/models"
	"github.com/AccelByte/extend-bracket-queue/pkg/utils"
)

// buckets holds the handles of one bracket, oldest first within each kind.
type buckets [models.BucketKindCount][]models.GroupHandle

// Store is the queue store. It is not safe for concurrent use; the engine
// drives it from a single logical thread.
type Store struct {
	groups       arena
	buckets      map[models.BracketID]*buckets
	participants map[models.Identity]*models.QueuedParticipant
	invited      map[string]*[models.TeamCount]int
}

func NewStore() *Store {
	return &Store{
		buckets:      make(map[models.BracketID]*buckets),
		participants: make(map[models.Identity]*models.QueuedParticipant),
		invited:      make(map[string]*[models.TeamCount]int),
	}
}

// Enqueue validates the request, files a new group record under its bucket
// and indexes every member.
func (s *Store) Enqueue(scope *envelope.Scope, req models.JoinRequest, now time.Time) (*models.GroupRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	members := req.AllMembers()
	for _, id := range members {
		if _, queued := s.participants[id]; queued {
			return nil, fmt.Errorf("%w: %s", models.ErrAlreadyQueued, id)
		}
	}

	record := &models.GroupRecord{
		TicketID:          utils.NewTicketID(now),
		Members:           make(map[models.Identity]*models.QueuedParticipant, len(members)),
		Team:              req.Team,
		Bracket:           req.Rules.ID,
		Kind:              models.BucketKindFor(req.Team, req.Premade()),
		RatedTeamID:       req.RatedTeam(),
		JoinTime:          now,
		InvitedSide:       req.Team,
		Rating:            req.RatingValue(),
		MatchmakingRating: req.MatchmakingRatingValue(),
	}
	record.Handle = s.groups.insert(record)

	for _, id := range members {
		participant := &models.QueuedParticipant{
			Identity:       id,
			LastSeenOnline: now,
			Group:          record.Handle,
		}
		record.Members[id] = participant
		s.participants[id] = participant
	}

	b := s.bracket(record.Bracket)
	b[record.Kind] = append(b[record.Kind], record.Handle)

	scope.Log.
		WithField("ticketID", record.TicketID).
		WithField("bracket", record.Bracket).
		WithField("bucket", record.Kind).
		WithField("size", record.Size()).
		Debug("group enqueued")

	return record, nil
}

// RemoveParticipant removes id from its group and drops the group once it is
// empty. It returns the group the participant belonged to and false when id
// was not queued. decreaseInviteCounters releases the participant's slot in
// the invite counters of the match the group is invited to.
func (s *Store) RemoveParticipant(scope *envelope.Scope, id models.Identity, decreaseInviteCounters bool) (*models.GroupRecord, bool) {
	participant, ok := s.participants[id]
	if !ok {
		return nil, false
	}
	delete(s.participants, id)

	record, ok := s.groups.get(participant.Group)
	if !ok || !record.HasMember(id) {
		scope.Log.
			WithError(models.ErrInvariantViolation).
			WithField("identity", id).
			Error("queued participant does not resolve to a group listing it")
		return nil, true
	}

	if decreaseInviteCounters && record.IsInvited() {
		s.DecreaseInvitedCount(record.InvitedMatchID, record.InvitedSide)
	}

	delete(record.Members, id)
	if record.Size() == 0 {
		s.removeGroup(record)
	}

	return record, true
}

func (s *Store) removeGroup(record *models.GroupRecord) {
	if b, ok := s.buckets[record.Bracket]; ok {
		handles := b[record.Kind]
		if index := pie.FindFirstUsing(handles, func(h models.GroupHandle) bool { return h == record.Handle }); index >= 0 {
			b[record.Kind] = slices.Delete(handles, index, index+1)
		}
		if s.bracketEmpty(b) {
			delete(s.buckets, record.Bracket)
		}
	}
	s.groups.release(record.Handle)
}

// Lookup returns the live group of a participant; false means not queued.
func (s *Store) Lookup(id models.Identity) (*models.GroupRecord, bool) {
	participant, ok := s.participants[id]
	if !ok {
		return nil, false
	}
	return s.groups.get(participant.Group)
}

func (s *Store) Participant(id models.Identity) (*models.QueuedParticipant, bool) {
	participant, ok := s.participants[id]
	return participant, ok
}

func (s *Store) Group(handle models.GroupHandle) (*models.GroupRecord, bool) {
	return s.groups.get(handle)
}

// Groups resolves one bucket, oldest first. The returned slice is a snapshot:
// removing a group afterwards does not disturb it.
func (s *Store) Groups(bracket models.BracketID, kind models.BucketKind) ([]*models.GroupRecord, error) {
	b, ok := s.buckets[bracket]
	if !ok {
		return nil, nil
	}

	records := make([]*models.GroupRecord, 0, len(b[kind]))
	for _, handle := range b[kind] {
		record, ok := s.groups.get(handle)
		if !ok {
			return nil, fmt.Errorf("%w: bracket %d bucket %s holds a released handle %v", models.ErrInvariantViolation, bracket, kind, handle)
		}
		if record.Size() == 0 {
			return nil, fmt.Errorf("%w: bracket %d bucket %s holds empty group %s", models.ErrInvariantViolation, bracket, kind, record.TicketID)
		}
		records = append(records, record)
	}
	return records, nil
}

// MoveToFront files record under kind, ahead of every group already there.
func (s *Store) MoveToFront(record *models.GroupRecord, kind models.BucketKind) {
	b := s.bracket(record.Bracket)
	handles := b[record.Kind]
	if index := pie.FindFirstUsing(handles, func(h models.GroupHandle) bool { return h == record.Handle }); index >= 0 {
		b[record.Kind] = slices.Delete(handles, index, index+1)
	}
	record.Kind = kind
	b[kind] = slices.Insert(b[kind], 0, record.Handle)
}

// Brackets returns the brackets that have at least one queued group.
func (s *Store) Brackets() []models.BracketID {
	return pie.Sort(pie.Keys(s.buckets))
}

func (s *Store) IsEmpty(bracket models.BracketID) bool {
	b, ok := s.buckets[bracket]
	return !ok || s.bracketEmpty(b)
}

// BucketLen returns the number of groups filed under one bucket.
func (s *Store) BucketLen(bracket models.BracketID, kind models.BucketKind) int {
	b, ok := s.buckets[bracket]
	if !ok {
		return 0
	}
	return len(b[kind])
}

// PlayersInQueue counts the participants of one team in a bracket, premade and pickup.
func (s *Store) PlayersInQueue(bracket models.BracketID, team models.Team) int {
	b, ok := s.buckets[bracket]
	if !ok {
		return 0
	}
	count := 0
	for _, kind := range []models.BucketKind{models.BucketKindFor(team, true), models.BucketKindFor(team, false)} {
		for _, handle := range b[kind] {
			if record, ok := s.groups.get(handle); ok {
				count += record.Size()
			}
		}
	}
	return count
}

// Touch records that a participant was seen online.
func (s *Store) Touch(id models.Identity, now time.Time) bool {
	participant, ok := s.participants[id]
	if !ok {
		return false
	}
	participant.LastSeenOnline = now
	return true
}

// StaleParticipants returns the participants last seen before cutoff.
func (s *Store) StaleParticipants(cutoff time.Time) []models.Identity {
	var stale []models.Identity
	for id, participant := range s.participants {
		if participant.LastSeenOnline.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	slices.Sort(stale)
	return stale
}

// InvitedGroups returns the groups holding a pending invite to matchID.
func (s *Store) InvitedGroups(matchID string) []*models.GroupRecord {
	var records []*models.GroupRecord
	s.groups.each(func(record *models.GroupRecord) bool {
		if record.InvitedMatchID == matchID {
			records = append(records, record)
		}
		return true
	})
	return records
}

func (s *Store) IncreaseInvitedCount(matchID string, side models.Team) {
	counts, ok := s.invited[matchID]
	if !ok {
		counts = &[models.TeamCount]int{}
		s.invited[matchID] = counts
	}
	counts[side]++
}

func (s *Store) DecreaseInvitedCount(matchID string, side models.Team) {
	if counts, ok := s.invited[matchID]; ok && counts[side] > 0 {
		counts[side]--
	}
}

// InvitedCount returns how many participants hold an unanswered invite for one side of a match.
func (s *Store) InvitedCount(matchID string, side models.Team) int {
	if counts, ok := s.invited[matchID]; ok {
		return counts[side]
	}
	return 0
}

// ForgetMatch drops the invite counters of a destroyed match.
func (s *Store) ForgetMatch(matchID string) {
	delete(s.invited, matchID)
}

// Len returns the number of queued groups.
func (s *Store) Len() int {
	return s.groups.live
}

func (s *Store) ParticipantCount() int {
	return len(s.participants)
}

// CheckInvariants verifies that participants and groups reference each other
// and that every indexed group is live and non-empty.
func (s *Store) CheckInvariants() error {
	for id, participant := range s.participants {
		record, ok := s.groups.get(participant.Group)
		if !ok {
			return fmt.Errorf("%w: participant %s points to a released group", models.ErrInvariantViolation, id)
		}
		if record.Members[id] != participant {
			return fmt.Errorf("%w: group %s does not list participant %s", models.ErrInvariantViolation, record.TicketID, id)
		}
	}

	indexed := 0
	for bracket, b := range s.buckets {
		for kind := range b {
			records, err := s.Groups(bracket, models.BucketKind(kind))
			if err != nil {
				return err
			}
			for _, record := range records {
				if record.Kind != models.BucketKind(kind) || record.Bracket != bracket {
					return fmt.Errorf("%w: group %s filed under the wrong bucket", models.ErrInvariantViolation, record.TicketID)
				}
				for id, participant := range record.Members {
					if s.participants[id] != participant {
						return fmt.Errorf("%w: member %s of group %s is not indexed", models.ErrInvariantViolation, id, record.TicketID)
					}
				}
			}
			indexed += len(records)
		}
	}

	if indexed != s.groups.live {
		return fmt.Errorf("%w: %d live groups but %d indexed", models.ErrInvariantViolation, s.groups.live, indexed)
	}
	return nil
}

func (s *Store) bracket(id models.BracketID) *buckets {
	b, ok := s.buckets[id]
	if !ok {
		b = &buckets{}
		s.buckets[id] = b
	}
	return b
}

func (s *Store) bracketEmpty(b *buckets) bool {
	for kind := range b {
		if len(b[kind]) > 0 {
			return false
		}
	}
	return true
}
