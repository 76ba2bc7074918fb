package contextstore

import (
	"sort"
	"time"

	"collabdesk-be/internal/entity"

	"github.com/google/uuid"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// TimeRange bounds entry timestamps inclusively on both ends.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Query filters context entries. Every field is optional; an empty slice
// means "no constraint", not "must be empty". Slice filters are any-of.
type Query struct {
	SessionId    *uuid.UUID
	AgentId      string
	ContextTypes []entity.ContextType
	Keys         []string
	Tags         []string
	Priorities   []entity.ContextPriority
	TimeRange    *TimeRange
	Limit        int
}

func (q Query) effectiveLimit() int {
	switch {
	case q.Limit <= 0:
		return defaultLimit
	case q.Limit > maxLimit:
		return maxLimit
	default:
		return q.Limit
	}
}

func (q Query) matches(e *entity.ContextEntry) bool {
	if q.SessionId != nil && e.SessionId != *q.SessionId {
		return false
	}
	if q.AgentId != "" && e.AgentId != q.AgentId {
		return false
	}
	if len(q.ContextTypes) > 0 && !containsType(q.ContextTypes, e.ContextType) {
		return false
	}
	if len(q.Keys) > 0 && !containsString(q.Keys, e.Key) {
		return false
	}
	if len(q.Tags) > 0 && !hasAnyTag(e.Tags, q.Tags) {
		return false
	}
	if len(q.Priorities) > 0 && !containsPriority(q.Priorities, e.Priority) {
		return false
	}
	if q.TimeRange != nil {
		// An inverted range (start after end) matches nothing; it is not
		// an error.
		if e.Timestamp.Before(q.TimeRange.Start) || e.Timestamp.After(q.TimeRange.End) {
			return false
		}
	}
	return true
}

func containsType(haystack []entity.ContextType, needle entity.ContextType) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func containsPriority(haystack []entity.ContextPriority, needle entity.ContextPriority) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

// hasAnyTag reports whether the entry carries at least one wanted tag.
func hasAnyTag(entryTags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range entryTags {
			if t == w {
				return true
			}
		}
	}
	return false
}

func sortByTimestampDesc(entries []entity.ContextEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}
