package postgres

import (
	"database/sql"
	"strings"
	"time"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	tt := t
	return &tt
}

func timeOrZero(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// clubAllowSet lowers the configured club names. Nil disables the
// restriction.
func clubAllowSet(clubs []string) map[string]struct{} {
	if len(clubs) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(clubs))
	for _, c := range clubs {
		out[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	return out
}

func clubAllowed(set map[string]struct{}, club string) bool {
	if set == nil {
		return true
	}
	_, ok := set[strings.ToLower(strings.TrimSpace(club))]
	return ok
}
