package schedule

import (
	"strconv"
	"strings"
	"sync"
)

// Store holds the authoritative parsed schedule and the raw text it falls back to.
//
// The editable text and the uploaded text are tracked separately: whatever currently
// populates the editable field wins, and the upload is only used when the field is blank.
// Writers are last-write-wins replacements; none of the operations fail.
type Store struct {
	mu       sync.RWMutex
	edited   string
	uploaded string
	parsed   []WeekEntry
	hasParse bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// SetRawSchedule replaces the editable schedule text. An empty string means no schedule.
func (s *Store) SetRawSchedule(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edited = text
}

// LoadUpload records an uploaded schedule file and copies it into the editable text.
func (s *Store) LoadUpload(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded = text
	s.edited = text
}

// SetParsedWeeks replaces the parsed sequence wholesale.
func (s *Store) SetParsedWeeks(weeks []WeekEntry) {
	cp := make([]WeekEntry, len(weeks))
	copy(cp, weeks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.parsed = cp
	s.hasParse = true
}

// ParsedWeeks returns a copy of the parsed sequence and whether a parse has been loaded.
func (s *Store) ParsedWeeks() ([]WeekEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasParse {
		return nil, false
	}
	cp := make([]WeekEntry, len(s.parsed))
	copy(cp, s.parsed)
	return cp, true
}

// WeekCount returns the number of parsed weeks and whether a parse has been loaded.
func (s *Store) WeekCount() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.parsed), s.hasParse
}

// EffectiveText returns the trimmed editable text, or the uploaded text when the
// editable field is blank.
func (s *Store) EffectiveText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.effectiveLocked()
}

func (s *Store) effectiveLocked() string {
	if t := strings.TrimSpace(s.edited); t != "" {
		return t
	}
	return s.uploaded
}

// Context returns the schedule context for a week. It never returns an absent context;
// a parsed entry with an empty activity is returned as is.
func (s *Store) Context(week int) Context {
	ctx, _ := s.Resolve(week)
	return ctx
}

// Resolve returns the schedule context for a week together with where it came from.
// Weeks below 1 are treated as week 1.
func (s *Store) Resolve(week int) (Context, Source) {
	if week < 1 {
		week = 1
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.parsed) >= week {
		return s.parsed[week-1].Context(), SourceParsed
	}

	lines := nonBlankLines(s.effectiveLocked())
	if len(lines) >= week {
		return Context{Activity: lines[week-1]}, SourceRawText
	}
	return Context{Activity: placeholderActivity(week)}, SourcePlaceholder
}

// Panel returns the week detail panel shown next to the week slider.
func (s *Store) Panel(week int) WeekPanel {
	if week < 1 {
		week = 1
	}
	p := WeekPanel{Week: week, Label: WeekLabel(week)}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.parsed) < week {
		p.Activity = "Week " + strconv.Itoa(week)
		p.Meta = "Enter schedule to see details"
		return p
	}

	e := s.parsed[week-1]
	p.Parsed = true
	p.Activity = e.Activity
	if p.Activity == "" {
		p.Activity = "—"
	}
	p.Meta = e.Trades
	if e.Materials != "" {
		p.Meta += " · " + e.Materials
	}
	return p
}
