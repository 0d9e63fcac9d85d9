// Package schedule holds the weekly construction schedule and derives per-week context.
package schedule

import (
	"fmt"
	"strings"
)

// WeekEntry is one week of a parsed schedule. Index 0 of a sequence is week 1.
type WeekEntry struct {
	Week      int    `json:"week,omitempty" yaml:"week,omitempty"`
	Activity  string `json:"activity" yaml:"activity"`
	Trades    string `json:"trades" yaml:"trades"`
	Materials string `json:"materials" yaml:"materials"`
}

// Context returns the schedule context carried by the entry.
func (e WeekEntry) Context() Context {
	return Context{Activity: e.Activity, Trades: e.Trades, Materials: e.Materials}
}

// Source records where a Context came from.
type Source string

const (
	SourceParsed      Source = "parsed"
	SourceRawText     Source = "raw_text"
	SourcePlaceholder Source = "placeholder"
)

// Context is the per-week snapshot sent to the backend as weekContext.
type Context struct {
	Activity  string `json:"activity"`
	Trades    string `json:"trades"`
	Materials string `json:"materials"`
}

// placeholderActivity is used when neither parsed weeks nor raw text cover a week.
func placeholderActivity(week int) string {
	return fmt.Sprintf("Week %d activity", week)
}

// WeekLabel formats a week number the way the dashboard displays it.
func WeekLabel(week int) string {
	return fmt.Sprintf("%02d", week)
}

// nonBlankLines returns the lines of text that contain something other than whitespace.
// Lines are kept as-is apart from a trailing carriage return.
func nonBlankLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
