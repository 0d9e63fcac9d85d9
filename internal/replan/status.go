// Package replan turns a replan response into a fully-defaulted, render-ready view.
package replan

import "strings"

// Tag is a revised-schedule week classification.
type Tag string

const (
	OnTrack  Tag = "ON_TRACK"
	Moved    Tag = "MOVED"
	Delayed  Tag = "DELAYED"
	Parallel Tag = "PARALLEL"
	New      Tag = "NEW"
)

// Tags lists the taxonomy in legend order.
var Tags = []Tag{OnTrack, Moved, Delayed, Parallel, New}

// Emphasis is the row-level treatment of a week.
type Emphasis string

const (
	EmphasisNone     Emphasis = "none"
	EmphasisChanged  Emphasis = "changed"
	EmphasisParallel Emphasis = "parallel"
)

// Treatment is everything the view needs to draw one status.
type Treatment struct {
	Tag         Tag      `json:"tag"`
	Label       string   `json:"label"`
	LegendLabel string   `json:"legendLabel"`
	PillClass   string   `json:"pillClass"`
	RowClass    string   `json:"rowClass"`
	Emphasis    Emphasis `json:"emphasis"`
}

var treatments = map[Tag]Treatment{
	OnTrack:  {Tag: OnTrack, Label: "ON TRACK", LegendLabel: "ON TRACK", PillClass: "pill-ontrack", RowClass: "", Emphasis: EmphasisNone},
	Moved:    {Tag: Moved, Label: "MOVED", LegendLabel: "MOVED", PillClass: "pill-moved", RowClass: "changed", Emphasis: EmphasisChanged},
	Delayed:  {Tag: Delayed, Label: "DELAYED", LegendLabel: "DELAYED", PillClass: "pill-delayed", RowClass: "delayed", Emphasis: EmphasisChanged},
	Parallel: {Tag: Parallel, Label: "PARALLEL", LegendLabel: "PARALLEL ADDED", PillClass: "pill-parallel", RowClass: "parallel", Emphasis: EmphasisParallel},
	New:      {Tag: New, Label: "NEW TASK", LegendLabel: "NEW TASK", PillClass: "pill-new", RowClass: "parallel", Emphasis: EmphasisParallel},
}

// ParseTag normalizes a backend status. Case, surrounding space, spaces and hyphens are
// forgiven; anything still unrecognized is reported with ok=false and maps to OnTrack.
func ParseTag(raw string) (Tag, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	t := Tag(s)
	if _, ok := treatments[t]; ok {
		return t, true
	}
	return OnTrack, false
}

// TreatmentFor is total: every input yields a treatment.
func TreatmentFor(raw string) Treatment {
	t, _ := ParseTag(raw)
	return treatments[t]
}

// Legend returns the treatments of every tag in legend order.
func Legend() []Treatment {
	out := make([]Treatment, 0, len(Tags))
	for _, t := range Tags {
		out = append(out, treatments[t])
	}
	return out
}
