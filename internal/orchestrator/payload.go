package orchestrator

import (
	"strings"

	"github.com/p-blackswan/spatialflow/internal/backend"
	perrors "github.com/p-blackswan/spatialflow/internal/errors"
)

// Schedule text limits per capability. Replan sends the full text.
const (
	LayoutScheduleLimit = 6000
	QueryScheduleLimit  = 800
)

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// LayoutRequest builds the layout payload from the current state.
func (o *Orchestrator) LayoutRequest() (backend.LayoutRequest, error) {
	sched := o.store.EffectiveText()
	img := o.Image()
	if sched == "" && img == nil {
		return backend.LayoutRequest{}, perrors.Missing("schedule",
			"upload a site plan and/or enter the project schedule first")
	}

	week := o.cursor.Value()
	return backend.LayoutRequest{
		Project:     o.cfg.Project,
		Dims:        o.cfg.Dims,
		Week:        week,
		WeekContext: o.store.Context(week),
		Schedule:    truncate(sched, LayoutScheduleLimit),
		Image:       img,
	}, nil
}

// QueryRequest builds the query payload for question.
func (o *Orchestrator) QueryRequest(question string) (backend.QueryRequest, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return backend.QueryRequest{}, perrors.Missing("question", "enter a question first")
	}

	week := o.cursor.Value()
	return backend.QueryRequest{
		Question:    q,
		Project:     o.cfg.Project,
		Dims:        o.cfg.Dims,
		Week:        week,
		WeekContext: o.store.Context(week),
		Schedule:    truncate(o.store.EffectiveText(), QueryScheduleLimit),
		Image:       o.Image(),
	}, nil
}

// ReplanRequest builds the replan payload for a disruption description.
func (o *Orchestrator) ReplanRequest(disruption string) (backend.ReplanRequest, error) {
	desc := strings.TrimSpace(disruption)
	if desc == "" {
		return backend.ReplanRequest{}, perrors.Missing("disruption", "describe the disruption first")
	}
	sched := o.store.EffectiveText()
	if sched == "" {
		return backend.ReplanRequest{}, perrors.Missing("schedule", "enter the project schedule first")
	}

	return backend.ReplanRequest{
		Disruption: desc,
		DelayType:  string(o.DelayType()),
		Week:       o.cursor.Value(),
		Project:    o.cfg.Project,
		Schedule:   sched,
	}, nil
}
