package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/p-blackswan/spatialflow/internal/backend"
	"github.com/p-blackswan/spatialflow/internal/layout"
	"github.com/p-blackswan/spatialflow/internal/orchestrator"
	"github.com/p-blackswan/spatialflow/internal/replan"
	"github.com/p-blackswan/spatialflow/internal/schedule"
)

func TestPanel(t *testing.T) {
	out := Panel(schedule.WeekPanel{Week: 3, Label: "03", Activity: "Framing", Meta: "Carpentry · Lumber", Parsed: true})
	assert.Contains(t, out, "WEEK 03")
	assert.Contains(t, out, "Framing")
	assert.Contains(t, out, "Carpentry · Lumber")
}

func TestLayout(t *testing.T) {
	v := layout.Build(&backend.LayoutResponse{
		SiteObservations: "Tight north access",
		MaterialZones:    []backend.Zone{{Name: "Laydown A", Location: "NE corner", TempDuration: "2 weeks"}},
		WorkerPaths:      []backend.WorkerPath{{Label: "P1", Name: "Gate to core", Nodes: []string{"Gate", "Core"}, Workers: 6, DistanceFt: 120}},
		MaterialsTable:   []backend.MaterialRow{{Material: "Rebar", Volume: "High", Zone: "Laydown A"}},
		DeliverySequence: []backend.Delivery{{Order: 2, Material: "Forms"}, {Order: 1, Material: "Rebar"}},
	}, 2, "Footings")

	out := Layout(v)
	assert.Contains(t, out, "TEMPORARY ZONE RECOMMENDATIONS — WEEK 2")
	assert.Contains(t, out, "WEEK 2 · Footings")
	assert.Contains(t, out, "Tight north access")
	assert.Contains(t, out, "1 ZONES")
	assert.Contains(t, out, "ZONE · 2 weeks")
	assert.Contains(t, out, "P1 · Gate to core · 6 workers · ~120ft")
	assert.Contains(t, out, "Gate → Core")
	assert.Contains(t, out, "avoids: —")
	assert.Contains(t, out, "Rebar")
	assert.Contains(t, out, "1. Rebar")
	assert.Less(t, strings.Index(out, "1. Rebar"), strings.Index(out, "2. Forms"))
}

func TestLayout_Empty(t *testing.T) {
	out := Layout(layout.Build(nil, 1, ""))
	assert.Contains(t, out, "0 ZONES")
	assert.Contains(t, out, "0 PATHS")
	assert.NotContains(t, out, "MATERIALS")
}

func TestAnswer(t *testing.T) {
	out := Answer(orchestrator.QueryResult{Week: 4, Question: "Where is the crane?", Answer: "South pad."})
	assert.Contains(t, out, "WEEK 04 · Where is the crane?")
	assert.Contains(t, out, "South pad.")
}

func TestReplan(t *testing.T) {
	v := replan.Build(&backend.ReplanResponse{
		Weeks: []backend.ReplanWeek{
			{Week: 1, Activity: "Excavation", Status: "ON_TRACK"},
			{Week: 2, Activity: "Footings", Status: "DELAYED", Change: "Pushed 3 days"},
			{Week: 3, Activity: "Temp shoring", Status: "NEW"},
		},
	}, "Concrete shortage", "material")

	out := Replan(v)
	assert.Contains(t, out, "REVISED SCHEDULE · MATERIAL DISRUPTION")
	assert.Contains(t, out, "0 days lost · 0 recovered · Net: 0 day impact")
	assert.Contains(t, out, "Concrete shortage")
	assert.Contains(t, out, "[PARALLEL ADDED]")
	assert.Contains(t, out, "[DELAYED]")
	assert.Contains(t, out, "[NEW TASK]")
	assert.Contains(t, out, "* W02")
	assert.Contains(t, out, "+ W03")
	assert.Contains(t, out, "Pushed 3 days")
}

func TestError(t *testing.T) {
	assert.Contains(t, Error(errors.New("server unreachable")), "error: server unreachable")
}

