package replan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-blackswan/spatialflow/internal/backend"
)

func TestTreatmentFor_Total(t *testing.T) {
	tests := []struct {
		status   string
		label    string
		pill     string
		emphasis Emphasis
	}{
		{"ON_TRACK", "ON TRACK", "pill-ontrack", EmphasisNone},
		{"MOVED", "MOVED", "pill-moved", EmphasisChanged},
		{"DELAYED", "DELAYED", "pill-delayed", EmphasisChanged},
		{"PARALLEL", "PARALLEL", "pill-parallel", EmphasisParallel},
		{"NEW", "NEW TASK", "pill-new", EmphasisParallel},
		{"UNKNOWN_TAG", "ON TRACK", "pill-ontrack", EmphasisNone},
		{"", "ON TRACK", "pill-ontrack", EmphasisNone},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			tr := TreatmentFor(tt.status)
			assert.Equal(t, tt.label, tr.Label)
			assert.Equal(t, tt.pill, tr.PillClass)
			assert.Equal(t, tt.emphasis, tr.Emphasis)
		})
	}
}

func TestParseTag_Normalizes(t *testing.T) {
	tag, ok := ParseTag(" moved ")
	assert.True(t, ok)
	assert.Equal(t, Moved, tag)

	tag, ok = ParseTag("on track")
	assert.True(t, ok)
	assert.Equal(t, OnTrack, tag)

	tag, ok = ParseTag("on-track")
	assert.True(t, ok)
	assert.Equal(t, OnTrack, tag)

	tag, ok = ParseTag("CANCELLED")
	assert.False(t, ok)
	assert.Equal(t, OnTrack, tag)
}

func TestRowClasses(t *testing.T) {
	assert.Equal(t, "changed", TreatmentFor("MOVED").RowClass)
	assert.Equal(t, "delayed", TreatmentFor("DELAYED").RowClass)
	assert.Equal(t, "parallel", TreatmentFor("PARALLEL").RowClass)
	assert.Equal(t, "parallel", TreatmentFor("NEW").RowClass)
	assert.Equal(t, "", TreatmentFor("ON_TRACK").RowClass)
}

func TestBuild_NumericDefaults(t *testing.T) {
	v := Build(&backend.ReplanResponse{
		Weeks: []backend.ReplanWeek{{Week: 1, Activity: "Excavation", Status: "ON_TRACK"}},
	}, "Steel delivery slipped a week", "material")

	assert.Equal(t, "0 days lost · 0 recovered · Net: 0 day impact", v.Header.Totals)
	assert.Equal(t, "REVISED SCHEDULE · MATERIAL DISRUPTION", v.Header.Title)
	assert.Equal(t, "Steel delivery slipped a week", v.Summary)
}

func TestBuild_Totals(t *testing.T) {
	v := Build(&backend.ReplanResponse{
		Summary:       "Framing pulled forward; 3 days recovered.",
		DaysLost:      5,
		DaysRecovered: 3,
		NetImpact:     2.5,
	}, "rain", "weather")

	assert.Equal(t, "5 days lost · 3 recovered · Net: 2.5 day impact", v.Header.Totals)
	assert.Equal(t, "Framing pulled forward; 3 days recovered.", v.Summary)
	assert.Empty(t, v.Rows)
}

func TestBuild_Rows(t *testing.T) {
	v := Build(&backend.ReplanResponse{
		Weeks: []backend.ReplanWeek{
			{Week: 1, Activity: "Excavation", Trades: "Operators", Materials: "Gravel", Status: "ON_TRACK", Note: "as planned"},
			{Week: 2, Activity: "Footings", Status: "DELAYED", Change: "pushed 1 week", Note: "await rebar"},
			{Week: 3, Status: "NEW"},
			{Week: 4, Activity: "Roofing", Status: "SOMETHING_ELSE"},
		},
	}, "late rebar", "material")

	require.Len(t, v.Rows, 4)

	assert.Equal(t, "01", v.Rows[0].WeekLabel)
	assert.Equal(t, "as planned", v.Rows[0].Annotation)
	assert.Equal(t, "Gravel", v.Rows[0].Materials)

	assert.Equal(t, "pushed 1 week", v.Rows[1].Annotation, "change wins over note")
	assert.Equal(t, EmphasisChanged, v.Rows[1].Status.Emphasis)
	assert.Equal(t, Placeholder, v.Rows[1].Trades)

	assert.Equal(t, Placeholder, v.Rows[2].Activity)
	assert.Equal(t, Placeholder, v.Rows[2].Annotation)
	assert.Equal(t, "NEW TASK", v.Rows[2].Status.Label)

	assert.Equal(t, OnTrack, v.Rows[3].Status.Tag)
	assert.Equal(t, "SOMETHING_ELSE", v.Rows[3].RawStatus)

	assert.Equal(t, 2, v.Changed())
}

func TestBuild_NilResponse(t *testing.T) {
	v := Build(nil, "crane down", "")
	assert.Equal(t, "crane down", v.Summary)
	assert.Equal(t, "REVISED SCHEDULE · OTHER DISRUPTION", v.Header.Title)
	assert.NotNil(t, v.Rows)
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	resp := &backend.ReplanResponse{Weeks: []backend.ReplanWeek{{Week: 1, Status: "moved"}}}
	Build(resp, "x", "material")
	assert.Equal(t, "moved", resp.Weeks[0].Status)
	assert.Empty(t, resp.Weeks[0].Activity)
}

func TestLegend(t *testing.T) {
	legend := Legend()
	require.Len(t, legend, 5)
	assert.Equal(t, "PARALLEL ADDED", legend[3].LegendLabel)
	assert.Equal(t, "NEW TASK", legend[4].LegendLabel)
}
