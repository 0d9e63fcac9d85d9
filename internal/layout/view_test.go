package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-blackswan/spatialflow/internal/backend"
)

func TestBuild(t *testing.T) {
	resp := &backend.LayoutResponse{
		SiteObservations: "Narrow lot with a single gate on the east side.",
		MaterialZones: []backend.Zone{
			{Name: "Rebar laydown", Type: "material", Location: "NE corner", Contents: "Rebar", Reason: "Near crane", TempDuration: "Weeks 3-5"},
			{Name: "Skip bins", TempDuration: "This week only"},
		},
		OptimizationNote: "Stage rebar next to the pour.",
		MaterialsTable: []backend.MaterialRow{
			{Material: "Rebar", Volume: "High", Zone: "Rebar laydown"},
			{Material: "Forms", Volume: "Med", Zone: "Skip bins"},
			{Material: "Ties", Volume: "Low", Zone: "Rebar laydown"},
		},
		WorkerPaths: []backend.WorkerPath{
			{Label: "PATH A", Name: "Gate to pour", Nodes: []string{"Gate", "Crane pad", "Pour"}, Workers: 12, DistanceFt: 150, Avoids: "Crane swing"},
			{Label: "PATH B", Name: "Welfare", Workers: 4, DistanceFt: 62.5},
		},
		DeliverySequence: []backend.Delivery{
			{Order: 2, Material: "Forms"},
			{Order: 1, Material: "Rebar"},
		},
	}

	v := Build(resp, 3, "Footings")

	assert.Equal(t, "TEMPORARY ZONE RECOMMENDATIONS — WEEK 3", v.Title)
	assert.Equal(t, "WEEK 3 · Footings", v.Subtitle)
	assert.Equal(t, "2 ZONES", v.ZoneCount)
	assert.Equal(t, "2 PATHS", v.PathCount)

	require.Len(t, v.Zones, 2)
	assert.Equal(t, "MATERIAL · Weeks 3-5", v.Zones[0].TypeLabel)
	assert.Equal(t, "material", v.Zones[1].Type)
	assert.Equal(t, "ZONE · This week only", v.Zones[1].TypeLabel)

	require.Len(t, v.Paths, 2)
	assert.Equal(t, "PATH A · Gate to pour · 12 workers · ~150ft", v.Paths[0].Label)
	assert.Equal(t, []string{"Gate", "Crane pad", "Pour"}, v.Paths[0].Nodes)
	assert.Equal(t, "PATH B · Welfare · 4 workers · ~62.5ft", v.Paths[1].Label)
	assert.Equal(t, placeholder, v.Paths[1].Avoids)
	assert.NotNil(t, v.Paths[1].Nodes)

	require.Len(t, v.Materials, 3)
	assert.Equal(t, VolumeHigh, v.Materials[0].VolumeClass)
	assert.Equal(t, VolumeMedium, v.Materials[1].VolumeClass)
	assert.Equal(t, VolumeLow, v.Materials[2].VolumeClass)

	require.Len(t, v.Deliveries, 2)
	assert.Equal(t, "Rebar", v.Deliveries[0].Material)
	assert.Equal(t, 2, resp.DeliverySequence[0].Order, "input order untouched")
}

func TestBuild_Empty(t *testing.T) {
	v := Build(nil, 1, "")
	assert.Equal(t, "WEEK 1 · Construction", v.Subtitle)
	assert.Equal(t, "0 ZONES", v.ZoneCount)
	assert.Empty(t, v.Zones)
	assert.Empty(t, v.Materials)
}
