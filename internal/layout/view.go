// Package layout shapes a layout-generation response into render-ready data.
package layout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/p-blackswan/spatialflow/internal/backend"
)

const placeholder = "—"

// Volume classes for the materials table.
const (
	VolumeHigh   = "high"
	VolumeMedium = "medium"
	VolumeLow    = "low"
)

// ZoneCard is one temporary zone recommendation.
type ZoneCard struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	TypeLabel string `json:"typeLabel"`
	Location  string `json:"location"`
	Contents  string `json:"contents"`
	Reason    string `json:"reason"`
}

// PathCard is one worker path.
type PathCard struct {
	Label  string   `json:"label"`
	Nodes  []string `json:"nodes"`
	Avoids string   `json:"avoids"`
}

// MaterialLine is one row of the materials table.
type MaterialLine struct {
	Material    string `json:"material"`
	Volume      string `json:"volume"`
	VolumeClass string `json:"volumeClass"`
	Zone        string `json:"zone"`
}

// View is the render-ready layout for one week.
type View struct {
	Week             int                `json:"week"`
	Title            string             `json:"title"`
	Subtitle         string             `json:"subtitle"`
	SiteObservations string             `json:"siteObservations,omitempty"`
	ZoneCount        string             `json:"zoneCount"`
	Zones            []ZoneCard         `json:"zones"`
	OptimizationNote string             `json:"optimizationNote,omitempty"`
	PathCount        string             `json:"pathCount"`
	Paths            []PathCard         `json:"paths"`
	Materials        []MaterialLine     `json:"materials,omitempty"`
	Deliveries       []backend.Delivery `json:"deliveries,omitempty"`
}

// Build shapes resp for the given week. activity is the week's schedule context activity
// and feeds the dashboard subtitle.
func Build(resp *backend.LayoutResponse, week int, activity string) View {
	if resp == nil {
		resp = &backend.LayoutResponse{}
	}
	if strings.TrimSpace(activity) == "" {
		activity = "Construction"
	}

	v := View{
		Week:             week,
		Title:            fmt.Sprintf("TEMPORARY ZONE RECOMMENDATIONS — WEEK %d", week),
		Subtitle:         fmt.Sprintf("WEEK %d · %s", week, activity),
		SiteObservations: resp.SiteObservations,
		OptimizationNote: resp.OptimizationNote,
		ZoneCount:        fmt.Sprintf("%d ZONES", len(resp.MaterialZones)),
		PathCount:        fmt.Sprintf("%d PATHS", len(resp.WorkerPaths)),
		Zones:            make([]ZoneCard, 0, len(resp.MaterialZones)),
		Paths:            make([]PathCard, 0, len(resp.WorkerPaths)),
	}

	for _, z := range resp.MaterialZones {
		v.Zones = append(v.Zones, zoneCard(z))
	}
	for _, p := range resp.WorkerPaths {
		v.Paths = append(v.Paths, pathCard(p))
	}
	for _, m := range resp.MaterialsTable {
		v.Materials = append(v.Materials, MaterialLine{
			Material:    m.Material,
			Volume:      m.Volume,
			VolumeClass: VolumeClass(m.Volume),
			Zone:        m.Zone,
		})
	}
	if len(resp.DeliverySequence) > 0 {
		v.Deliveries = make([]backend.Delivery, len(resp.DeliverySequence))
		copy(v.Deliveries, resp.DeliverySequence)
		sort.SliceStable(v.Deliveries, func(i, j int) bool {
			return v.Deliveries[i].Order < v.Deliveries[j].Order
		})
	}
	return v
}

func zoneCard(z backend.Zone) ZoneCard {
	typ := strings.TrimSpace(z.Type)
	labelType := "ZONE"
	if typ != "" {
		labelType = strings.ToUpper(typ)
	} else {
		typ = "material"
	}
	return ZoneCard{
		Name:      z.Name,
		Type:      typ,
		TypeLabel: labelType + " · " + z.TempDuration,
		Location:  z.Location,
		Contents:  z.Contents,
		Reason:    z.Reason,
	}
}

func pathCard(p backend.WorkerPath) PathCard {
	nodes := p.Nodes
	if nodes == nil {
		nodes = []string{}
	}
	avoids := p.Avoids
	if strings.TrimSpace(avoids) == "" {
		avoids = placeholder
	}
	return PathCard{
		Label: fmt.Sprintf("%s · %s · %d workers · ~%sft",
			p.Label, p.Name, p.Workers, strconv.FormatFloat(p.DistanceFt, 'f', -1, 64)),
		Nodes:  nodes,
		Avoids: avoids,
	}
}

// VolumeClass buckets a materials-table volume. Only exact "High" and "Low" leave the
// medium bucket.
func VolumeClass(volume string) string {
	switch volume {
	case "High":
		return VolumeHigh
	case "Low":
		return VolumeLow
	}
	return VolumeMedium
}
