package replan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/p-blackswan/spatialflow/internal/backend"
)

// Placeholder fills any empty text cell.
const Placeholder = "—"

// Header carries the disruption banner and impact totals.
type Header struct {
	Title         string  `json:"title"`
	DaysLost      float64 `json:"daysLost"`
	DaysRecovered float64 `json:"daysRecovered"`
	NetImpact     float64 `json:"netImpact"`
	Totals        string  `json:"totals"`
}

// Row is one render-ready week of the revised schedule.
type Row struct {
	Week       int       `json:"week"`
	WeekLabel  string    `json:"weekLabel"`
	Activity   string    `json:"activity"`
	Trades     string    `json:"trades"`
	Materials  string    `json:"materials"`
	Status     Treatment `json:"status"`
	RawStatus  string    `json:"rawStatus,omitempty"`
	Annotation string    `json:"annotation"`
}

// View is the normalized replan rendering.
type View struct {
	Header  Header      `json:"header"`
	Summary string      `json:"summary"`
	Legend  []Treatment `json:"legend"`
	Rows    []Row       `json:"rows"`
}

// Build produces a view from a replan response. disruption is the description the user
// submitted and stands in for a missing summary. delayType labels the header.
// Build performs no I/O and never mutates its input.
func Build(resp *backend.ReplanResponse, disruption, delayType string) View {
	if resp == nil {
		resp = &backend.ReplanResponse{}
	}

	v := View{
		Header: Header{
			Title:         fmt.Sprintf("REVISED SCHEDULE · %s DISRUPTION", strings.ToUpper(orDefault(delayType, "other"))),
			DaysLost:      resp.DaysLost,
			DaysRecovered: resp.DaysRecovered,
			NetImpact:     resp.NetImpact,
		},
		Summary: strings.TrimSpace(resp.Summary),
		Legend:  Legend(),
		Rows:    make([]Row, 0, len(resp.Weeks)),
	}
	v.Header.Totals = fmt.Sprintf("%s days lost · %s recovered · Net: %s day impact",
		formatDays(resp.DaysLost), formatDays(resp.DaysRecovered), formatDays(resp.NetImpact))

	if v.Summary == "" {
		v.Summary = disruption
	}

	for _, w := range resp.Weeks {
		v.Rows = append(v.Rows, buildRow(w))
	}
	return v
}

func buildRow(w backend.ReplanWeek) Row {
	r := Row{
		Week:       w.Week,
		WeekLabel:  fmt.Sprintf("%02d", w.Week),
		Activity:   orDefault(w.Activity, Placeholder),
		Trades:     orDefault(w.Trades, Placeholder),
		Materials:  orDefault(w.Materials, Placeholder),
		Status:     TreatmentFor(w.Status),
		Annotation: orDefault(w.Change, orDefault(w.Note, Placeholder)),
	}
	if _, ok := ParseTag(w.Status); !ok {
		r.RawStatus = w.Status
	}
	return r
}

// Changed reports how many rows carry emphasis.
func (v View) Changed() int {
	n := 0
	for _, r := range v.Rows {
		if r.Status.Emphasis != EmphasisNone {
			n++
		}
	}
	return n
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func formatDays(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}
