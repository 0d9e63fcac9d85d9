package backend

import (
	"encoding/base64"
	"strings"

	"github.com/p-blackswan/spatialflow/internal/schedule"
)

// Capability names one backend operation. The value doubles as a metrics/log label.
type Capability string

const (
	CapParse  Capability = "parse"
	CapLayout Capability = "layout"
	CapQuery  Capability = "query"
	CapReplan Capability = "replan"
)

// Path returns the endpoint path for the capability.
func (c Capability) Path() string {
	switch c {
	case CapParse:
		return "/parse-schedule"
	case CapLayout:
		return "/generate-layout"
	case CapQuery:
		return "/query"
	case CapReplan:
		return "/replan"
	}
	return ""
}

// DefaultImageType is used when an upload has no usable mime type.
const DefaultImageType = "image/png"

// Image is an uploaded site plan, base64 encoded for transport.
type Image struct {
	Data string `json:"data"`
	Type string `json:"type"`
}

// NewImage encodes raw image bytes. Mime types that are not image/* fall back to PNG.
func NewImage(raw []byte, mime string) *Image {
	mime = strings.TrimSpace(mime)
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if !strings.HasPrefix(mime, "image/") {
		mime = DefaultImageType
	}
	return &Image{Data: base64.StdEncoding.EncodeToString(raw), Type: mime}
}

// --- Requests ---

// ParseRequest is the payload for /parse-schedule.
type ParseRequest struct {
	Schedule string `json:"schedule"`
}

// LayoutRequest is the payload for /generate-layout.
type LayoutRequest struct {
	Project     string           `json:"project"`
	Dims        string           `json:"dims"`
	Week        int              `json:"week"`
	WeekContext schedule.Context `json:"weekContext"`
	Schedule    string           `json:"schedule"`
	Image       *Image           `json:"image"`
}

// QueryRequest is the payload for /query.
type QueryRequest struct {
	Question    string           `json:"question"`
	Project     string           `json:"project"`
	Dims        string           `json:"dims"`
	Week        int              `json:"week"`
	WeekContext schedule.Context `json:"weekContext"`
	Schedule    string           `json:"schedule"`
	Image       *Image           `json:"image"`
}

// ReplanRequest is the payload for /replan.
type ReplanRequest struct {
	Disruption string `json:"disruption"`
	DelayType  string `json:"delayType"`
	Week       int    `json:"week"`
	Project    string `json:"project"`
	Schedule   string `json:"schedule"`
}

// --- Responses ---

// ParseResponse is returned by /parse-schedule. Weeks is nil when the field was absent.
type ParseResponse struct {
	Weeks []schedule.WeekEntry `json:"weeks"`
}

// Zone is a temporary staging zone recommendation.
type Zone struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Location     string `json:"location"`
	Contents     string `json:"contents"`
	Reason       string `json:"reason"`
	TempDuration string `json:"tempDuration"`
}

// WorkerPath is a temporary worker access route.
type WorkerPath struct {
	Label      string   `json:"label"`
	Name       string   `json:"name"`
	Nodes      []string `json:"nodes"`
	Workers    int      `json:"workers"`
	DistanceFt float64  `json:"distanceFt"`
	Avoids     string   `json:"avoids"`
}

// MaterialRow is one line of the materials table.
type MaterialRow struct {
	Material string `json:"material"`
	Volume   string `json:"volume"`
	Zone     string `json:"zone"`
}

// Delivery is one step of the weekly delivery sequence.
type Delivery struct {
	Order       int    `json:"order"`
	Material    string `json:"material"`
	Volume      string `json:"volume"`
	StagingZone string `json:"stagingZone"`
	Day         string `json:"day"`
	Note        string `json:"note"`
}

// LayoutResponse is returned by /generate-layout.
type LayoutResponse struct {
	SiteObservations string        `json:"siteObservations,omitempty"`
	MaterialZones    []Zone        `json:"materialZones"`
	OptimizationNote string        `json:"optimizationNote,omitempty"`
	MaterialsTable   []MaterialRow `json:"materialsTable,omitempty"`
	WorkerPaths      []WorkerPath  `json:"workerPaths"`
	DeliverySequence []Delivery    `json:"deliverySequence,omitempty"`
}

// QueryResponse is returned by /query.
type QueryResponse struct {
	Answer string `json:"answer"`
}

// ReplanWeek is one week of a revised schedule.
type ReplanWeek struct {
	Week      int    `json:"week"`
	Activity  string `json:"activity"`
	Trades    string `json:"trades"`
	Materials string `json:"materials"`
	Status    string `json:"status"`
	Change    string `json:"change"`
	Note      string `json:"note"`
}

// ReplanResponse is returned by /replan. Numeric fields are zero when absent.
type ReplanResponse struct {
	Summary       string       `json:"summary,omitempty"`
	DaysLost      float64      `json:"daysLost"`
	DaysRecovered float64      `json:"daysRecovered"`
	NetImpact     float64      `json:"netImpact"`
	Weeks         []ReplanWeek `json:"weeks"`
}

// errorBody is the error convention shared by every endpoint.
type errorBody struct {
	Error string `json:"error"`
}
