package dashboard

import (
	"github.com/p-blackswan/spatialflow/internal/orchestrator"
)

// --- Requests ---

// ScheduleRequest is the body of PUT /api/v1/schedule.
type ScheduleRequest struct {
	Text string `json:"text"`
}

// WeekRequest is the body of PUT /api/v1/week.
type WeekRequest struct {
	Week int `json:"week"`
}

// StepRequest is the body of POST /api/v1/week/step.
type StepRequest struct {
	Delta int `json:"delta"`
}

// DelayTypeRequest is the body of PUT /api/v1/delay-type.
type DelayTypeRequest struct {
	DelayType string `json:"delayType"`
}

// QueryRequest is the body of POST /api/v1/query.
type QueryRequest struct {
	Question string `json:"question"`
}

// ReplanRequest is the body of POST /api/v1/replan. DelayType, when set, replaces the
// selected category before the request is built.
type ReplanRequest struct {
	Disruption string `json:"disruption"`
	DelayType  string `json:"delayType,omitempty"`
}

// --- Responses ---

// CapabilityError is a settled failure of one capability.
type CapabilityError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

// CapabilityState mirrors one capability's snapshot.
type CapabilityState[T any] struct {
	Generation uint64           `json:"generation"`
	InFlight   bool             `json:"inFlight"`
	Ready      bool             `json:"ready"`
	Error      *CapabilityError `json:"error,omitempty"`
	Result     *T               `json:"result,omitempty"`
}

// StateResponse is returned by GET /api/v1/state.
type StateResponse struct {
	orchestrator.State
	DelayTypes []orchestrator.DelayType                   `json:"delayTypes"`
	Layout     CapabilityState[orchestrator.LayoutResult] `json:"layout"`
	Query      CapabilityState[orchestrator.QueryResult]  `json:"query"`
	Replan     CapabilityState[orchestrator.ReplanResult] `json:"replan"`
}

// ParseResponse is returned by POST /api/v1/schedule/parse.
type ParseResponse struct {
	Weeks int `json:"weeks"`
}

// ProblemDetail follows RFC 7807 for error responses.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}
