package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-blackswan/spatialflow/internal/backend"
)

type planner struct {
	parses  atomic.Int32
	project atomic.Value
}

func newPlanner(t *testing.T) (*planner, string) {
	t.Helper()
	p := &planner{}
	mux := http.NewServeMux()
	mux.HandleFunc("/parse-schedule", func(w http.ResponseWriter, r *http.Request) {
		p.parses.Add(1)
		w.Write([]byte(`{"weeks":[{"week":1,"activity":"Excavation"},{"week":2,"activity":"Footings","trades":"Concrete","materials":"Rebar"}]}`))
	})
	mux.HandleFunc("/generate-layout", func(w http.ResponseWriter, r *http.Request) {
		var req backend.LayoutRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		p.project.Store(req.Project)
		w.Write([]byte(`{"materialZones":[{"name":"Laydown A","type":"staging","tempDuration":"1 week"}],"workerPaths":[]}`))
	})
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		var req backend.QueryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{"answer": "Week " + req.WeekContext.Activity + ": use gate B"})
	})
	mux.HandleFunc("/replan", func(w http.ResponseWriter, r *http.Request) {
		var req backend.ReplanRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]any{
			"summary":  "delay type " + req.DelayType,
			"daysLost": 3,
			"weeks":    []map[string]any{{"week": 2, "activity": "Footings", "status": "moved"}},
		})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return p, ts.URL
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Execute(zerolog.Nop(), args, &out)
	return out.String(), err
}

func TestWeek_RawScheduleFallback(t *testing.T) {
	sched := writeFile(t, "schedule.txt", "Excavation\nFoundation\nFraming\n")

	out, err := run(t, "week", "--no-parse", "--schedule", sched, "--week", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "activity: Foundation")
	assert.Contains(t, out, "Enter schedule to see details")
}

func TestWeek_ParsesSchedule(t *testing.T) {
	p, url := newPlanner(t)
	sched := writeFile(t, "schedule.txt", "Excavation\nFootings\n")

	out, err := run(t, "week", "--schedule", sched, "--week", "9", "--backend", url)
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.parses.Load())
	assert.Contains(t, out, "WEEK 02")
	assert.Contains(t, out, "Concrete · Rebar")
	assert.Contains(t, out, "activity: Footings")
}

func TestLayout_WaitsForBackgroundParse(t *testing.T) {
	p, url := newPlanner(t)
	sched := writeFile(t, "schedule.txt", "Excavation\nFootings\n")

	out, err := run(t, "layout", "--schedule", sched, "--week", "2", "--backend", url)
	require.NoError(t, err)
	assert.Contains(t, out, "TEMPORARY ZONE RECOMMENDATIONS — WEEK 2")
	assert.Contains(t, out, "WEEK 2 · Footings")
	assert.Contains(t, out, "STAGING · 1 week")
	assert.Equal(t, int32(1), p.parses.Load())
	assert.Equal(t, "Construction Project", p.project.Load())
}

func TestLayout_ProfileOverridesProject(t *testing.T) {
	p, url := newPlanner(t)
	sched := writeFile(t, "schedule.txt", "Excavation\n")
	profile := writeFile(t, "site.yaml", "project: Riverside Tower\n")

	_, err := run(t, "layout", "--schedule", sched, "--profile", profile, "--backend", url)
	require.NoError(t, err)
	assert.Equal(t, "Riverside Tower", p.project.Load())
}

func TestLayout_NoInputs(t *testing.T) {
	_, url := newPlanner(t)
	_, err := run(t, "layout", "--backend", url)
	require.Error(t, err)
	assert.Equal(t, "upload a site plan and/or enter the project schedule first", err.Error())
}

func TestLayout_ImageOnly(t *testing.T) {
	_, url := newPlanner(t)
	img := writeFile(t, "plan.png", "\x89PNG\r\n\x1a\nfake")

	out, err := run(t, "layout", "--image", img, "--backend", url)
	require.NoError(t, err)
	assert.Contains(t, out, "1 ZONES")
}

func TestQuery(t *testing.T) {
	_, url := newPlanner(t)
	sched := writeFile(t, "schedule.txt", "Excavation\nFootings\n")

	out, err := run(t, "query", "where", "do", "trucks", "unload?", "--schedule", sched, "--week", "2", "--backend", url)
	require.NoError(t, err)
	assert.Contains(t, out, "WEEK 02 · where do trucks unload?")
	assert.Contains(t, out, "Week Footings: use gate B")
}

func TestReplan_DelayTypeFlag(t *testing.T) {
	_, url := newPlanner(t)
	sched := writeFile(t, "schedule.txt", "Excavation\nFootings\n")

	out, err := run(t, "replan", "storm", "--delay-type", "weather", "--schedule", sched, "--backend", url)
	require.NoError(t, err)
	assert.Contains(t, out, "REVISED SCHEDULE · WEATHER DISRUPTION")
	assert.Contains(t, out, "3 days lost · 0 recovered · Net: 0 day impact")
	assert.Contains(t, out, "delay type weather")
	assert.Contains(t, out, "[MOVED]")

	_, err = run(t, "replan", "storm", "--delay-type", "flood", "--schedule", sched, "--backend", url)
	require.Error(t, err)
}

func TestReplan_BackendUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	sched := writeFile(t, "schedule.txt", "Excavation\n")

	_, err := run(t, "replan", "storm", "--schedule", sched, "--backend", url)
	require.Error(t, err)
	assert.Equal(t, "server unreachable", err.Error())
}
