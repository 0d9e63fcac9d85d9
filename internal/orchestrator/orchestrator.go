// Package orchestrator builds backend requests from the schedule store and week cursor,
// issues them, and keeps the per-capability state the dashboard renders.
//
// Every foreground capability (layout, query, replan) is fenced by a generation counter:
// a response only reaches the UI state when it belongs to the most recently issued
// request of its capability, whatever order responses arrive in. Layout generation also
// starts a best-effort schedule parse in the background whose result replaces the
// store's parsed weeks whenever it lands.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/p-blackswan/spatialflow/internal/backend"
	"github.com/p-blackswan/spatialflow/internal/cursor"
	perrors "github.com/p-blackswan/spatialflow/internal/errors"
	"github.com/p-blackswan/spatialflow/internal/layout"
	"github.com/p-blackswan/spatialflow/internal/metrics"
	"github.com/p-blackswan/spatialflow/internal/replan"
	"github.com/p-blackswan/spatialflow/internal/requestid"
	"github.com/p-blackswan/spatialflow/internal/schedule"
)

// DefaultProject is the project name sent when none is configured.
const DefaultProject = "Construction Project"

// Backend is the planning backend contract.
type Backend interface {
	ParseSchedule(ctx context.Context, req backend.ParseRequest) (*backend.ParseResponse, error)
	GenerateLayout(ctx context.Context, req backend.LayoutRequest) (*backend.LayoutResponse, error)
	Query(ctx context.Context, req backend.QueryRequest) (*backend.QueryResponse, error)
	Replan(ctx context.Context, req backend.ReplanRequest) (*backend.ReplanResponse, error)
}

// Config holds the fixed inputs of every request.
type Config struct {
	Project      string
	Dims         string
	DelayType    DelayType
	ParseTimeout time.Duration
}

// LayoutResult is a settled layout generation.
type LayoutResult struct {
	Generation uint64                  `json:"generation"`
	Superseded bool                    `json:"superseded"`
	Week       int                     `json:"week"`
	Context    schedule.Context        `json:"context"`
	Response   *backend.LayoutResponse `json:"response"`
	View       layout.View             `json:"view"`
}

// QueryResult is a settled question.
type QueryResult struct {
	Generation uint64 `json:"generation"`
	Superseded bool   `json:"superseded"`
	Week       int    `json:"week"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// ReplanResult is a settled replan.
type ReplanResult struct {
	Generation uint64                  `json:"generation"`
	Superseded bool                    `json:"superseded"`
	Week       int                     `json:"week"`
	Disruption string                  `json:"disruption"`
	DelayType  DelayType               `json:"delayType"`
	Response   *backend.ReplanResponse `json:"response"`
	View       replan.View             `json:"view"`
}

// State is the context shared by every view.
type State struct {
	Week        int                `json:"week"`
	WeekLabel   string             `json:"weekLabel"`
	Bound       int                `json:"bound,omitempty"`
	Panel       schedule.WeekPanel `json:"panel"`
	ParsedWeeks int                `json:"parsedWeeks"`
	HasSchedule bool               `json:"hasSchedule"`
	HasImage    bool               `json:"hasImage"`
	DelayType   DelayType          `json:"delayType"`
}

// Orchestrator owns the request-facing state of one dashboard session.
type Orchestrator struct {
	store   *schedule.Store
	cursor  *cursor.Cursor
	client  Backend
	metrics *metrics.Metrics
	logger  zerolog.Logger
	cfg     Config

	applyMu sync.Mutex

	mu        sync.RWMutex
	image     *backend.Image
	delayType DelayType
	panel     schedule.WeekPanel

	layout slot[LayoutResult]
	query  slot[QueryResult]
	replan slot[ReplanResult]

	bg          sync.WaitGroup
	unsubscribe func()
}

// New creates an orchestrator over store and cursor. m may be nil.
func New(cfg Config, store *schedule.Store, cur *cursor.Cursor, client Backend, m *metrics.Metrics, logger zerolog.Logger) *Orchestrator {
	if cfg.Project == "" {
		cfg.Project = DefaultProject
	}
	if cfg.DelayType == "" {
		cfg.DelayType = DelayMaterial
	}

	o := &Orchestrator{
		store:     store,
		cursor:    cur,
		client:    client,
		metrics:   m,
		logger:    logger.With().Str("component", "orchestrator").Logger(),
		cfg:       cfg,
		delayType: cfg.DelayType,
	}
	o.refreshPanel()
	o.unsubscribe = cur.Subscribe(func(int) { o.refreshPanel() })
	return o
}

// Close detaches from the cursor and waits for background work.
func (o *Orchestrator) Close() {
	if o.unsubscribe != nil {
		o.unsubscribe()
	}
	o.Wait()
}

// Wait blocks until every background parse has finished.
func (o *Orchestrator) Wait() {
	o.bg.Wait()
}

// --- inputs ---

// SetSchedule replaces the editable schedule text.
func (o *Orchestrator) SetSchedule(text string) {
	o.store.SetRawSchedule(text)
	o.refreshPanel()
}

// LoadUpload records an uploaded schedule file.
func (o *Orchestrator) LoadUpload(text string) {
	o.store.LoadUpload(text)
	o.refreshPanel()
}

// SetWeek moves the cursor and returns the clamped week.
func (o *Orchestrator) SetWeek(n int) int {
	w := o.cursor.Set(n)
	o.refreshPanel()
	return w
}

// StepWeek moves the cursor by delta and returns the clamped week.
func (o *Orchestrator) StepWeek(delta int) int {
	w := o.cursor.Step(delta)
	o.refreshPanel()
	return w
}

// SetImage stores the site plan sent with layout and query requests.
func (o *Orchestrator) SetImage(raw []byte, mime string) {
	img := backend.NewImage(raw, mime)
	o.mu.Lock()
	o.image = img
	o.mu.Unlock()
}

// ClearImage drops the site plan.
func (o *Orchestrator) ClearImage() {
	o.mu.Lock()
	o.image = nil
	o.mu.Unlock()
}

// Image returns the current site plan, or nil.
func (o *Orchestrator) Image() *backend.Image {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.image
}

// SetDelayType selects the disruption category for the next replan.
func (o *Orchestrator) SetDelayType(d DelayType) {
	o.mu.Lock()
	o.delayType = d
	o.mu.Unlock()
}

// DelayType returns the selected disruption category.
func (o *Orchestrator) DelayType() DelayType {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.delayType
}

// ApplyParsedWeeks replaces the parsed schedule and the cursor bound as one step, so
// overlapping parses always leave the bound equal to the stored week count.
func (o *Orchestrator) ApplyParsedWeeks(weeks []schedule.WeekEntry) {
	o.applyMu.Lock()
	defer o.applyMu.Unlock()

	o.store.SetParsedWeeks(weeks)
	o.cursor.SetBound(len(weeks))
	o.metrics.SetParsedWeeks(len(weeks))
	o.refreshPanel()
}

// --- views ---

// State returns the shared week/schedule context.
func (o *Orchestrator) State() State {
	week := o.cursor.Value()
	bound, _ := o.cursor.Bound()
	parsed, _ := o.store.WeekCount()

	o.mu.RLock()
	defer o.mu.RUnlock()
	return State{
		Week:        week,
		WeekLabel:   schedule.WeekLabel(week),
		Bound:       bound,
		Panel:       o.panel,
		ParsedWeeks: parsed,
		HasSchedule: o.store.EffectiveText() != "",
		HasImage:    o.image != nil,
		DelayType:   o.delayType,
	}
}

// Panel returns the week panel kept in step with the cursor.
func (o *Orchestrator) Panel() schedule.WeekPanel {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.panel
}

// WeekContext returns the schedule context of the current week.
func (o *Orchestrator) WeekContext() schedule.Context {
	return o.store.Context(o.cursor.Value())
}

// LayoutState returns the layout capability state.
func (o *Orchestrator) LayoutState() Snapshot[LayoutResult] { return o.layout.snapshot() }

// QueryState returns the query capability state.
func (o *Orchestrator) QueryState() Snapshot[QueryResult] { return o.query.snapshot() }

// ReplanState returns the replan capability state.
func (o *Orchestrator) ReplanState() Snapshot[ReplanResult] { return o.replan.snapshot() }

func (o *Orchestrator) refreshPanel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.panel = o.store.Panel(o.cursor.Value())
}

// --- capabilities ---

// GenerateLayout requests the temporary layout for the current week. With schedule text
// present it also starts a background parse that is never awaited here.
func (o *Orchestrator) GenerateLayout(ctx context.Context) (*LayoutResult, error) {
	req, err := o.LayoutRequest()
	if err != nil {
		o.rejected(backend.CapLayout, err)
		return nil, err
	}
	ctx, _ = requestid.Ensure(ctx)

	if sched := o.store.EffectiveText(); sched != "" {
		o.parseInBackground(ctx, sched)
	}

	res, err := issue(ctx, o, &o.layout, backend.CapLayout, func(ctx context.Context) (LayoutResult, error) {
		resp, err := o.client.GenerateLayout(ctx, req)
		if err != nil {
			return LayoutResult{}, err
		}
		return LayoutResult{
			Week:     req.Week,
			Context:  req.WeekContext,
			Response: resp,
			View:     layout.Build(resp, req.Week, req.WeekContext.Activity),
		}, nil
	}, func(r *LayoutResult, gen uint64, superseded bool) {
		r.Generation, r.Superseded = gen, superseded
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Query asks question about the current week.
func (o *Orchestrator) Query(ctx context.Context, question string) (*QueryResult, error) {
	req, err := o.QueryRequest(question)
	if err != nil {
		o.rejected(backend.CapQuery, err)
		return nil, err
	}

	res, err := issue(ctx, o, &o.query, backend.CapQuery, func(ctx context.Context) (QueryResult, error) {
		resp, err := o.client.Query(ctx, req)
		if err != nil {
			return QueryResult{}, err
		}
		return QueryResult{Week: req.Week, Question: req.Question, Answer: resp.Answer}, nil
	}, func(r *QueryResult, gen uint64, superseded bool) {
		r.Generation, r.Superseded = gen, superseded
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Replan requests a revised schedule for disruption. The revised schedule is for display
// only and never replaces the store's parsed weeks.
func (o *Orchestrator) Replan(ctx context.Context, disruption string) (*ReplanResult, error) {
	return o.ReplanAs(ctx, disruption, "")
}

// ReplanAs is Replan with d selected as the delay type once the request passes local
// validation. An empty d keeps the current selection.
func (o *Orchestrator) ReplanAs(ctx context.Context, disruption string, d DelayType) (*ReplanResult, error) {
	req, err := o.ReplanRequest(disruption)
	if err != nil {
		o.rejected(backend.CapReplan, err)
		return nil, err
	}
	if d != "" {
		o.SetDelayType(d)
		req.DelayType = string(d)
	}

	res, err := issue(ctx, o, &o.replan, backend.CapReplan, func(ctx context.Context) (ReplanResult, error) {
		resp, err := o.client.Replan(ctx, req)
		if err != nil {
			return ReplanResult{}, err
		}
		return ReplanResult{
			Week:       req.Week,
			Disruption: req.Disruption,
			DelayType:  DelayType(req.DelayType),
			Response:   resp,
			View:       replan.Build(resp, req.Disruption, req.DelayType),
		}, nil
	}, func(r *ReplanResult, gen uint64, superseded bool) {
		r.Generation, r.Superseded = gen, superseded
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ParseSchedule parses the current schedule in the foreground and applies the result.
// It returns the number of parsed weeks.
func (o *Orchestrator) ParseSchedule(ctx context.Context) (int, error) {
	sched := o.store.EffectiveText()
	if sched == "" {
		err := perrors.Missing("schedule", "enter the project schedule first")
		o.rejected(backend.CapParse, err)
		return 0, err
	}

	start := time.Now()
	resp, err := o.client.ParseSchedule(ctx, backend.ParseRequest{Schedule: sched})
	o.metrics.ObserveDuration(string(backend.CapParse), time.Since(start))
	o.metrics.RecordRequest(string(backend.CapParse), outcomeFor(err))
	if err != nil {
		return 0, err
	}
	if resp.Weeks == nil {
		n, _ := o.store.WeekCount()
		return n, nil
	}
	o.ApplyParsedWeeks(resp.Weeks)
	return len(resp.Weeks), nil
}

// parseInBackground runs a parse detached from the caller's cancellation. Its failure is
// logged and counted only.
func (o *Orchestrator) parseInBackground(ctx context.Context, sched string) {
	ctx = context.WithoutCancel(ctx)
	logger := o.logger.With().Str("request_id", requestid.FromContext(ctx)).Logger()

	o.bg.Add(1)
	go func() {
		defer o.bg.Done()

		if o.cfg.ParseTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, o.cfg.ParseTimeout)
			defer cancel()
		}

		resp, err := o.client.ParseSchedule(ctx, backend.ParseRequest{Schedule: sched})
		if err != nil {
			o.metrics.RecordBackgroundParse(outcomeFor(err))
			logger.Warn().Err(err).Msg("schedule parse failed")
			return
		}
		o.metrics.RecordBackgroundParse(metrics.OutcomeOK)
		if resp.Weeks == nil {
			logger.Debug().Msg("schedule parse returned no weeks")
			return
		}
		o.ApplyParsedWeeks(resp.Weeks)
		logger.Info().Int("weeks", len(resp.Weeks)).Msg("schedule parsed")
	}()
}

func (o *Orchestrator) rejected(capability backend.Capability, err error) {
	o.metrics.RecordRequest(string(capability), metrics.OutcomeInvalid)
	o.logger.Debug().Err(err).Str("capability", string(capability)).Msg("request rejected locally")
}

// issue runs one fenced foreground call. stamp records the generation and whether the
// result was superseded on the value handed back to the caller.
func issue[T any](
	ctx context.Context,
	o *Orchestrator,
	s *slot[T],
	capability backend.Capability,
	call func(context.Context) (T, error),
	stamp func(v *T, gen uint64, superseded bool),
) (T, error) {
	name := string(capability)
	gen := s.begin()

	done := o.metrics.TrackInFlight(name)
	start := time.Now()
	v, err := call(ctx)
	elapsed := time.Since(start)
	done()

	if err == nil {
		stamp(&v, gen, false)
	}
	applied := s.settle(gen, v, err)
	if err == nil && !applied {
		stamp(&v, gen, true)
	}

	o.metrics.ObserveDuration(name, elapsed)
	o.metrics.RecordRequest(name, outcomeFor(err))

	level := zerolog.InfoLevel
	if err != nil {
		level = zerolog.WarnLevel
	}
	evt := o.logger.WithLevel(level)
	if err != nil {
		evt = evt.Err(err).Str("kind", string(perrors.Classify(err)))
	}
	evt.Str("capability", name).
		Uint64("generation", gen).
		Bool("applied", applied).
		Dur("elapsed", elapsed).
		Msg("backend call settled")

	if !applied {
		o.metrics.RecordStale(name)
	}
	return v, err
}

func outcomeFor(err error) string {
	switch perrors.Classify(err) {
	case perrors.KindNone:
		return metrics.OutcomeOK
	case perrors.KindValidation:
		return metrics.OutcomeInvalid
	case perrors.KindBackend:
		return metrics.OutcomeBackend
	}
	return metrics.OutcomeTransport
}
