package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	perrors "github.com/p-blackswan/spatialflow/internal/errors"
	"github.com/p-blackswan/spatialflow/internal/health"
	"github.com/p-blackswan/spatialflow/internal/orchestrator"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	orch    *orchestrator.Orchestrator
	checker *health.Checker
	logger  zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(orch *orchestrator.Orchestrator, checker *health.Checker, logger zerolog.Logger) *Handlers {
	return &Handlers{
		orch:    orch,
		checker: checker,
		logger:  logger.With().Str("component", "handlers").Logger(),
	}
}

// Liveness handles GET /healthz.
func (h *Handlers) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Readiness handles GET /readyz.
func (h *Handlers) Readiness(c *fiber.Ctx) error {
	results := h.checker.RunAll(c.UserContext())
	if !health.Ready(results) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not_ready",
			"checks": results,
		})
	}
	return c.JSON(fiber.Map{"status": "ready", "checks": results})
}

// GetState handles GET /api/v1/state.
func (h *Handlers) GetState(c *fiber.Ctx) error {
	return c.JSON(h.state())
}

func (h *Handlers) state() StateResponse {
	return StateResponse{
		State:      h.orch.State(),
		DelayTypes: orchestrator.DelayTypes,
		Layout:     capabilityState(h.orch.LayoutState()),
		Query:      capabilityState(h.orch.QueryState()),
		Replan:     capabilityState(h.orch.ReplanState()),
	}
}

// PutSchedule handles PUT /api/v1/schedule.
func (h *Handlers) PutSchedule(c *fiber.Ctx) error {
	var req ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	h.orch.SetSchedule(req.Text)
	return c.JSON(h.orch.State())
}

// UploadSchedule handles POST /api/v1/schedule/upload. The body is the file's text.
func (h *Handlers) UploadSchedule(c *fiber.Ctx) error {
	h.orch.LoadUpload(string(c.Body()))
	return c.JSON(h.orch.State())
}

// ParseSchedule handles POST /api/v1/schedule/parse.
func (h *Handlers) ParseSchedule(c *fiber.Ctx) error {
	n, err := h.orch.ParseSchedule(c.UserContext())
	if err != nil {
		return capabilityProblem(c, err)
	}
	return c.JSON(ParseResponse{Weeks: n})
}

// PutWeek handles PUT /api/v1/week.
func (h *Handlers) PutWeek(c *fiber.Ctx) error {
	var req WeekRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	h.orch.SetWeek(req.Week)
	return c.JSON(h.orch.State())
}

// StepWeek handles POST /api/v1/week/step.
func (h *Handlers) StepWeek(c *fiber.Ctx) error {
	var req StepRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	h.orch.StepWeek(req.Delta)
	return c.JSON(h.orch.State())
}

// PutImage handles PUT /api/v1/image. The body is the raw image.
func (h *Handlers) PutImage(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return problemResponse(c, fiber.StatusBadRequest,
			"validation_failed", "Bad Request",
			"image body is empty")
	}
	h.orch.SetImage(body, c.Get(fiber.HeaderContentType))
	return c.JSON(h.orch.State())
}

// DeleteImage handles DELETE /api/v1/image.
func (h *Handlers) DeleteImage(c *fiber.Ctx) error {
	h.orch.ClearImage()
	return c.JSON(h.orch.State())
}

// PutDelayType handles PUT /api/v1/delay-type.
func (h *Handlers) PutDelayType(c *fiber.Ctx) error {
	var req DelayTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	d, err := orchestrator.ParseDelayType(req.DelayType)
	if err != nil {
		return capabilityProblem(c, err)
	}
	h.orch.SetDelayType(d)
	return c.JSON(h.orch.State())
}

// GenerateLayout handles POST /api/v1/layout.
func (h *Handlers) GenerateLayout(c *fiber.Ctx) error {
	res, err := h.orch.GenerateLayout(c.UserContext())
	if err != nil {
		return capabilityProblem(c, err)
	}
	return c.JSON(res)
}

// GetLayout handles GET /api/v1/layout.
func (h *Handlers) GetLayout(c *fiber.Ctx) error {
	return c.JSON(capabilityState(h.orch.LayoutState()))
}

// Query handles POST /api/v1/query.
func (h *Handlers) Query(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	res, err := h.orch.Query(c.UserContext(), req.Question)
	if err != nil {
		return capabilityProblem(c, err)
	}
	return c.JSON(res)
}

// GetQuery handles GET /api/v1/query.
func (h *Handlers) GetQuery(c *fiber.Ctx) error {
	return c.JSON(capabilityState(h.orch.QueryState()))
}

// Replan handles POST /api/v1/replan.
func (h *Handlers) Replan(c *fiber.Ctx) error {
	var req ReplanRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	var d orchestrator.DelayType
	if req.DelayType != "" {
		var err error
		if d, err = orchestrator.ParseDelayType(req.DelayType); err != nil {
			return capabilityProblem(c, err)
		}
	}
	res, err := h.orch.ReplanAs(c.UserContext(), req.Disruption, d)
	if err != nil {
		return capabilityProblem(c, err)
	}
	return c.JSON(res)
}

// GetReplan handles GET /api/v1/replan.
func (h *Handlers) GetReplan(c *fiber.Ctx) error {
	return c.JSON(capabilityState(h.orch.ReplanState()))
}

func capabilityState[T any](snap orchestrator.Snapshot[T]) CapabilityState[T] {
	out := CapabilityState[T]{
		Generation: snap.Generation,
		InFlight:   snap.InFlight,
		Ready:      snap.Ready,
	}
	if snap.Err != nil {
		out.Error = capabilityError(snap.Err)
	} else if snap.Ready {
		v := snap.Value
		out.Result = &v
	}
	return out
}

func capabilityError(err error) *CapabilityError {
	ce := &CapabilityError{Kind: string(perrors.Classify(err)), Message: err.Error()}
	var apiErr *perrors.APIError
	if errors.As(err, &apiErr) {
		ce.Status = apiErr.StatusCode
	}
	return ce
}

// capabilityProblem maps a capability failure onto a problem response. Messages are
// passed through unchanged.
func capabilityProblem(c *fiber.Ctx, err error) error {
	switch perrors.Classify(err) {
	case perrors.KindValidation:
		return problemResponse(c, fiber.StatusBadRequest,
			"validation_failed", "Bad Request", err.Error())
	case perrors.KindBackend:
		return problemResponse(c, fiber.StatusBadGateway,
			"backend_error", "Bad Gateway", err.Error())
	case perrors.KindTransport:
		return problemResponse(c, fiber.StatusBadGateway,
			"backend_unavailable", "Bad Gateway", err.Error())
	}
	return err
}

func invalidBody(c *fiber.Ctx, err error) error {
	return problemResponse(c, fiber.StatusBadRequest,
		"invalid_body", "Bad Request",
		"Invalid request body: "+err.Error())
}

func problemResponse(c *fiber.Ctx, status int, errType, title, detail string) error {
	return c.Status(status).JSON(ProblemDetail{
		Type:     errType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Path(),
	})
}
