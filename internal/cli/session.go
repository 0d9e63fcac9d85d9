package cli

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/p-blackswan/spatialflow/internal/backend"
	"github.com/p-blackswan/spatialflow/internal/cursor"
	"github.com/p-blackswan/spatialflow/internal/metrics"
	"github.com/p-blackswan/spatialflow/internal/orchestrator"
	"github.com/p-blackswan/spatialflow/internal/schedule"
)

// session is everything one command run needs.
type session struct {
	client *backend.Client
	orch   *orchestrator.Orchestrator
}

// newSession builds an orchestrator from config. m may be nil.
func (a *app) newSession(m *metrics.Metrics) (*session, error) {
	delay, err := orchestrator.ParseDelayType(a.cfg.DefaultDelayType)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_DELAY_TYPE: %w", err)
	}

	client := backend.NewClient(a.cfg.BackendURL, a.logger, backend.WithTimeout(a.cfg.BackendTimeout))
	orch := orchestrator.New(orchestrator.Config{
		Project:      a.cfg.ProjectName,
		Dims:         a.cfg.SiteDims,
		DelayType:    delay,
		ParseTimeout: a.cfg.ParseTimeout,
	}, schedule.NewStore(), cursor.New(), client, m, a.logger)

	return &session{client: client, orch: orch}, nil
}

// loadInputs applies the --schedule, --image and --week flags.
func (a *app) loadInputs(s *session) error {
	if a.opts.schedulePath != "" {
		data, err := os.ReadFile(a.opts.schedulePath)
		if err != nil {
			return fmt.Errorf("reading schedule: %w", err)
		}
		s.orch.LoadUpload(string(data))
	}

	if a.opts.imagePath != "" {
		data, err := os.ReadFile(a.opts.imagePath)
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}
		s.orch.SetImage(data, imageType(a.opts.imagePath, data))
	}

	s.orch.SetWeek(a.opts.week)
	return nil
}

// imageType prefers the file extension and falls back to sniffing the content.
func imageType(path string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
