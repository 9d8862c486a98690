package httpapi

import (
	"io/fs"
	"os"

	"github.com/riskibarqy/league-insights/internal/platform/logging"
	"github.com/riskibarqy/league-insights/internal/usecase"
)

type Handler struct {
	insightService   *usecase.InsightService
	ingestionService *usecase.IngestionService
	images           fs.FS
	logger           *logging.Logger
}

func NewHandler(
	insightService *usecase.InsightService,
	ingestionService *usecase.IngestionService,
	imagesDir string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		insightService:   insightService,
		ingestionService: ingestionService,
		images:           os.DirFS(imagesDir),
		logger:           logger,
	}
}
