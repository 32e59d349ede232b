package api

import (
	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/config"
	"github.com/SUMMERxKx/nwHacks/internal/service"
	"github.com/SUMMERxKx/nwHacks/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Config() *config.Config
	CheckInRepo() storage.CheckInRepository
	Insights() *service.Insights
}

type application struct {
	logger   internal.Logger
	cfg      *config.Config
	repo     storage.CheckInRepository
	insights *service.Insights
}

func NewApp(cfg *config.Config, logger internal.Logger, repo storage.CheckInRepository, insights *service.Insights) App {
	return &application{logger: logger, cfg: cfg, repo: repo, insights: insights}
}

func (a *application) Logger() internal.Logger                { return a.logger }
func (a *application) Config() *config.Config                 { return a.cfg }
func (a *application) CheckInRepo() storage.CheckInRepository { return a.repo }
func (a *application) Insights() *service.Insights            { return a.insights }
