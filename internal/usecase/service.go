package usecase

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shobhitxp/QAAItestgenerator/internal/config"
	"github.com/shobhitxp/QAAItestgenerator/internal/discovery"
	"github.com/shobhitxp/QAAItestgenerator/internal/ports"
	"github.com/shobhitxp/QAAItestgenerator/internal/schema"
	"github.com/shobhitxp/QAAItestgenerator/internal/synth"
	"github.com/shobhitxp/QAAItestgenerator/internal/usecase/adapters"
)

type Service struct {
	Pipeline  adapters.PipelineService
	Browser   adapters.BrowserService
	Generator adapters.GeneratorService
}

type Params struct {
	fx.In

	Logger    *zap.Logger
	Config    *config.Config
	Browser   ports.BrowserManager
	Generator ports.DescriptorGenerator
	Discovery *discovery.Service
	Extractor *schema.Extractor
	Runner    *synth.Runner
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Pipeline:  factory.CreatePipelineService(),
		Browser:   factory.CreateBrowserService(),
		Generator: factory.CreateGeneratorService(),
	}
}
