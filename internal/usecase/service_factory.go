package usecase

import (
	"github.com/shobhitxp/QAAItestgenerator/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreatePipelineService() adapters.PipelineService {
	return NewPipelineService(PipelineServiceParams{
		Config:    f.deps.Config,
		Logger:    f.deps.Logger,
		Browser:   f.deps.Browser,
		Generator: f.deps.Generator,
		Discovery: f.deps.Discovery,
		Extractor: f.deps.Extractor,
		Runner:    f.deps.Runner,
	})
}

func (f *serviceFactory) CreateBrowserService() adapters.BrowserService {
	return f.deps.Browser
}

func (f *serviceFactory) CreateGeneratorService() adapters.GeneratorService {
	return f.deps.Generator
}
