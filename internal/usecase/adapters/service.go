package adapters

import (
	"context"

	"github.com/shobhitxp/QAAItestgenerator/internal/entity"
)

type BrowserService interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)
	IsReady() bool
}

type GeneratorService interface {
	Generate(ctx context.Context, schema entity.FormSchema) (*entity.GeneratedSuite, error)
}

type PipelineService interface {
	Analyze(ctx context.Context, url string) ([]entity.FormReport, error)
	Execute(ctx context.Context, report entity.FormReport) ([]entity.Outcome, error)
}
