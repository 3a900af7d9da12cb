package bootstrap

import (
	"time"

	"go.uber.org/fx"

	"github.com/shobhitxp/QAAItestgenerator/internal/ai"
	"github.com/shobhitxp/QAAItestgenerator/internal/browser"
	"github.com/shobhitxp/QAAItestgenerator/internal/config"
	"github.com/shobhitxp/QAAItestgenerator/internal/console"
	"github.com/shobhitxp/QAAItestgenerator/internal/discovery"
	"github.com/shobhitxp/QAAItestgenerator/internal/ports"
	"github.com/shobhitxp/QAAItestgenerator/internal/schema"
	"github.com/shobhitxp/QAAItestgenerator/internal/synth"
	"github.com/shobhitxp/QAAItestgenerator/internal/usecase"
)

func NewApp() *fx.App {
	return fx.New(
		fx.Provide(
			config.GetConfig,
			newLogger,
			newTraceProvider,

			fx.Annotate(browser.NewManager, fx.As(new(ports.BrowserManager))),
			fx.Annotate(ai.NewClient, fx.As(new(ports.DescriptorGenerator))),

			discovery.NewService,
			schema.NewExtractor,
			synth.NewRunner,

			usecase.NewUsecase,

			console.NewInterface,
		),

		fx.Invoke(
			runConsole,
		),

		fx.StartTimeout(10*time.Second),
	)
}
