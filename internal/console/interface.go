package console

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shobhitxp/QAAItestgenerator/internal/config"
	"github.com/shobhitxp/QAAItestgenerator/internal/entity"
	"github.com/shobhitxp/QAAItestgenerator/internal/usecase"
	"github.com/shobhitxp/QAAItestgenerator/pkg/logg"
)

type Interface struct {
	config   *config.Config
	logger   *zap.Logger
	usecase  *usecase.Service
	ctx      context.Context
	cancel   context.CancelFunc
	sigChan  chan os.Signal
	stopping bool
	reports  []entity.FormReport
}

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Usecase *usecase.Service
}

func NewInterface(params Params) *Interface {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)

	return &Interface{
		config:   params.Config,
		logger:   params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase:  params.Usecase,
		ctx:      ctx,
		cancel:   cancel,
		sigChan:  sigChan,
		stopping: false,
	}
}

func (i *Interface) Start() error {
	i.printBanner()
	i.printHelp()

	signal.Notify(i.sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-i.sigChan
		fmt.Println("\n\n⚠️  Interrupt received, stopping...")
		i.Stop()
	}()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		if i.stopping {
			break
		}

		fmt.Print("\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "" {
			continue
		}

		if err := i.handleCommand(input); err != nil {
			if err.Error() == "exit" {
				break
			}

			i.logger.Error("Command error", zap.Error(err))
			fmt.Printf("Error: %v\n", err)
		}
	}

	return nil
}

func (i *Interface) Stop() error {
	if i.stopping {
		return nil
	}

	i.stopping = true
	i.logger.Info("Stopping console interface...")

	i.cancel()

	fmt.Println("👋 Goodbye!")
	os.Exit(0)

	return nil
}

func (i *Interface) handleCommand(input string) error {
	fields := strings.Fields(input)

	switch fields[0] {
	case "help", "h":
		i.printHelp()

		return nil
	case "exit", "quit", "q":
		fmt.Println("Shutting down...")

		return fmt.Errorf("exit")
	case "forms", "f":
		i.printReports()

		return nil
	case "run", "r":
		if len(fields) < 2 {
			return fmt.Errorf("usage: run <form number>")
		}

		return i.runReport(fields[1])
	case "analyze", "a":
		if len(fields) < 2 {
			return fmt.Errorf("usage: analyze <url>")
		}

		return i.analyze(fields[1])
	default:
		// Bare URLs are the common case.
		if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
			return i.analyze(input)
		}

		return fmt.Errorf("unknown command %q, type 'help'", fields[0])
	}
}

func (i *Interface) analyze(url string) error {
	fmt.Printf("\n🔍 Analyzing: %s\n", url)
	fmt.Println("──────────────────────────────────────────────────")

	reports, err := i.usecase.Pipeline.Analyze(i.ctx, url)
	if err != nil {
		fmt.Printf("\n❌ Analysis failed: %v\n", err)

		return nil
	}

	i.reports = reports

	if len(reports) == 0 {
		fmt.Println("\nNo form regions found on this page.")

		return nil
	}

	fmt.Printf("\n✅ Found %d form region(s)\n", len(reports))
	i.printReports()

	return nil
}

func (i *Interface) runReport(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(i.reports) {
		return fmt.Errorf("no such form: %s (run 'forms' to list)", arg)
	}

	report := i.reports[n-1]

	fmt.Printf("\n▶️  Running %d test(s) against %s form %s\n",
		len(report.Units), report.FormType, report.Schema.FormID)
	fmt.Println("──────────────────────────────────────────────────")

	outcomes, err := i.usecase.Pipeline.Execute(i.ctx, report)
	if err != nil {
		fmt.Printf("\n❌ Execution failed: %v\n", err)

		return nil
	}

	passed, failed, warned := 0, 0, 0

	for idx, outcome := range outcomes {
		unit := report.Units[idx]

		switch outcome.Status {
		case entity.OutcomePassed:
			passed++
			fmt.Printf("  ✅ %s %s (%s)\n", unit.Descriptor.TestID, unit.Descriptor.TestName, outcome.Duration.Round(time.Millisecond))
		case entity.OutcomeWarning:
			warned++
			fmt.Printf("  ⚠️  %s %s: %s\n", unit.Descriptor.TestID, unit.Descriptor.TestName, outcome.Detail)
		default:
			failed++
			fmt.Printf("  ❌ %s %s: %s\n", unit.Descriptor.TestID, unit.Descriptor.TestName, outcome.Detail)
		}
	}

	fmt.Printf("\nPassed: %d  Failed: %d  Warnings: %d\n", passed, failed, warned)

	return nil
}

func (i *Interface) printReports() {
	if len(i.reports) == 0 {
		fmt.Println("\nNo analysis yet. Enter a URL to analyze a page.")

		return
	}

	for idx, report := range i.reports {
		fmt.Printf("\n[%d] %s (%s)\n", idx+1, report.Schema.FormID, report.FormType)
		fmt.Printf("    inputs: %d  buttons: %d  tests: %d\n",
			len(report.Schema.Inputs), len(report.Schema.Buttons), len(report.Units))

		if report.Schema.Error != "" {
			fmt.Printf("    extraction degraded: %s\n", report.Schema.Error)
		}

		for _, unit := range report.Units {
			fmt.Printf("    - %s [%s] %s\n",
				unit.Descriptor.TestID, unit.Descriptor.Category, unit.Descriptor.TestName)
		}
	}
}

func (i *Interface) printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                                                           ║
║         🔎  Form Discovery & Test Generator  🧪           ║
║                                                           ║
║   Finds forms on any page and generates runnable tests    ║
║                                                           ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}

func (i *Interface) printHelp() {
	help := `
Available commands:
  <url>           - Analyze a page (same as 'analyze <url>')
  analyze, a URL  - Discover forms on URL and generate tests
  forms, f        - List forms found by the last analysis
  run, r N        - Execute the generated tests for form N
  help, h         - Show this help message
  exit, quit, q   - Exit the application

Example:
  > https://example.com/signup
  > run 1
`
	fmt.Println(help)
}
