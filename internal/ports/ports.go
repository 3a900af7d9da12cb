package ports

import (
	"context"
	"time"

	"github.com/shobhitxp/QAAItestgenerator/internal/entity"
)

// Element is one DOM element handle inside a live session. Handles are
// only valid for the page visit that produced them.
type Element interface {
	TagName(ctx context.Context) (string, error)
	GetAttribute(ctx context.Context, name string) (string, error)
	HasAttribute(ctx context.Context, name string) (bool, error)
	InnerText(ctx context.Context) (string, error)
	InnerHTML(ctx context.Context) (string, error)
	OuterHTML(ctx context.Context) (string, error)
	TextContent(ctx context.Context) (string, error)
	InputValue(ctx context.Context) (string, error)
	IsVisible(ctx context.Context) (bool, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	QueryOne(ctx context.Context, selector string) (Element, error)
	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	Press(ctx context.Context, key string) error
	Focus(ctx context.Context) error
}

// Session is a single rendered, script-executed page. All operations are
// serial: handles share one rendering session and concurrent DOM mutation
// would invalidate them.
type Session interface {
	Navigate(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)
	Content(ctx context.Context) (string, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	QueryOne(ctx context.Context, selector string) (Element, error)
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	WaitForTimeout(ctx context.Context, d time.Duration)
	Press(ctx context.Context, key string) error
	Evaluate(ctx context.Context, script string) (interface{}, error)
	IsReady() bool
}

// BrowserManager owns the browser lifecycle around a Session.
type BrowserManager interface {
	Session
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
}

// DescriptorGenerator turns a schema into abstract test-case descriptors.
// Implementations must degrade to the fixed fallback suite on any
// generation or parse failure rather than return an error for it.
type DescriptorGenerator interface {
	Generate(ctx context.Context, schema entity.FormSchema) (*entity.GeneratedSuite, error)
}

// Pipeline runs the full discovery and synthesis flow for one URL, and
// executes the synthesized units against the live page on request.
type Pipeline interface {
	Analyze(ctx context.Context, url string) ([]entity.FormReport, error)
	Execute(ctx context.Context, report entity.FormReport) ([]entity.Outcome, error)
}
