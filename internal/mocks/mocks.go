package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/shobhitxp/QAAItestgenerator/internal/entity"
	"github.com/shobhitxp/QAAItestgenerator/internal/ports"
)

// FakeElement is an in-memory element. Child lookups are keyed by the
// literal selector string; the selector batteries are fixed constants so
// tests wire matches per battery instead of parsing CSS.
type FakeElement struct {
	Tag       string
	Attrs     map[string]string
	Text      string
	HTMLInner string
	HTMLOuter string
	Value     string
	Hidden    bool
	Children  map[string][]*FakeElement

	TagErr   error
	InnerErr error
	OuterErr error
	ClickErr error
	FillErr  error

	// OnClick runs after a successful click, for simulating side effects
	// such as navigation or revealed content.
	OnClick func()

	Clicks  int
	Focused bool
	Pressed []string
}

var _ ports.Element = (*FakeElement)(nil)

func (e *FakeElement) TagName(ctx context.Context) (string, error) {
	if e.TagErr != nil {
		return "", e.TagErr
	}

	return e.Tag, nil
}

func (e *FakeElement) GetAttribute(ctx context.Context, name string) (string, error) {
	if e.Attrs == nil {
		return "", nil
	}

	return e.Attrs[name], nil
}

func (e *FakeElement) HasAttribute(ctx context.Context, name string) (bool, error) {
	if e.Attrs == nil {
		return false, nil
	}

	_, ok := e.Attrs[name]

	return ok, nil
}

func (e *FakeElement) InnerText(ctx context.Context) (string, error) {
	return e.Text, nil
}

func (e *FakeElement) InnerHTML(ctx context.Context) (string, error) {
	if e.InnerErr != nil {
		return "", e.InnerErr
	}

	return e.HTMLInner, nil
}

func (e *FakeElement) OuterHTML(ctx context.Context) (string, error) {
	if e.OuterErr != nil {
		return "", e.OuterErr
	}

	return e.HTMLOuter, nil
}

func (e *FakeElement) TextContent(ctx context.Context) (string, error) {
	return e.Text, nil
}

func (e *FakeElement) InputValue(ctx context.Context) (string, error) {
	return e.Value, nil
}

func (e *FakeElement) IsVisible(ctx context.Context) (bool, error) {
	return !e.Hidden, nil
}

func (e *FakeElement) QueryAll(ctx context.Context, selector string) ([]ports.Element, error) {
	matches := e.Children[selector]
	elements := make([]ports.Element, 0, len(matches))

	for _, m := range matches {
		elements = append(elements, m)
	}

	return elements, nil
}

func (e *FakeElement) QueryOne(ctx context.Context, selector string) (ports.Element, error) {
	matches := e.Children[selector]
	if len(matches) == 0 {
		return nil, nil
	}

	return matches[0], nil
}

func (e *FakeElement) Click(ctx context.Context) error {
	if e.ClickErr != nil {
		return e.ClickErr
	}

	e.Clicks++

	if e.OnClick != nil {
		e.OnClick()
	}

	return nil
}

func (e *FakeElement) Fill(ctx context.Context, value string) error {
	if e.FillErr != nil {
		return e.FillErr
	}

	e.Value = value

	return nil
}

func (e *FakeElement) Press(ctx context.Context, key string) error {
	e.Pressed = append(e.Pressed, key)

	return nil
}

func (e *FakeElement) Focus(ctx context.Context) error {
	e.Focused = true

	return nil
}

// FakeSession is an in-memory session keyed the same way as FakeElement.
// Navigations are recorded; CurrentURL tracks the last successful one.
type FakeSession struct {
	Ready       bool
	CurrentURL  string
	Page        string
	Elements    map[string][]*FakeElement
	QueryErrs   map[string]error
	EvalResults map[string]interface{}
	NavigateErr error
	URLErr      error

	Navigations []string
	PressedKeys []string
	Waited      []time.Duration
}

var _ ports.Session = (*FakeSession)(nil)

func NewFakeSession() *FakeSession {
	return &FakeSession{
		Ready:       true,
		Elements:    map[string][]*FakeElement{},
		QueryErrs:   map[string]error{},
		EvalResults: map[string]interface{}{},
	}
}

func (s *FakeSession) Navigate(ctx context.Context, url string) error {
	if s.NavigateErr != nil {
		return s.NavigateErr
	}

	s.Navigations = append(s.Navigations, url)
	s.CurrentURL = url

	return nil
}

func (s *FakeSession) URL(ctx context.Context) (string, error) {
	if s.URLErr != nil {
		return "", s.URLErr
	}

	return s.CurrentURL, nil
}

func (s *FakeSession) Content(ctx context.Context) (string, error) {
	return s.Page, nil
}

func (s *FakeSession) QueryAll(ctx context.Context, selector string) ([]ports.Element, error) {
	if err := s.QueryErrs[selector]; err != nil {
		return nil, err
	}

	matches := s.Elements[selector]
	elements := make([]ports.Element, 0, len(matches))

	for _, m := range matches {
		elements = append(elements, m)
	}

	return elements, nil
}

func (s *FakeSession) QueryOne(ctx context.Context, selector string) (ports.Element, error) {
	if err := s.QueryErrs[selector]; err != nil {
		return nil, err
	}

	matches := s.Elements[selector]
	if len(matches) == 0 {
		return nil, fmt.Errorf("element not found: %s", selector)
	}

	return matches[0], nil
}

func (s *FakeSession) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) (ports.Element, error) {
	if err := s.QueryErrs[selector]; err != nil {
		return nil, err
	}

	matches := s.Elements[selector]
	if len(matches) == 0 {
		return nil, fmt.Errorf("timeout waiting for: %s", selector)
	}

	return matches[0], nil
}

func (s *FakeSession) WaitForTimeout(ctx context.Context, d time.Duration) {
	s.Waited = append(s.Waited, d)
}

func (s *FakeSession) Press(ctx context.Context, key string) error {
	s.PressedKeys = append(s.PressedKeys, key)

	return nil
}

func (s *FakeSession) Evaluate(ctx context.Context, script string) (interface{}, error) {
	if result, ok := s.EvalResults[script]; ok {
		return result, nil
	}

	return true, nil
}

func (s *FakeSession) IsReady() bool {
	return s.Ready
}

// FakeBrowser extends FakeSession with the lifecycle methods of the
// browser manager port.
type FakeBrowser struct {
	FakeSession

	LaunchErr error
	CloseErr  error
	Launched  bool
	Closed    bool
}

var _ ports.BrowserManager = (*FakeBrowser)(nil)

func NewFakeBrowser() *FakeBrowser {
	return &FakeBrowser{
		FakeSession: *NewFakeSession(),
	}
}

func (b *FakeBrowser) Launch(ctx context.Context) error {
	if b.LaunchErr != nil {
		return b.LaunchErr
	}

	b.Launched = true
	b.Ready = true

	return nil
}

func (b *FakeBrowser) Close(ctx context.Context) error {
	if b.CloseErr != nil {
		return b.CloseErr
	}

	b.Closed = true
	b.Ready = false

	return nil
}

// FakeGenerator returns a canned suite and records every schema it saw.
type FakeGenerator struct {
	Suite *entity.GeneratedSuite
	Err   error

	Schemas []entity.FormSchema
}

var _ ports.DescriptorGenerator = (*FakeGenerator)(nil)

func (g *FakeGenerator) Generate(ctx context.Context, schema entity.FormSchema) (*entity.GeneratedSuite, error) {
	g.Schemas = append(g.Schemas, schema)

	if g.Err != nil {
		return nil, g.Err
	}

	return g.Suite, nil
}
