package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/shobhitxp/QAAItestgenerator/internal/ports"
)

const elementActionTimeout = 10000

// pwElement adapts one playwright handle to the element port. The page is
// carried for script evaluation against the handle.
type pwElement struct {
	handle playwright.ElementHandle
	page   playwright.Page
}

func newElement(handle playwright.ElementHandle, page playwright.Page) *pwElement {
	return &pwElement{handle: handle, page: page}
}

func (e *pwElement) TagName(ctx context.Context) (string, error) {
	result, err := e.handle.Evaluate(`el => el.tagName`)
	if err != nil {
		return "", fmt.Errorf("tag name: %w", err)
	}

	tag, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("tag name: unexpected result %T", result)
	}

	return strings.ToLower(tag), nil
}

func (e *pwElement) GetAttribute(ctx context.Context, name string) (string, error) {
	value, err := e.handle.GetAttribute(name)
	if err != nil {
		return "", fmt.Errorf("attribute %q: %w", name, err)
	}

	return value, nil
}

func (e *pwElement) HasAttribute(ctx context.Context, name string) (bool, error) {
	result, err := e.handle.Evaluate(`(el, name) => el.hasAttribute(name)`, name)
	if err != nil {
		return false, fmt.Errorf("has attribute %q: %w", name, err)
	}

	has, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("has attribute %q: unexpected result %T", name, result)
	}

	return has, nil
}

func (e *pwElement) InnerText(ctx context.Context) (string, error) {
	return e.handle.InnerText()
}

func (e *pwElement) InnerHTML(ctx context.Context) (string, error) {
	return e.handle.InnerHTML()
}

func (e *pwElement) OuterHTML(ctx context.Context) (string, error) {
	result, err := e.handle.Evaluate(`el => el.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("outer html: %w", err)
	}

	html, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("outer html: unexpected result %T", result)
	}

	return html, nil
}

func (e *pwElement) TextContent(ctx context.Context) (string, error) {
	return e.handle.TextContent()
}

func (e *pwElement) InputValue(ctx context.Context) (string, error) {
	return e.handle.InputValue()
}

func (e *pwElement) IsVisible(ctx context.Context) (bool, error) {
	return e.handle.IsVisible()
}

func (e *pwElement) QueryAll(ctx context.Context, selector string) ([]ports.Element, error) {
	handles, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}

	elements := make([]ports.Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, newElement(h, e.page))
	}

	return elements, nil
}

func (e *pwElement) QueryOne(ctx context.Context, selector string) (ports.Element, error) {
	handle, err := e.handle.QuerySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}

	if handle == nil {
		return nil, nil
	}

	return newElement(handle, e.page), nil
}

func (e *pwElement) Click(ctx context.Context) error {
	return e.handle.Click(playwright.ElementHandleClickOptions{
		Timeout: playwright.Float(elementActionTimeout),
	})
}

func (e *pwElement) Fill(ctx context.Context, value string) error {
	return e.handle.Fill(value, playwright.ElementHandleFillOptions{
		Timeout: playwright.Float(elementActionTimeout),
	})
}

func (e *pwElement) Press(ctx context.Context, key string) error {
	return e.handle.Press(key, playwright.ElementHandlePressOptions{
		Timeout: playwright.Float(elementActionTimeout),
	})
}

func (e *pwElement) Focus(ctx context.Context) error {
	return e.handle.Focus()
}
