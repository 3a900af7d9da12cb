package discovery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shobhitxp/QAAItestgenerator/internal/ports"
)

// Candidate is one DOM element hypothesized to be a form region. Identity
// is the canonicalized structural signature; two candidates with the same
// signature are the same entity and only the first is retained.
type Candidate struct {
	Element   ports.Element
	FormID    string
	Strategy  string
	Signature string
}

// Signature canonicalizes a markup fragment: it is re-serialized through
// the html5 parser so equivalent markup (whitespace runs, self-closing
// forms, entity encodings) collapses to one representation.
func Signature(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err == nil {
		if body, herr := doc.Find("body").Html(); herr == nil && strings.TrimSpace(body) != "" {
			markup = body
		}
	}

	return strings.Join(strings.Fields(markup), " ")
}

// signatureOf reads the element's inner markup, falling back to outer
// markup. Both failing means the handle is unusable and the candidate is
// dropped.
func signatureOf(ctx context.Context, el ports.Element) (string, bool) {
	if inner, err := el.InnerHTML(ctx); err == nil && strings.TrimSpace(inner) != "" {
		return Signature(inner), true
	}

	if outer, err := el.OuterHTML(ctx); err == nil && strings.TrimSpace(outer) != "" {
		return Signature(outer), true
	}

	return "", false
}
