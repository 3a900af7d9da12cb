package discovery

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shobhitxp/QAAItestgenerator/internal/config"
	"github.com/shobhitxp/QAAItestgenerator/internal/mocks"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg := &config.Config{
		PipelineConfig: &config.PipelineConfig{
			MaxInputContainers:  5,
			MaxTriggers:         3,
			TriggerScanLimit:    10,
			TriggerSettleMillis: 1,
		},
	}

	return NewService(Params{Config: cfg, Logger: zap.NewNop()})
}

func formElement(markup string) *mocks.FakeElement {
	return &mocks.FakeElement{Tag: "form", HTMLInner: markup}
}

func TestSignatureCanonicalizesMarkup(t *testing.T) {
	a := Signature("<input name=\"q\">\n\t  <button>Go</button>")
	b := Signature(`<input name="q"> <button>Go</button>`)

	assert.Equal(t, a, b)

	c := Signature(`<input name="other"><button>Go</button>`)
	assert.NotEqual(t, a, c)
}

func TestDiscoverDedupsAcrossStrategies(t *testing.T) {
	svc := newTestService(t)
	session := mocks.NewFakeSession()

	shared := formElement(`<input name="q"><button>Search</button>`)

	// The same region matches both the traditional and the form-like
	// battery; only the earliest strategy may keep it.
	session.Elements[strategies[0].selector] = []*mocks.FakeElement{shared}
	session.Elements[strategies[1].selector] = []*mocks.FakeElement{
		formElement(`<input name="q"><button>Search</button>`),
	}

	candidates, err := svc.Discover(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	assert.Equal(t, strategyTraditional, candidates[0].Strategy)
	assert.Equal(t, "traditional_form_1", candidates[0].FormID)
}

func TestDiscoverKeepsDistinctRegions(t *testing.T) {
	svc := newTestService(t)
	session := mocks.NewFakeSession()

	session.Elements[strategies[0].selector] = []*mocks.FakeElement{
		formElement(`<input name="q">`),
		formElement(`<input name="email"><input name="password">`),
	}
	session.Elements[strategies[4].selector] = []*mocks.FakeElement{
		formElement(`<input name="modal-field">`),
	}

	candidates, err := svc.Discover(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	assert.Equal(t, "traditional_form_1", candidates[0].FormID)
	assert.Equal(t, "traditional_form_2", candidates[1].FormID)
	assert.Equal(t, "modal_form_1", candidates[2].FormID)
}

func TestDiscoverCapsInputContainersBeforeDedup(t *testing.T) {
	svc := newTestService(t)
	session := mocks.NewFakeSession()

	var containers []*mocks.FakeElement
	for i := 0; i < 8; i++ {
		containers = append(containers, formElement(fmt.Sprintf(`<input name="f%d">`, i)))
	}
	session.Elements[strategies[2].selector] = containers

	candidates, err := svc.Discover(context.Background(), session)
	require.NoError(t, err)

	assert.Len(t, candidates, 5)
}

func TestDiscoverSwallowsStrategyFailures(t *testing.T) {
	svc := newTestService(t)
	session := mocks.NewFakeSession()

	session.QueryErrs[strategies[0].selector] = errors.New("selector engine crashed")
	session.Elements[strategies[1].selector] = []*mocks.FakeElement{
		formElement(`<input name="q">`),
	}

	candidates, err := svc.Discover(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	assert.Equal(t, strategyFormLike, candidates[0].Strategy)
}

func TestDiscoverSkipsUnreadableHandles(t *testing.T) {
	svc := newTestService(t)
	session := mocks.NewFakeSession()

	broken := &mocks.FakeElement{
		Tag:      "form",
		InnerErr: errors.New("handle detached"),
		OuterErr: errors.New("handle detached"),
	}
	session.Elements[strategies[0].selector] = []*mocks.FakeElement{
		broken,
		formElement(`<input name="q">`),
	}

	candidates, err := svc.Discover(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
}

func TestExploreRevealsNewCandidates(t *testing.T) {
	svc := newTestService(t)
	session := mocks.NewFakeSession()
	session.CurrentURL = "https://example.com"

	trigger := &mocks.FakeElement{Tag: "button", Text: "Add contact"}
	trigger.OnClick = func() {
		session.Elements[revealBattery] = []*mocks.FakeElement{
			formElement(`<input name="revealed">`),
		}
	}
	session.Elements[triggerBattery] = []*mocks.FakeElement{trigger}

	candidates, err := svc.Explore(context.Background(), session, nil)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	assert.Equal(t, 1, trigger.Clicks)
	assert.Equal(t, strategyDynamic, candidates[0].Strategy)
	assert.Equal(t, "dynamic_form_1_1", candidates[0].FormID)
}

func TestExploreDedupsAgainstKnownCandidates(t *testing.T) {
	svc := newTestService(t)
	session := mocks.NewFakeSession()
	session.CurrentURL = "https://example.com"

	known := Candidate{
		FormID:    "traditional_form_1",
		Strategy:  strategyTraditional,
		Signature: Signature(`<input name="q">`),
	}

	trigger := &mocks.FakeElement{Tag: "button", Text: "Submit"}
	session.Elements[triggerBattery] = []*mocks.FakeElement{trigger}
	session.Elements[revealBattery] = []*mocks.FakeElement{
		formElement(`<input name="q">`),
	}

	candidates, err := svc.Explore(context.Background(), session, []Candidate{known})
	require.NoError(t, err)

	assert.Len(t, candidates, 1)
}

func TestExploreIgnoresNonActionText(t *testing.T) {
	svc := newTestService(t)
	session := mocks.NewFakeSession()
	session.CurrentURL = "https://example.com"

	decorative := &mocks.FakeElement{Tag: "button", Text: "Toggle theme"}
	session.Elements[triggerBattery] = []*mocks.FakeElement{decorative}

	_, err := svc.Explore(context.Background(), session, nil)
	require.NoError(t, err)

	assert.Zero(t, decorative.Clicks)
}

func TestExploreLimitsTriggerClicks(t *testing.T) {
	svc := newTestService(t)
	session := mocks.NewFakeSession()
	session.CurrentURL = "https://example.com"

	var triggers []*mocks.FakeElement
	for i := 0; i < 6; i++ {
		triggers = append(triggers, &mocks.FakeElement{Tag: "button", Text: "Add item"})
	}
	session.Elements[triggerBattery] = triggers

	_, err := svc.Explore(context.Background(), session, nil)
	require.NoError(t, err)

	clicked := 0
	for _, trigger := range triggers {
		clicked += trigger.Clicks
	}

	assert.Equal(t, 3, clicked)
}

func TestExploreRestoresOriginAfterNavigation(t *testing.T) {
	svc := newTestService(t)
	session := mocks.NewFakeSession()
	session.CurrentURL = "https://example.com/home"

	trigger := &mocks.FakeElement{Tag: "button", Text: "Sign up"}
	trigger.OnClick = func() {
		session.CurrentURL = "https://example.com/signup"
	}
	session.Elements[triggerBattery] = []*mocks.FakeElement{trigger}

	_, err := svc.Explore(context.Background(), session, nil)
	require.NoError(t, err)

	require.NotEmpty(t, session.Navigations)
	assert.Equal(t, "https://example.com/home", session.Navigations[len(session.Navigations)-1])
}

func TestExploreSkipsClickFailures(t *testing.T) {
	svc := newTestService(t)
	session := mocks.NewFakeSession()
	session.CurrentURL = "https://example.com"

	failing := &mocks.FakeElement{Tag: "button", Text: "Create", ClickErr: errors.New("detached")}
	working := &mocks.FakeElement{Tag: "button", Text: "Register"}
	session.Elements[triggerBattery] = []*mocks.FakeElement{failing, working}

	_, err := svc.Explore(context.Background(), session, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, working.Clicks)
}
