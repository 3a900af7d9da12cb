package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shobhitxp/QAAItestgenerator/internal/config"
	"github.com/shobhitxp/QAAItestgenerator/internal/entity"
)

const suiteJSON = `{
	"form_type": "Search form",
	"test_cases": [
		{
			"test_id": "TC001",
			"test_name": "Valid search",
			"test_type": "positive",
			"priority": "high",
			"test_data": {"search_input": "laptops"},
			"expected_result": "Results shown"
		},
		{
			"test_id": "TC002",
			"test_name": "Special characters rejected",
			"test_type": "negative",
			"priority": "medium"
		}
	]
}`

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()

	cfg := &config.Config{
		AIConfig: &config.AIConfig{
			Provider:          "anthropic",
			APIKey:            "test-key",
			Model:             "test-model",
			GenerationTimeout: 5000,
		},
	}

	client := NewClient(Params{Config: cfg, Logger: zap.NewNop()})
	if endpoint != "" {
		client.endpoint = endpoint
	}

	return client
}

func claudeReply(text string) string {
	resp := map[string]any{
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": "end_turn",
	}
	data, _ := json.Marshal(resp)

	return string(data)
}

func TestGenerateParsesSuite(t *testing.T) {
	var gotBody claudeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Write([]byte(claudeReply(suiteJSON)))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	suite, err := client.Generate(context.Background(), entity.FormSchema{FormID: "traditional_form_1"})
	require.NoError(t, err)
	require.NotNil(t, suite)

	assert.Equal(t, "Search form", suite.FormTypeLabel)
	require.Len(t, suite.Cases, 2)
	assert.Equal(t, entity.CategoryPositive, suite.Cases[0].Category)
	assert.Equal(t, "laptops", suite.Cases[0].TestData["search_input"])

	assert.Equal(t, "test-model", gotBody.Model)
	require.Len(t, gotBody.Messages, 1)
	assert.Contains(t, gotBody.Messages[0].Content, "traditional_form_1")
}

func TestGenerateFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	suite, err := client.Generate(context.Background(), entity.FormSchema{})
	require.NoError(t, err)

	assertFallback(t, suite)
}

func TestGenerateFallsBackOnMalformedSuite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(claudeReply("Sure! Here are some ideas in prose, not JSON.")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	suite, err := client.Generate(context.Background(), entity.FormSchema{})
	require.NoError(t, err)

	assertFallback(t, suite)
}

func TestGenerateFallsBackOnConnectionFailure(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")

	suite, err := client.Generate(context.Background(), entity.FormSchema{})
	require.NoError(t, err)

	assertFallback(t, suite)
}

func TestGenerateAcceptsFencedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(claudeReply("```json\n" + suiteJSON + "\n```")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	suite, err := client.Generate(context.Background(), entity.FormSchema{})
	require.NoError(t, err)

	assert.Equal(t, "Search form", suite.FormTypeLabel)
	assert.Len(t, suite.Cases, 2)
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripFences(tc.in))
		})
	}
}

func TestParseSuiteRejectsNonJSON(t *testing.T) {
	_, err := ParseSuite("not json at all")
	assert.Error(t, err)
}

func TestBuildPromptCarriesSchema(t *testing.T) {
	schema := entity.FormSchema{
		URL:         "https://example.com",
		FormID:      "search_form_1",
		ElementType: "form",
		Inputs: []entity.InputField{
			{Name: "q", Type: "search", Placeholder: "Search..."},
		},
		Buttons: []entity.Control{
			{Text: "Go", Type: "submit"},
		},
	}

	prompt := BuildPrompt(schema)

	assert.Contains(t, prompt, "https://example.com")
	assert.Contains(t, prompt, "search_form_1")
	assert.Contains(t, prompt, `"q"`)
	assert.Contains(t, prompt, "Return ONLY valid JSON")
}

func assertFallback(t *testing.T, suite *entity.GeneratedSuite) {
	t.Helper()

	require.NotNil(t, suite)
	assert.Equal(t, "Unknown form type", suite.FormTypeLabel)
	require.Len(t, suite.Cases, 1)

	tc := suite.Cases[0]
	assert.Equal(t, "TC001", tc.TestID)
	assert.Equal(t, "Basic form validation", tc.TestName)
	assert.Equal(t, entity.CategoryPositive, tc.Category)
	assert.Equal(t, "high", tc.Priority)
	assert.Equal(t, "Form submits successfully", tc.ExpectedResult)
}
