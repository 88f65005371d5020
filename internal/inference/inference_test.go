package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudflareGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/acct/ai/run/@cf/meta/llama-3.1-8b-instruct", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body struct {
			Prompt    string `json:"prompt"`
			MaxTokens int    `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tell me about pulsars", body.Prompt)
		assert.Equal(t, 200, body.MaxTokens)

		w.Write([]byte(`{"result":{"response":"Pulsars spin."},"success":true}`))
	}))
	defer srv.Close()

	c := NewCloudflareClient(srv.URL+"/", "acct", "tok", "@cf/meta/llama-3.1-8b-instruct", srv.Client(), nil)
	text, err := c.Generate(context.Background(), "tell me about pulsars", 200)
	require.NoError(t, err)
	assert.Equal(t, "Pulsars spin.", text)
}

func TestCloudflareErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		match   string
	}{
		{name: "status", status: http.StatusServiceUnavailable, body: "busy", match: "returned 503"},
		{name: "malformed", status: http.StatusOK, body: "{", match: "decode"},
		{name: "no result", status: http.StatusOK, body: `{"success":false}`, wantErr: ErrEmptyCompletion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewCloudflareClient(srv.URL, "acct", "tok", "m", nil, nil)
			_, err := c.Generate(context.Background(), "p", 10)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.Contains(t, err.Error(), tt.match)
			}
		})
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body["model"])
		assert.EqualValues(t, 1024, body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Nebulae glow."}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL+"/v1/", "gpt-test", nil, option.WithMaxRetries(0))
	text, err := c.Generate(context.Background(), "nebula", 1024)
	require.NoError(t, err)
	assert.Equal(t, "Nebulae glow.", text)
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL+"/v1/", "m", nil, option.WithMaxRetries(0))
	_, err := c.Generate(context.Background(), "nebula", 16)
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
