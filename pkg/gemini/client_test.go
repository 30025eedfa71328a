package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"personabot/pkg/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPath = "/v1beta/models/gemini-1.5-flash:generateContent"

func textResponse(texts ...string) geminiResponse {
	var candidate geminiCandidate
	for _, text := range texts {
		candidate.Content.Parts = append(candidate.Content.Parts, geminiTextPart{Text: text})
	}
	return geminiResponse{Candidates: []geminiCandidate{candidate}}
}

func newTestClient(serverURL string) *Client {
	client := NewClient("test-key", "", 5*time.Second)
	client.SetBaseURL(serverURL + "/v1beta/models")
	return client
}

func TestGenerateContent_TextAndImage(t *testing.T) {
	image := []byte{0x89, 0x50, 0x4e, 0x47}

	geminiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, testPath, r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.RawQuery, "the key must not travel in the URL")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.Equal(t, "Describe this", req.Contents[0].Parts[0].Text)
		require.NotNil(t, req.Contents[0].Parts[1].InlineData)
		assert.Equal(t, "image/png", req.Contents[0].Parts[1].InlineData.MimeType)
		assert.Equal(t, base64.StdEncoding.EncodeToString(image), req.Contents[0].Parts[1].InlineData.Data)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(textResponse("  A test image ", "description.\n"))
	}))
	defer geminiServer.Close()

	client := newTestClient(geminiServer.URL)

	text, err := client.GenerateContent(context.Background(), []Part{
		{Text: "Describe this"},
		{Data: image, MimeType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "A test image description.", text)
}

func TestGenerateContent_APIError(t *testing.T) {
	geminiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer geminiServer.Close()

	client := newTestClient(geminiServer.URL)

	_, err := client.GenerateContent(context.Background(), []Part{{Text: "hi"}})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateContent_Blocked(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantErr  string
	}{
		{"prompt blocked", `{"promptFeedback": {"blockReason": "SAFETY"}}`, "content blocked"},
		{"safety finish", `{"candidates": [{"content": {"parts": []}, "finishReason": "SAFETY"}]}`, "safety"},
		{"no candidates", `{"candidates": []}`, "no response candidates"},
		{"no parts", `{"candidates": [{"content": {"parts": []}, "finishReason": "STOP"}]}`, "no content parts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geminiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.response))
			}))
			defer geminiServer.Close()

			client := newTestClient(geminiServer.URL)
			_, err := client.GenerateContent(context.Background(), []Part{{Text: "hi"}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateContent_NoKey(t *testing.T) {
	client := NewClient("", "", 0)
	_, err := client.GenerateContent(context.Background(), []Part{{Text: "hi"}})
	assert.Error(t, err)
}

func TestAdapter_Generate(t *testing.T) {
	geminiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents[0].Parts, 2)
		assert.Equal(t, "summarize", req.Contents[0].Parts[0].Text)
		assert.Equal(t, "a long description", req.Contents[0].Parts[1].Text)

		json.NewEncoder(w).Encode(textResponse("short"))
	}))
	defer geminiServer.Close()

	client := NewClient("test-key", "", time.Second)
	client.SetBaseURL(geminiServer.URL + "/v1beta/models/")
	adapter := NewAdapterWithClient(client)

	var gen pipeline.Generator = adapter
	text, err := gen.Generate(context.Background(), []pipeline.Part{
		pipeline.TextPart("summarize"),
		pipeline.TextPart("a long description"),
	})
	require.NoError(t, err)
	assert.Equal(t, "short", text)
}

func TestGenerateContent_TransportErrorOmitsKey(t *testing.T) {
	hanging := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer hanging.Close()

	client := NewClient("SECRET-GOOGLE-KEY", "m", 100*time.Millisecond)
	client.SetBaseURL(hanging.URL)

	_, err := client.GenerateContent(context.Background(), []Part{{Text: "hi"}})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-GOOGLE-KEY")
}
