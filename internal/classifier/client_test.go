package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyReturnsVerdict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze-conversation", r.URL.Path)

		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "1-2", req.ConversationID)
		assert.Equal(t, "you are worthless", req.Text)

		json.NewEncoder(w).Encode(Verdict{
			IsBullying:      true,
			ConfidenceScore: 0.97,
			AlertTriggered:  true,
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	verdict, err := client.Classify(context.Background(), "1-2", "you are worthless")
	require.NoError(t, err)
	assert.True(t, verdict.IsBullying)
	assert.True(t, verdict.AlertTriggered)
	assert.InDelta(t, 0.97, verdict.ConfidenceScore, 1e-9)
}

func TestClassifyNon200IsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	_, err := client.Classify(context.Background(), "1-2", "hi")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClassifyMalformedBodyIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"is_bullying":`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	_, err := client.Classify(context.Background(), "1-2", "hi")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClassifyTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewHTTPClient(server.URL, 50*time.Millisecond)
	_, err := client.Classify(context.Background(), "1-2", "hi")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClassifyConnectionRefusedIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	_, err := client.Classify(context.Background(), "1-2", "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}
