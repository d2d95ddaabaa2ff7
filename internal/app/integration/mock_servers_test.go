//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const testAPIKey = "integration-test-key-0123456789"

// fakeAssemblyAI serves the upload, submit and poll endpoints. Every
// transcript finishes with final after one processing poll.
type fakeAssemblyAI struct {
	mu        sync.Mutex
	final     map[string]interface{}
	uploads   int
	submitted []map[string]interface{}
	polls     map[string]int
}

func newFakeAssemblyAI(t *testing.T, final map[string]interface{}) (*fakeAssemblyAI, *httptest.Server) {
	t.Helper()
	f := &fakeAssemblyAI{final: final, polls: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAssemblyAI) setFinal(final map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.final = final
}

func (f *fakeAssemblyAI) serve(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != testAPIKey {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid API key"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v2/upload":
		_, _ = io.Copy(io.Discard, r.Body)
		f.uploads++
		_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/upload"})
	case r.Method == http.MethodPost && r.URL.Path == "/v2/transcript":
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.submitted = append(f.submitted, body)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "tr_it", "status": "queued"})
	case r.Method == http.MethodGet && r.URL.Path == "/v2/transcript/tr_it":
		f.polls["tr_it"]++
		if f.polls["tr_it"]%2 == 1 {
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "tr_it", "status": "processing"})
			return
		}
		_ = json.NewEncoder(w).Encode(f.final)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func completedTranscript() map[string]interface{} {
	return map[string]interface{}{
		"id":             "tr_it",
		"status":         "completed",
		"audio_duration": 3.0,
		"utterances": []map[string]interface{}{
			{"speaker": "A", "text": "Hello"},
			{"speaker": "B", "text": "Hi there"},
		},
	}
}

func failedTranscript(message string) map[string]interface{} {
	return map[string]interface{}{"id": "tr_it", "status": "error", "error": message}
}
