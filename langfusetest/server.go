package langfusetest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/curacel/langfuse-go/pkg/errors"
	"github.com/curacel/langfuse-go/pkg/ingestion"
	"github.com/curacel/langfuse-go/pkg/types"
)

const promptsPrefix = "/api/public/v2/prompts/"

// MockServer is an httptest server speaking the ingestion and prompt
// endpoints. It records every request and decodes ingestion batches.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*RecordedRequest
	batches  []RecordedBatch
	prompts  map[string]*types.Prompt
	rejected map[string]string

	// ResponseFunc overrides every response when set.
	ResponseFunc func(r *http.Request) (int, any)
}

// RecordedRequest is a request received by the server.
type RecordedRequest struct {
	Method      string
	Path        string
	Query       string
	Body        []byte
	ContentType string
	UserAgent   string
	PublicKey   string
	SecretKey   string
}

// RecordedEvent is a decoded ingestion envelope.
type RecordedEvent struct {
	ID        string              `json:"id"`
	Timestamp string              `json:"timestamp"`
	Type      ingestion.EventType `json:"type"`
	Body      map[string]any      `json:"body"`
}

// RecordedBatch is a decoded ingestion request body.
type RecordedBatch struct {
	Batch []RecordedEvent `json:"batch"`
}

// Types returns the envelope types in batch order.
func (b RecordedBatch) Types() []ingestion.EventType {
	out := make([]ingestion.EventType, len(b.Batch))
	for i, e := range b.Batch {
		out[i] = e.Type
	}
	return out
}

// IDs returns the envelope IDs in batch order.
func (b RecordedBatch) IDs() []string {
	out := make([]string, len(b.Batch))
	for i, e := range b.Batch {
		out[i] = e.ID
	}
	return out
}

// NewMockServer starts a server that accepts every envelope with a 207.
func NewMockServer() *MockServer {
	ms := &MockServer{
		prompts:  make(map[string]*types.Prompt),
		rejected: make(map[string]string),
	}
	ms.Server = httptest.NewServer(http.HandlerFunc(ms.handle))
	return ms
}

func (ms *MockServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	pk, sk, _ := r.BasicAuth()
	rec := &RecordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.RawQuery,
		Body:        body,
		ContentType: r.Header.Get("Content-Type"),
		UserAgent:   r.Header.Get("User-Agent"),
		PublicKey:   pk,
		SecretKey:   sk,
	}

	var batch RecordedBatch
	isIngestion := r.Method == http.MethodPost && r.URL.Path == ingestion.Path
	if isIngestion {
		_ = json.Unmarshal(body, &batch)
	}

	ms.mu.Lock()
	ms.requests = append(ms.requests, rec)
	if isIngestion {
		ms.batches = append(ms.batches, batch)
	}
	respond := ms.ResponseFunc
	ms.mu.Unlock()

	status, response := http.StatusNotFound, any(map[string]string{"message": "not found"})
	switch {
	case respond != nil:
		status, response = respond(r)
	case isIngestion:
		status, response = ms.ingestionResult(batch)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, promptsPrefix):
		status, response = ms.promptResult(strings.TrimPrefix(r.URL.Path, promptsPrefix))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

func (ms *MockServer) ingestionResult(batch RecordedBatch) (int, any) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	var result ingestion.Result
	for _, e := range batch.Batch {
		if msg, ok := ms.rejected[e.ID]; ok {
			result.Errors = append(result.Errors, errors.IngestionFailure{ID: e.ID, Status: 400, Message: msg})
			continue
		}
		result.Successes = append(result.Successes, ingestion.Success{ID: e.ID, Status: 201})
	}
	return http.StatusMultiStatus, result
}

func (ms *MockServer) promptResult(name string) (int, any) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	p, ok := ms.prompts[name]
	if !ok {
		return http.StatusNotFound, map[string]string{"message": "prompt not found"}
	}
	return http.StatusOK, p
}

// Requests returns all recorded requests.
func (ms *MockServer) Requests() []*RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]*RecordedRequest{}, ms.requests...)
}

// RequestCount returns the number of recorded requests.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.requests)
}

// LastRequest returns the most recent request, or nil if none.
func (ms *MockServer) LastRequest() *RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if len(ms.requests) == 0 {
		return nil
	}
	return ms.requests[len(ms.requests)-1]
}

// Batches returns the decoded ingestion batches in arrival order.
func (ms *MockServer) Batches() []RecordedBatch {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]RecordedBatch{}, ms.batches...)
}

// Events returns every ingested envelope across batches.
func (ms *MockServer) Events() []RecordedEvent {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	var out []RecordedEvent
	for _, b := range ms.batches {
		out = append(out, b.Batch...)
	}
	return out
}

// Reset clears recorded requests and batches and the response override.
// Prompts and rejections are kept.
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.requests = nil
	ms.batches = nil
	ms.ResponseFunc = nil
}

// ============================================================================
// Response scenarios
// ============================================================================

// SetPrompt makes the prompts endpoint return p under name.
func (ms *MockServer) SetPrompt(name string, p *types.Prompt) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.prompts[name] = p
}

// Reject makes the ingestion endpoint report envelope id as failed with
// message in its 207 response.
func (ms *MockServer) Reject(id, message string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.rejected[id] = message
}

// RespondWith answers every request with status and body.
func (ms *MockServer) RespondWith(status int, body any) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.ResponseFunc = func(*http.Request) (int, any) { return status, body }
}

// RespondWithError answers every request with status and an error message.
func (ms *MockServer) RespondWithError(status int, message string) {
	ms.RespondWith(status, map[string]string{"error": message, "message": message})
}

// RespondWithServerError answers every request with a 500.
func (ms *MockServer) RespondWithServerError() {
	ms.RespondWithError(http.StatusInternalServerError, "Internal server error")
}

// RespondWithUnauthorized answers every request with a 401.
func (ms *MockServer) RespondWithUnauthorized() {
	ms.RespondWithError(http.StatusUnauthorized,
		"Invalid credentials. Confirm that you've configured the correct host.")
}
