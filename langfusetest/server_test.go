package langfusetest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/curacel/langfuse-go/pkg/ingestion"
	"github.com/curacel/langfuse-go/pkg/types"
)

func postBatch(t *testing.T, ms *MockServer, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ms.URL+ingestion.Path, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	return resp
}

func TestMockServer_RecordsBatches(t *testing.T) {
	ms := NewMockServer()
	defer ms.Close()

	resp := postBatch(t, ms, `{"batch":[
		{"id":"t1","timestamp":"2024-01-01T00:00:00.000Z","type":"trace-create","body":{"id":"t1","name":"n"}},
		{"id":"s1","timestamp":"2024-01-01T00:00:00.000Z","type":"span-create","body":{"id":"s1","traceId":"t1"}}
	]}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMultiStatus {
		t.Errorf("StatusCode = %d, want 207", resp.StatusCode)
	}
	var result ingestion.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Successes) != 2 || result.HasErrors() {
		t.Errorf("result = %+v, want 2 successes", result)
	}

	batches := ms.Batches()
	if len(batches) != 1 {
		t.Fatalf("len(Batches()) = %d, want 1", len(batches))
	}
	got := batches[0].Types()
	want := []ingestion.EventType{ingestion.EventTypeTraceCreate, ingestion.EventTypeSpanCreate}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Types() = %v, want %v", got, want)
	}
	if ms.Events()[1].Body["traceId"] != "t1" {
		t.Errorf("span body = %v", ms.Events()[1].Body)
	}
}

func TestMockServer_Reject(t *testing.T) {
	ms := NewMockServer()
	defer ms.Close()
	ms.Reject("bad", "invalid body")

	resp := postBatch(t, ms, `{"batch":[{"id":"ok","type":"event-create","body":{}},{"id":"bad","type":"event-create","body":{}}]}`)
	defer resp.Body.Close()

	var result ingestion.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Errors) != 1 || result.Errors[0].ID != "bad" || result.Errors[0].Message != "invalid body" {
		t.Errorf("Errors = %+v", result.Errors)
	}
	if len(result.Successes) != 1 || result.Successes[0].ID != "ok" {
		t.Errorf("Successes = %+v", result.Successes)
	}
}

func TestMockServer_Prompts(t *testing.T) {
	ms := NewMockServer()
	defer ms.Close()
	ms.SetPrompt("greeting", types.NewTextPrompt("greeting", "Hello {{name}}"))

	resp, err := http.Get(ms.URL + "/api/public/v2/prompts/greeting?label=production")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()
	var p types.Prompt
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Text != "Hello {{name}}" {
		t.Errorf("Text = %q", p.Text)
	}
	if q := ms.LastRequest().Query; q != "label=production" {
		t.Errorf("Query = %q", q)
	}

	missing, err := http.Get(ms.URL + "/api/public/v2/prompts/nope")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", missing.StatusCode)
	}
}

func TestMockServer_RespondWithAndReset(t *testing.T) {
	ms := NewMockServer()
	defer ms.Close()
	ms.RespondWithServerError()

	resp := postBatch(t, ms, `{"batch":[]}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
	if ms.RequestCount() != 1 {
		t.Errorf("RequestCount() = %d, want 1", ms.RequestCount())
	}

	ms.Reset()
	if ms.RequestCount() != 0 || len(ms.Batches()) != 0 {
		t.Error("Reset should clear requests and batches")
	}
	resp = postBatch(t, ms, `{"batch":[]}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusMultiStatus {
		t.Errorf("StatusCode after Reset = %d, want 207", resp.StatusCode)
	}
}

func TestMockServer_RecordsAuth(t *testing.T) {
	ms := NewMockServer()
	defer ms.Close()

	req, _ := http.NewRequest(http.MethodPost, ms.URL+ingestion.Path, bytes.NewReader([]byte(`{"batch":[]}`)))
	req.SetBasicAuth("pk", "sk")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	resp.Body.Close()

	last := ms.LastRequest()
	if last.PublicKey != "pk" || last.SecretKey != "sk" {
		t.Errorf("auth = %q/%q", last.PublicKey, last.SecretKey)
	}
}
