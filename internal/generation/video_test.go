package generation

import (
	"encoding/json"
	"testing"
)

func decodeOp(t *testing.T, raw string) *VideoStatus {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	return decodeVideoOperation(m)
}

func TestDecodeVideoOperationRunning(t *testing.T) {
	status := decodeOp(t, `{"done":false,"metadata":{"progressPercent":40}}`)
	if status.Done {
		t.Fatal("expected not done")
	}
	if status.Progress != 40 {
		t.Errorf("progress = %d, want 40", status.Progress)
	}
	if status.Failed() {
		t.Error("a running operation is not a failure")
	}
}

func TestDecodeVideoOperationCompleted(t *testing.T) {
	raw := `{
		"done": true,
		"response": {
			"generateVideoResponse": {
				"generatedSamples": [{"video": {"uri": "https://example.com/out.mp4"}}]
			}
		}
	}`
	status := decodeOp(t, raw)
	if !status.Done {
		t.Fatal("expected done")
	}
	if status.VideoURL != "https://example.com/out.mp4" {
		t.Errorf("video url = %q", status.VideoURL)
	}
	if status.Progress != 100 {
		t.Errorf("progress = %d, want 100", status.Progress)
	}
	if status.Failed() {
		t.Error("completed operation with media must not be a failure")
	}
}

func TestDecodeVideoOperationFiltered(t *testing.T) {
	raw := `{
		"done": true,
		"response": {"raiMediaFilteredReasons": ["safety"]}
	}`
	status := decodeOp(t, raw)
	if !status.Done || !status.Failed() {
		t.Fatalf("expected a done failure, got %+v", status)
	}
	if len(status.FilterReasons) != 1 || status.FilterReasons[0] != "safety" {
		t.Errorf("filter reasons = %v", status.FilterReasons)
	}
}

func TestDecodeVideoOperationEmptyPayload(t *testing.T) {
	status := decodeOp(t, `{}`)
	if status.Done {
		t.Fatal("missing done must read as still running")
	}
}
