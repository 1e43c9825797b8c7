package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

type failingPayload struct{}

func (failingPayload) MarshalJSON() ([]byte, error) {
	return nil, errors.New("marshal failure")
}

func TestChangePayloadDefinedAndEmpty(t *testing.T) {
	var undefined ChangePayload
	if undefined.Defined() {
		t.Fatalf("expected zero payload to be undefined")
	}
	if !undefined.IsEmpty() || undefined.Raw() != nil {
		t.Fatalf("expected zero payload to be empty")
	}

	empty := NewChangePayload(nil)
	if !empty.Defined() || !empty.IsEmpty() {
		t.Fatalf("expected defined empty payload")
	}

	raw := json.RawMessage(`{"id":"123"}`)
	defined := NewChangePayload(raw)
	if defined.IsEmpty() {
		t.Fatalf("expected raw payload to be non-empty")
	}
	raw[2] = 'X'
	if got := string(defined.Raw()); got != `{"id":"123"}` {
		t.Fatalf("payload must not alias caller bytes, got %s", got)
	}
}

func TestChangePayloadFromValueRoundTrip(t *testing.T) {
	payload, err := NewChangePayloadFromValue(Complaint{ID: "c1", Status: ComplaintInProgress})
	if err != nil {
		t.Fatalf("new payload: %v", err)
	}
	decoded, ok := DecodeChangePayload[Complaint](payload)
	if !ok {
		t.Fatalf("expected decode to succeed")
	}
	if decoded.ID != "c1" || decoded.Status != ComplaintInProgress {
		t.Fatalf("unexpected decoded complaint %+v", decoded)
	}
	if _, ok := DecodeChangePayload[Complaint](ChangePayload{}); ok {
		t.Fatalf("expected undefined payload to fail decode")
	}
	if _, ok := DecodeChangePayload[Complaint](NewChangePayload(json.RawMessage(`[1,2]`))); ok {
		t.Fatalf("expected mismatched payload to fail decode")
	}
}

func TestChangePayloadFromValueError(t *testing.T) {
	if _, err := NewChangePayloadFromValue(failingPayload{}); err == nil {
		t.Fatalf("expected marshal error")
	}
}
