package event

import (
	"testing"
	"time"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      string
	}{
		{name: "store saved", eventType: TypeStoreSaved, want: "store.saved"},
		{name: "claim completed", eventType: TypeClaimCompleted, want: "claim.completed"},
		{name: "special case resolved", eventType: TypeSpecialCaseResolved, want: "specialcase.resolved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.String(); got != tt.want {
				t.Errorf("Type.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestType_IsValid(t *testing.T) {
	if !TypeFollowUpsImported.IsValid() {
		t.Error("expected followups.imported to be valid")
	}
	if Type("instance.created").IsValid() {
		t.Error("expected unknown type to be invalid")
	}
}

func TestNewEvent(t *testing.T) {
	before := time.Now()
	e := NewEvent(TypeClaimSaved, "123456789", nil)

	if e.ID == "" {
		t.Error("expected generated ID")
	}
	if e.PolicyNo != "123456789" {
		t.Errorf("PolicyNo = %v, want 123456789", e.PolicyNo)
	}
	if e.Payload == nil {
		t.Error("expected non-nil payload")
	}
	if e.Timestamp.Before(before) {
		t.Error("timestamp should not predate construction")
	}

	other := NewEvent(TypeClaimSaved, "123456789", nil)
	if other.ID == e.ID {
		t.Error("expected unique IDs")
	}
}

func TestEvent_WithPayload(t *testing.T) {
	original := NewEvent(TypeSectionUnlocked, "123456789", map[string]interface{}{"from": "CHECK_NOMINEE"})
	updated := original.WithPayload("to", "DOCUMENTS_REQUIRED")

	if _, ok := original.Payload["to"]; ok {
		t.Error("original payload must not be modified")
	}
	if updated.GetPayloadString("to") != "DOCUMENTS_REQUIRED" {
		t.Errorf("to = %v", updated.GetPayloadString("to"))
	}
	if updated.GetPayloadString("from") != "CHECK_NOMINEE" {
		t.Error("existing payload keys must be carried over")
	}
	if updated.ID != original.ID {
		t.Error("ID must be preserved")
	}
}

func TestEvent_GetPayload(t *testing.T) {
	e := NewEvent(TypeFollowUpsImported, "", map[string]interface{}{
		"added":   3,
		"updated": int64(2),
		"skipped": 1.0,
		"header":  true,
		"name":    "paste",
	})

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"int", e.GetPayloadInt("added"), 3},
		{"int64 converted", e.GetPayloadInt("updated"), 2},
		{"float64 converted", e.GetPayloadInt("skipped"), 1},
		{"missing int", e.GetPayloadInt("nope"), 0},
		{"string as int", e.GetPayloadInt("name"), 0},
		{"bool", e.GetPayloadBool("header"), true},
		{"missing bool", e.GetPayloadBool("nope"), false},
		{"string", e.GetPayloadString("name"), "paste"},
		{"non-string", e.GetPayloadString("added"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}
