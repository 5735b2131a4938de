package events

import (
	"encoding/json"
	"testing"
)

func TestType_Valid(t *testing.T) {
	for _, typ := range AllTypes {
		if !typ.Valid() {
			t.Errorf("%q should be valid", typ)
		}
	}
	for _, bad := range []Type{"", "newblock", "NotAnEvent"} {
		if bad.Valid() {
			t.Errorf("%q should not be valid", bad)
		}
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("RuneEtched")
	if err != nil {
		t.Fatalf("ParseType(): %v", err)
	}
	if typ != TypeRuneEtched {
		t.Errorf("ParseType() = %q, want RuneEtched", typ)
	}

	if _, err := ParseType("Bogus"); err == nil {
		t.Error("ParseType() accepted unknown type")
	}
}

func TestEvent_DecodeData(t *testing.T) {
	var ev Event
	line := `{"type":"Reorg","data":{"height":849990,"depth":3}}`
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var payload Reorg
	if err := ev.DecodeData(&payload); err != nil {
		t.Fatalf("DecodeData(): %v", err)
	}
	if payload.Height != 849990 || payload.Depth != 3 {
		t.Errorf("payload = %+v", payload)
	}
}

func TestEvent_DecodeDataWithoutPayload(t *testing.T) {
	ev := Event{Type: TypeNewBlock}
	var payload NewBlock
	if err := ev.DecodeData(&payload); err == nil {
		t.Error("DecodeData() with no payload should fail")
	}
}

func TestSubscriptionRequest_Encode(t *testing.T) {
	req := NewSubscriptionRequest(TypeNewBlock, TypeReorg)

	got, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode(): %v", err)
	}
	want := `{"subscribe":["NewBlock","Reorg"]}`
	if string(got) != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}
}

func TestSubscriptionRequest_EncodeEmpty(t *testing.T) {
	if _, err := (SubscriptionRequest{}).Encode(); err == nil {
		t.Error("Encode() of empty request should fail")
	}
}

func TestSubscriptionRequest_EncodeUnknownType(t *testing.T) {
	req := NewSubscriptionRequest(Type("Bogus"))
	if _, err := req.Encode(); err == nil {
		t.Error("Encode() of unknown type should fail")
	}
}
