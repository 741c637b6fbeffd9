package ingress

import "testing"

func TestParseValid(t *testing.T) {
	req, err := Parse([]byte("FIRE;4;4;100"), 10, 10, 100)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if req.TypeName != "FIRE" || req.X != 4 || req.Y != 4 || req.Timestamp != 100 {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestParseRejectsWrongFieldCount(t *testing.T) {
	if _, err := Parse([]byte("FIRE;4;4"), 10, 10, 100); err == nil {
		t.Fatal("expected error for missing field")
	}
}

func TestParseRejectsEmptyField(t *testing.T) {
	if _, err := Parse([]byte("FIRE;;4;100"), 10, 10, 100); err == nil {
		t.Fatal("expected error for empty field")
	}
}

func TestParseRejectsLongName(t *testing.T) {
	name := make([]byte, MaxNameLength)
	for i := range name {
		name[i] = 'a'
	}
	raw := append(name, []byte(";4;4;100")...)
	if _, err := Parse(raw, 10, 10, 100); err == nil {
		t.Fatal("expected error for name >= MaxNameLength")
	}
}

func TestParseRejectsOutOfGrid(t *testing.T) {
	if _, err := Parse([]byte("FIRE;20;4;100"), 10, 10, 100); err == nil {
		t.Fatal("expected error for x outside grid")
	}
}

func TestParseRejectsNonPositiveTimestamp(t *testing.T) {
	if _, err := Parse([]byte("FIRE;4;4;0"), 10, 10, 100); err == nil {
		t.Fatal("expected error for timestamp <= 0")
	}
}

func TestParseRejectsFutureTimestamp(t *testing.T) {
	if _, err := Parse([]byte("FIRE;4;4;200"), 10, 10, 100); err == nil {
		t.Fatal("expected error for timestamp > now+60")
	}
	if _, err := Parse([]byte("FIRE;4;4;160"), 10, 10, 100); err != nil {
		t.Fatalf("timestamp == now+60 should be accepted: %v", err)
	}
}

func TestParseRejectsOversizedMessage(t *testing.T) {
	raw := make([]byte, MaxMessageBytes+1)
	for i := range raw {
		raw[i] = 'a'
	}
	if _, err := Parse(raw, 10, 10, 100); err == nil {
		t.Fatal("expected error for oversized message")
	}
}

func TestNormalizeQueueName(t *testing.T) {
	cases := map[string]string{
		"dispatch":  "/dispatch",
		"/dispatch": "/dispatch",
	}
	for in, want := range cases {
		if got := NormalizeQueueName(in); got != want {
			t.Errorf("NormalizeQueueName(%q) = %q, want %q", in, got, want)
		}
	}
}
