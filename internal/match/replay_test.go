package match

import "testing"

func records(uci ...string) []MoveRecord {
	out := make([]MoveRecord, 0, len(uci))
	for _, u := range uci {
		out = append(out, MoveRecord{UCI: u})
	}
	return out
}

func TestStandardSAN(t *testing.T) {
	san, err := StandardSAN(records("e2e4", "e7e5", "g1f3", "b8c6", "f1b5"))
	if err != nil {
		t.Fatalf("StandardSAN: %v", err)
	}
	want := []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}
	for i := range want {
		if san[i] != want[i] {
			t.Fatalf("ply %d: %q want %q", i+1, san[i], want[i])
		}
	}
	if _, err := StandardSAN(records("e2e5")); err == nil {
		t.Fatalf("illegal history must fail")
	}
}

func TestOpening(t *testing.T) {
	code, title := Opening(records("e2e4", "e7e5", "g1f3", "b8c6", "f1b5"))
	if code == "" || title == "" {
		t.Fatalf("expected an ECO label for the Ruy Lopez, got %q %q", code, title)
	}
	if code, _ := Opening(nil); code != "" {
		t.Fatalf("empty history has no opening")
	}
}
