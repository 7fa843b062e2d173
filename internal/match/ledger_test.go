package match

import "testing"

func TestRecord(t *testing.T) {
	s := NewPlayerStats("alice")
	Record(s, OutcomeWin)
	Record(s, OutcomeLoss)
	Record(s, OutcomeDraw)
	Record(s, OutcomeLoss)
	if s.Wins != 1 || s.Losses != 2 || s.Draws != 1 || s.GamesPlayed != 4 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.Rating != 10-5+1-5 {
		t.Fatalf("unexpected rating %d", s.Rating)
	}
	Record(s, Outcome("bogus"))
	if s.GamesPlayed != 4 {
		t.Fatalf("unknown outcome must not count")
	}
}

func TestRecord_NegativeRating(t *testing.T) {
	s := NewPlayerStats("bob")
	for i := 0; i < 3; i++ {
		Record(s, OutcomeLoss)
	}
	if s.Rating != -15 || s.GamesPlayed != s.Wins+s.Losses+s.Draws {
		t.Fatalf("unexpected stats: %+v", s)
	}
}
