package textutil

import "testing"

func TestCountWords(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two three", 3},
		{"line\nbreaks\tcount too", 4},
	}
	for _, tc := range cases {
		if got := CountWords(tc.text); got != tc.want {
			t.Errorf("CountWords(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestFleschReadingEase(t *testing.T) {
	if got := FleschReadingEase(""); got != 0 {
		t.Errorf("empty text scored %v, want 0", got)
	}

	simple := FleschReadingEase("The cat sat. The dog ran. We had fun.")
	dense := FleschReadingEase("Municipalities subsequently promulgated comprehensive administrative regulations notwithstanding jurisdictional complexities.")
	if simple <= dense {
		t.Errorf("simple text (%v) should score above dense text (%v)", simple, dense)
	}
	if simple < 0 || simple > 100 || dense < 0 || dense > 100 {
		t.Errorf("scores out of range: simple=%v dense=%v", simple, dense)
	}
}

func TestFindProhibited(t *testing.T) {
	phrases := []string{"I think", "In my opinion", "We believe"}
	found := FindProhibited("Honestly, I THINK this is fine and we believe it works.", phrases)
	if len(found) != 2 {
		t.Fatalf("found = %v, want 2 phrases", found)
	}
	if found[0] != "I think" || found[1] != "We believe" {
		t.Fatalf("found = %v", found)
	}

	if got := FindProhibited("Neutral reporting only.", phrases); got != nil {
		t.Fatalf("expected no matches, got %v", got)
	}
}
