package pipeline

import "testing"

func TestEnabledSetFull(t *testing.T) {
	set := EnabledSet(Options{})
	want := []string{NameVideo, NameAudio, NameSocial, NameTranslation, NameSEO, NameQA}
	if len(set) != len(want) {
		t.Fatalf("full set has %d pipelines, want %d", len(set), len(want))
	}
	for _, name := range want {
		if !set[name] {
			t.Errorf("full set missing %q", name)
		}
	}
}

func TestEnabledSetFastDropsAudioAndTranslation(t *testing.T) {
	set := EnabledSet(Options{FastMode: true})
	if len(set) != 4 {
		t.Fatalf("fast set has %d pipelines, want 4", len(set))
	}
	if set[NameAudio] || set[NameTranslation] {
		t.Fatalf("fast set should drop audio and translation: %v", set)
	}
	for _, name := range []string{NameVideo, NameSocial, NameSEO, NameQA} {
		if !set[name] {
			t.Errorf("fast set missing %q", name)
		}
	}
}
