package transcript

import "testing"

func TestGroupParagraphsSizes(t *testing.T) {
	paragraphs := GroupParagraphs(85, 40)
	expected := []int{40, 40, 5}
	if len(paragraphs) != len(expected) {
		t.Fatalf("expected %d paragraphs, got %d", len(expected), len(paragraphs))
	}
	next := 0
	for i, p := range paragraphs {
		if p.Len() != expected[i] {
			t.Fatalf("paragraph %d: expected %d words, got %d", i, expected[i], p.Len())
		}
		if p.Start != next {
			t.Fatalf("paragraph %d starts at %d, expected %d", i, p.Start, next)
		}
		next = p.End
	}
}

func TestGroupParagraphsDefaultsAndEmpty(t *testing.T) {
	if got := GroupParagraphs(0, 40); len(got) != 0 {
		t.Fatalf("expected no paragraphs, got %d", len(got))
	}
	got := GroupParagraphs(41, 0)
	if len(got) != 2 || got[0].Len() != DefaultParagraphSize {
		t.Fatalf("expected default size windows, got %+v", got)
	}
}
