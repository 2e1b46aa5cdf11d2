package dblp

import (
	"context"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Attention Is All You Need", "Attention Is All You Need", 1.0},
		{"case folded", "QUICKSORT", "quicksort", 1.0},
		{"both empty", "", "", 1.0},
		{"one char off", "abcd", "abce", 0.75},
		{"disjoint", "aaaa", "bbbb", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarity_SymmetricAndBounded(t *testing.T) {
	pairs := [][2]string{
		{"deep learning", "deep learning theory"},
		{"", "nonempty"},
		{"Knuth", "Knurl"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", p[0], p[1], ab)
		}
		if p[0] != p[1] && ab == 1.0 {
			t.Errorf("Similarity(%q, %q) = 1.0 for distinct strings", p[0], p[1])
		}
	}
}

func TestFuzzyTitleSearch_UnionsAndRanks(t *testing.T) {
	title := "Attention Is All You Need"
	f := &fakeDBLP{searches: map[string]string{
		"title:" + title: envelope(
			hitSpec{title: "Attention is all you need!", year: 2018}.json(),
			hitSpec{title: "Deep Residual Learning for Image Recognition", year: 2016}.json(),
		),
		title: envelope(
			hitSpec{title: "Attention Is All You Need", year: 2017, key: "conf/nips/VaswaniSPUJGKP17"}.json(),
			hitSpec{title: "Attention is all you need!", year: 2018}.json(),
		),
	}}
	c := newFakeClient(t, f)

	results := c.FuzzyTitleSearch(context.Background(), title, 0.8, SearchOptions{MaxResults: 10})

	// Both strategies ran, qualified first with the larger cap.
	if len(f.publQueries) != 2 {
		t.Fatalf("expected 2 retrievals, got %d: %v", len(f.publQueries), f.publQueries)
	}
	if f.publQueries[0] != "title:"+title {
		t.Errorf("expected qualified query first, got %q", f.publQueries[0])
	}
	if f.publLimits[0] != "30" || f.publLimits[1] != "20" {
		t.Errorf("expected caps [30 20], got %v", f.publLimits)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results above threshold, got %d", len(results))
	}
	if results[0].Title != "Attention Is All You Need" {
		t.Errorf("expected exact match ranked first, got %q", results[0].Title)
	}
	if results[0].Similarity == nil || *results[0].Similarity != 1.0 {
		t.Errorf("expected similarity 1.0 on exact match, got %v", results[0].Similarity)
	}
	if results[1].Similarity == nil || *results[1].Similarity >= 1.0 || *results[1].Similarity < 0.8 {
		t.Errorf("expected near-match similarity in [0.8, 1.0), got %v", results[1].Similarity)
	}
}

func TestFuzzyTitleSearch_ThresholdOneKeepsExactOnly(t *testing.T) {
	title := "Sorting Networks"
	f := &fakeDBLP{searches: map[string]string{
		"title:" + title: envelope(
			hitSpec{title: "Sorting Networks", year: 1968}.json(),
			hitSpec{title: "Sorting Networks and Their Applications", year: 1968}.json(),
		),
	}}
	c := newFakeClient(t, f)

	results := c.FuzzyTitleSearch(context.Background(), title, 1.0, SearchOptions{})

	if len(results) != 1 {
		t.Fatalf("expected only the exact title, got %d results", len(results))
	}
	if results[0].Title != "Sorting Networks" {
		t.Errorf("expected Sorting Networks, got %q", results[0].Title)
	}
}

func TestAuthorPublications_FiltersByNameSimilarity(t *testing.T) {
	f := &fakeDBLP{searches: map[string]string{
		"author:Donald Knuth": envelope(
			hitSpec{title: "The Art of Computer Programming", year: 1968, venue: "Addison-Wesley",
				typ: "Book", authors: []string{"Donald E. Knuth"}}.json(),
			hitSpec{title: "Literate Programming", year: 1984, venue: "Comput. J.",
				typ: "Journal Articles", authors: []string{"Donald Knuth"}}.json(),
			hitSpec{title: "Unrelated Paper", year: 1990, venue: "Comput. J.",
				typ: "Journal Articles", authors: []string{"Somebody Else"}}.json(),
		),
	}}
	c := newFakeClient(t, f)

	res := c.AuthorPublications(context.Background(), "Donald Knuth", 0.8, 10, false)

	if res.Name != "Donald Knuth" {
		t.Errorf("Name = %q, want Donald Knuth", res.Name)
	}
	if res.PublicationCount != 2 {
		t.Fatalf("expected 2 publications after name filtering, got %d", res.PublicationCount)
	}
	for _, p := range res.Publications {
		if p.Title == "Unrelated Paper" {
			t.Error("expected Unrelated Paper filtered out")
		}
	}

	// Candidate pool is fetched at twice the result cap.
	if f.publLimits[0] != "20" {
		t.Errorf("expected h=20, got %s", f.publLimits[0])
	}

	if len(res.Stats.Venues) != 2 {
		t.Fatalf("expected 2 venue buckets, got %d", len(res.Stats.Venues))
	}
	if res.Stats.Types["Book"] != 1 || res.Stats.Types["Journal Articles"] != 1 {
		t.Errorf("unexpected type breakdown: %v", res.Stats.Types)
	}
}

func TestAuthorPublications_StrictThreshold(t *testing.T) {
	f := &fakeDBLP{searches: map[string]string{
		"author:Donald Knuth": envelope(
			hitSpec{title: "A", year: 1968, authors: []string{"Donald E. Knuth"}}.json(),
			hitSpec{title: "B", year: 1984, authors: []string{"Donald Knuth"}}.json(),
		),
	}}
	c := newFakeClient(t, f)

	res := c.AuthorPublications(context.Background(), "Donald Knuth", 1.0, 10, false)

	if res.PublicationCount != 1 {
		t.Fatalf("expected exactly 1 exact-name match, got %d", res.PublicationCount)
	}
	if res.Publications[0].Title != "B" {
		t.Errorf("expected the exact-name publication, got %q", res.Publications[0].Title)
	}
}

func TestAuthorPublications_EmptyResult(t *testing.T) {
	f := &fakeDBLP{}
	c := newFakeClient(t, f)

	res := c.AuthorPublications(context.Background(), "Nobody", 0.8, 10, false)

	if res.PublicationCount != 0 {
		t.Errorf("expected 0 publications, got %d", res.PublicationCount)
	}
	if res.Publications == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestTopFrequencies(t *testing.T) {
	counts := map[string]int{"c": 1, "a": 3, "b": 3, "d": 2, "e": 1, "f": 1}

	got := topFrequencies(counts, 5)

	if len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(got))
	}
	want := []FreqEntry{{"a", 3}, {"b", 3}, {"d", 2}, {"c", 1}, {"e", 1}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
