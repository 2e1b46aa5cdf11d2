package bibtex

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/refclerk/refclerk/internal/cache"
	"github.com/refclerk/refclerk/internal/dblp"
)

const vaswaniRecord = `@inproceedings{DBLP:conf/nips/VaswaniSPUJGKP17,
  author    = {Ashish Vaswani and others},
  title     = {Attention is All you Need},
  year      = {2017}
}
`

func TestRewriteKey(t *testing.T) {
	got := RewriteKey(vaswaniRecord, "Vaswani2017")

	if !strings.HasPrefix(got, "@inproceedings{Vaswani2017,") {
		t.Errorf("expected rewritten header, got %q", firstLineOf(got))
	}
	if strings.Contains(got, "DBLP:conf/nips/VaswaniSPUJGKP17") {
		t.Error("expected old key gone")
	}
}

func TestRewriteKey_UnparseablePassthrough(t *testing.T) {
	text := "this is not a citation record"

	if got := RewriteKey(text, "Key2020"); got != text {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestRewriteKey_OnlyFirstHeader(t *testing.T) {
	text := "@article{old1,\n}\n\n@article{old2,\n}\n"

	got := RewriteKey(text, "new")

	if !strings.Contains(got, "@article{new,") {
		t.Error("expected first header rewritten")
	}
	if !strings.Contains(got, "@article{old2,") {
		t.Error("expected second header untouched")
	}
}

func TestEntryKey(t *testing.T) {
	if got := EntryKey(vaswaniRecord); got != "DBLP:conf/nips/VaswaniSPUJGKP17" {
		t.Errorf("EntryKey() = %q", got)
	}
	if got := EntryKey("no header here"); got != "" {
		t.Errorf("EntryKey() = %q, want empty", got)
	}
}

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"conf/nips/VaswaniSPUJGKP17", "Vaswani2017"},
		{"journals/jacm/Knuth77", "Knuth1977"},
		{"conf/focs/Karp72", "Karp1972"},
		{"journals/corr/abs-2001-08361", "abs-2001-08361"},
		{"conf/test/xyz99", "xyz99"},
		{"conf/acl/Smith2020a", "Smith2020"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := DeriveKey(tt.key); got != tt.want {
				t.Errorf("DeriveKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestIsErrorText(t *testing.T) {
	if !IsErrorText("% Error fetching https://example.org: boom") {
		t.Error("expected error text detected")
	}
	if IsErrorText(vaswaniRecord) {
		t.Error("expected record not detected as error text")
	}
}

// recordServer serves citation records under /rec/<key>.bib.
func recordServer(t *testing.T, records map[string]string) *dblp.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/rec/"), ".bib")
		body, ok := records[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return dblp.NewClient(dblp.WithBaseURL(srv.URL))
}

func TestFetchAndRewrite(t *testing.T) {
	client := recordServer(t, map[string]string{"conf/nips/VaswaniSPUJGKP17": vaswaniRecord})
	r := NewResolver(client, nil, zerolog.Nop())

	got := r.FetchAndRewrite(context.Background(), "conf/nips/VaswaniSPUJGKP17", "Vaswani2017")

	if !strings.HasPrefix(got, "@inproceedings{Vaswani2017,") {
		t.Errorf("expected rewritten record, got %q", firstLineOf(got))
	}
}

func TestFetchAndRewrite_FailureRendersComment(t *testing.T) {
	client := recordServer(t, nil)
	r := NewResolver(client, nil, zerolog.Nop())

	got := r.FetchAndRewrite(context.Background(), "conf/missing/X0", "X2000")

	if !IsErrorText(got) {
		t.Fatalf("expected rendered error text, got %q", got)
	}
	if !strings.HasPrefix(got, "% Error fetching ") {
		t.Errorf("unexpected error rendering: %q", got)
	}
}

func TestFetchEntry_DerivesKey(t *testing.T) {
	client := recordServer(t, map[string]string{"conf/nips/VaswaniSPUJGKP17": vaswaniRecord})
	r := NewResolver(client, nil, zerolog.Nop())

	got := r.FetchEntry(context.Background(), "conf/nips/VaswaniSPUJGKP17")

	if !strings.HasPrefix(got, "@inproceedings{Vaswani2017,") {
		t.Errorf("expected derived key Vaswani2017, got %q", firstLineOf(got))
	}
}

func TestFetchEntry_ColonVariant(t *testing.T) {
	client := recordServer(t, map[string]string{"conf/focs/Karp72": vaswaniRecord})
	r := NewResolver(client, nil, zerolog.Nop())

	got := r.FetchEntry(context.Background(), "conf:focs:Karp72")

	if got == "" {
		t.Fatal("expected the slash variant to resolve")
	}
	if !strings.HasPrefix(got, "@inproceedings{Karp1972,") {
		t.Errorf("expected derived key Karp1972, got %q", firstLineOf(got))
	}
}

func TestFetchEntry_AllVariantsNotFound(t *testing.T) {
	client := recordServer(t, nil)
	r := NewResolver(client, nil, zerolog.Nop())

	if got := r.FetchEntry(context.Background(), "conf/missing/X0"); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}

func TestFetchEntry_EmptyKey(t *testing.T) {
	client := recordServer(t, nil)
	r := NewResolver(client, nil, zerolog.Nop())

	if got := r.FetchEntry(context.Background(), "   "); got != "" {
		t.Errorf("expected empty result for blank key, got %q", got)
	}
}

func TestResolver_CachesFetchedRecords(t *testing.T) {
	store, err := cache.Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	defer store.Close()

	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		io.WriteString(w, vaswaniRecord)
	}))
	client := dblp.NewClient(dblp.WithBaseURL(srv.URL))
	r := NewResolver(client, store, zerolog.Nop())

	first := r.FetchAndRewrite(context.Background(), "conf/nips/VaswaniSPUJGKP17", "Vaswani2017")
	if IsErrorText(first) {
		t.Fatalf("first fetch failed: %q", first)
	}
	if fetches != 1 {
		t.Fatalf("expected 1 remote fetch, got %d", fetches)
	}

	// The second fetch is served from the cache even with the remote gone.
	srv.Close()
	second := r.FetchAndRewrite(context.Background(), "conf/nips/VaswaniSPUJGKP17", "Vaswani2017")
	if second != first {
		t.Errorf("expected cached record, got %q", firstLineOf(second))
	}
	if fetches != 1 {
		t.Errorf("expected no further remote fetches, got %d", fetches)
	}
}

func firstLineOf(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
