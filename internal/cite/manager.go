package cite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/refclerk/refclerk/internal/bibtex"
	"github.com/refclerk/refclerk/internal/dblp"
)

// ErrEmptyBuffer is returned when export is attempted on an empty buffer.
var ErrEmptyBuffer = errors.New("citation buffer is empty")

// BibExtension is appended to export paths that lack it.
const BibExtension = ".bib"

// AddResult reports the outcome of adding one citation entry.
type AddResult struct {
	Count       int  `json:"count"` // buffered entries after the add
	Overwritten bool `json:"overwritten"`
}

// ExportResult reports a completed export.
type ExportResult struct {
	Count    int    `json:"count"`
	FilePath string `json:"file_path"`
}

// Manager owns one session's citation buffer and the resolver used to fill
// it. Its lifecycle is create-empty, mutate via Add, then flush-and-clear via
// Export. Create one Manager per session; it does no internal locking.
type Manager struct {
	resolver *bibtex.Resolver
	buf      *Buffer
}

// NewManager creates a Manager with an empty buffer.
func NewManager(resolver *bibtex.Resolver) *Manager {
	return &Manager{resolver: resolver, buf: NewBuffer()}
}

// Len returns the number of buffered entries.
func (m *Manager) Len() int {
	return m.buf.Len()
}

// SanitizeKey normalizes a caller-supplied persistent key: surrounding
// whitespace, a .bib extension, and the record URL prefix are stripped.
func SanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(key, dblp.RecordBaseURL)
	key = strings.TrimSuffix(key, BibExtension)
	return key
}

// Add fetches the citation record for persistentKey, rewrites its embedded
// key to citationKey, and buffers it under citationKey. A fetch failure
// leaves the buffer unchanged and is returned as an error; the reported
// count never includes failed adds.
func (m *Manager) Add(ctx context.Context, persistentKey, citationKey string) (AddResult, error) {
	key := SanitizeKey(persistentKey)
	if key == "" {
		return AddResult{Count: m.buf.Len()}, errors.New("missing persistent key")
	}
	citationKey = strings.TrimSpace(citationKey)
	if citationKey == "" {
		return AddResult{Count: m.buf.Len()}, errors.New("missing citation key")
	}

	text := m.resolver.FetchAndRewrite(ctx, key, citationKey)
	if bibtex.IsErrorText(text) {
		return AddResult{Count: m.buf.Len()},
			fmt.Errorf("fetching record %s: %s", key, strings.TrimPrefix(text, "% "))
	}

	overwritten := m.buf.Put(citationKey, text)
	return AddResult{Count: m.buf.Len(), Overwritten: overwritten}, nil
}

// Export writes every buffered entry to path as consecutive records separated
// by a blank line, in insertion order, then clears the buffer. The .bib
// extension is appended if absent and parent directories are created as
// needed. Exporting an empty buffer is an error and writes nothing.
func (m *Manager) Export(path string) (ExportResult, error) {
	if m.buf.Len() == 0 {
		return ExportResult{}, ErrEmptyBuffer
	}
	if path == "" {
		return ExportResult{}, errors.New("missing export path")
	}

	if !strings.HasSuffix(path, BibExtension) {
		path += BibExtension
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ExportResult{}, fmt.Errorf("creating export directory: %w", err)
		}
	}

	var b strings.Builder
	for _, e := range m.buf.Entries() {
		b.WriteString(strings.TrimRight(e.Text, "\n"))
		b.WriteString("\n\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return ExportResult{}, fmt.Errorf("writing export file: %w", err)
	}

	count := m.buf.Len()
	m.buf.Reset()
	return ExportResult{Count: count, FilePath: path}, nil
}
