package pdfdoi

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "DOI: 10.1145/3292500.3330919", "10.1145/3292500.3330919"},
		{"inside sentence", "available at https://doi.org/10.1038/s41586-021-03819-2 online", "10.1038/s41586-021-03819-2"},
		{"trailing period", "see 10.1007/s11263-015-0816-y.", "10.1007/s11263-015-0816-y"},
		{"trailing paren", "(doi:10.1109/5.771073)", "10.1109/5.771073"},
		{"none", "no identifier here", ""},
		{"short prefix rejected", "10.12/not-a-doi", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtract_MissingFile(t *testing.T) {
	if _, err := Extract("/nonexistent/paper.pdf"); err == nil {
		t.Error("expected error for missing file")
	}
}
