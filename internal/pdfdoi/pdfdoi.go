// Package pdfdoi extracts a DOI from a local PDF so the matching
// bibliographic record can be looked up remotely.
package pdfdoi

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiPattern matches DOIs of the form 10.XXXX/suffix.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// maxScanPages bounds the search; the DOI is almost always on the first page.
const maxScanPages = 5

// Extract returns the first DOI found in the leading pages of the PDF at
// path. A PDF without a DOI yields ("", nil); only unreadable files are an
// error.
func Extract(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > maxScanPages {
		pages = maxScanPages
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if doi := FindDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// FindDOI returns the first DOI-shaped substring in text, cleaned of
// trailing punctuation that commonly clings to DOIs in running text.
func FindDOI(text string) string {
	match := doiPattern.FindString(text)
	if match == "" {
		return ""
	}
	return strings.TrimRight(match, ".,;)")
}
