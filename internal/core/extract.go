package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText pulls plain text out of a PDF, page by page. Pages that
// cannot be read are skipped; only a file that is not a parseable PDF at all
// yields an *ExtractionError. The pdf package panics on some malformed
// inputs, so the whole extraction runs under a recover.
func ExtractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	if len(data) == 0 {
		return "", &ExtractionError{Err: fmt.Errorf("empty file")}
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", &ExtractionError{Err: fmt.Errorf("missing %%PDF header")}
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Err: err}
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || pageText == "" {
			continue
		}
		pages = append(pages, pageText)
	}

	return strings.TrimSpace(strings.Join(pages, "\n\n")), nil
}
