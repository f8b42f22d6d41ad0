package formatters

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"salaryinsights/internal/types"
)

// CoverLetterPDF renders a cover letter as an A4 document. The heading names
// the role the letter was written for when one is given.
func CoverLetterPDF(letter types.CoverLetter, jobRole string) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cover letter pdf: %v", r)
		}
	}()

	if strings.TrimSpace(letter.Text) == "" {
		return nil, fmt.Errorf("cover letter is empty")
	}

	title := "Cover Letter"
	if jobRole != "" {
		title += " - " + jobRole
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("salaryinsights", true)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// core fonts only cover cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, paragraph := range strings.Split(strings.ReplaceAll(letter.Text, "\r\n", "\n"), "\n\n") {
		pdf.MultiCell(0, 6, tr(strings.TrimSpace(paragraph)), "", "L", false)
		pdf.Ln(3)
	}
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
