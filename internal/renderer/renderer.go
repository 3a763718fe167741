// Package renderer composes a signed terms-of-use document and
// rasterizes it to a paginated A4 PDF, entirely in memory. Persistence
// belongs to the caller.
package renderer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"musaetermo/internal/terms"
	"musaetermo/pkg/types"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimeters.
const (
	pageMargin = 10.0
	bodyWidth  = 190.0 // A4 width minus both margins
)

// Signature image display bounds. The native resolution of the pad
// export is higher than this box, which keeps the embedded image crisp.
const (
	sigMaxWidth  = 70.0
	sigMaxHeight = 28.0
)

const dataURLPrefix = "data:image/png;base64,"

// Render produces the PDF for one signature record. The record's
// SignatureImage must carry a PNG data URL; a missing or undecodable
// image fails the whole render, never a partial document.
func Render(record types.SignatureRecord, paragraphs []string) ([]byte, error) {
	sigPNG, err := decodeSignatureImage(record.SignatureImage)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	sigInfo := pdf.RegisterImageOptionsReader("assinatura", imgOpts, bytes.NewReader(sigPNG))
	if pdf.Err() || sigInfo == nil {
		return nil, fmt.Errorf("register signature image: %w", pdf.Error())
	}

	pdf.AddPage()

	// Title and subtitle
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(26, 26, 26)
	pdf.MultiCell(bodyWidth, 7, tr(terms.Title), "", "L", false)
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(102, 102, 102)
	pdf.MultiCell(bodyWidth, 5, tr(terms.Subtitle), "", "L", false)
	pdf.Ln(4)

	// Terms body
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(51, 51, 51)
	for _, p := range paragraphs {
		pdf.MultiCell(bodyWidth, 4.2, tr(p), "", "L", false)
		pdf.Ln(2)
	}

	// The declaration block never splits across pages: it always
	// starts on a fresh one.
	pdf.AddPage()
	renderDeclaration(pdf, tr, record, sigInfo)

	if pdf.Err() {
		return nil, fmt.Errorf("compose pdf: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rasterize pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderDeclaration(pdf *fpdf.Fpdf, tr func(string) string, record types.SignatureRecord, sigInfo *fpdf.ImageInfoType) {
	boxTop := pdf.GetY()
	pad := 5.0
	inner := bodyWidth - 2*pad

	pdf.SetXY(pageMargin+pad, boxTop+pad)
	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(26, 26, 26)
	pdf.MultiCell(inner, 5, tr(strings.ToUpper("Declaração de aceitação e dados do assinante")), "", "L", false)
	pdf.Ln(2)

	pdf.SetX(pageMargin + pad)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(51, 51, 51)
	pdf.MultiCell(inner, 4.2, tr(terms.Declaration), "", "L", false)
	pdf.Ln(3)

	// Signer table: label column + value column, two rows.
	labelW := 55.0
	pdf.SetX(pageMargin + pad)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(labelW, 5, tr("Nome completo do assinante:"), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(inner-labelW, 5, tr(record.UserName), "", 1, "L", false, 0, "")

	pdf.SetX(pageMargin + pad)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(labelW, 5, tr("Data da assinatura:"), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(inner-labelW, 5, FormatDate(record.SignatureDate), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Signature image, bounded to its display box regardless of the
	// export resolution.
	pdf.SetX(pageMargin + pad)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(inner, 5, "Assinatura:", "", 1, "L", false, 0, "")

	w, h := fitBox(sigInfo.Extent())
	imgY := pdf.GetY() + 1
	pdf.ImageOptions("assinatura", pageMargin+pad, imgY, w, h, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetY(imgY + h + 3)

	pdf.SetX(pageMargin + pad)
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(102, 102, 102)
	generated := time.Now().Format("02/01/2006 15:04")
	pdf.CellFormat(inner, 4, tr("Documento gerado eletronicamente em "+generated), "", 1, "L", false, 0, "")

	pdf.SetDrawColor(51, 51, 51)
	pdf.Rect(pageMargin, boxTop, bodyWidth, pdf.GetY()-boxTop+pad, "D")
}

// fitBox scales natural image extents into the signature display box,
// preserving aspect ratio.
func fitBox(natW, natH float64) (float64, float64) {
	if natW <= 0 || natH <= 0 {
		return sigMaxWidth, sigMaxHeight
	}
	scale := sigMaxWidth / natW
	if s := sigMaxHeight / natH; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	return natW * scale, natH * scale
}

func decodeSignatureImage(dataURL string) ([]byte, error) {
	if dataURL == "" {
		return nil, fmt.Errorf("signature image missing")
	}
	encoded := strings.TrimPrefix(dataURL, dataURLPrefix)
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode signature image: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("signature image empty")
	}
	return raw, nil
}

// FormatDate renders a YYYY-MM-DD date as dd/mm/yyyy, the format the
// document and the confirmation panel show. Unparseable input is
// passed through untouched.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
