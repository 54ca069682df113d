package invoice

import (
	"bytes"
	"fmt"
	"image/png"

	"jastip-express/internal/billing"

	"github.com/signintech/gopdf"
)

type PDFGenerator struct {
	FontPath string
}

func NewPDFGenerator(fontPath string) *PDFGenerator {
	return &PDFGenerator{FontPath: fontPath}
}

// Generate renders the invoice as an A4 PDF receipt. The QR code, when
// present, links to the public share page for this invoice.
func (g *PDFGenerator) Generate(inv *Invoice, qrCode []byte) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	err := pdf.AddTTFFont("dejavu", g.FontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	err = pdf.SetFont("dejavu", "", 14)
	if err != nil {
		return nil, fmt.Errorf("failed to set font: %w", err)
	}

	// Header
	addHeader(pdf, inv)

	// Line items
	pdf.SetY(120)
	addLines(pdf, inv)

	// Totals
	pdf.SetY(pdf.GetY() + 20)
	addTotals(pdf, inv)

	// QR Code
	if len(qrCode) > 0 {
		pdf.SetY(pdf.GetY() + 20)
		addQRCode(pdf, qrCode)
	}

	// Footer
	pdf.SetY(780)
	addFooter(pdf)

	var buf bytes.Buffer
	err = pdf.Write(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func addHeader(pdf *gopdf.GoPdf, inv *Invoice) {
	pdf.SetX(40)
	pdf.SetY(30)
	pdf.Cell(nil, "JASTIP INVOICE")
	pdf.Br(24)
	pdf.SetX(40)
	pdf.Cell(nil, fmt.Sprintf("Event: %s (%s)", inv.EventName, inv.EventDate.Format("2006-01-02")))
	pdf.Br(20)
	pdf.SetX(40)
	pdf.Cell(nil, "Customer: "+inv.CustomerName)
	pdf.Br(20)
	pdf.SetX(40)
	pdf.Cell(nil, "Issued: "+inv.IssuedAt.Format("2006-01-02 15:04"))
}

func addLines(pdf *gopdf.GoPdf, inv *Invoice) {
	for _, line := range inv.Lines {
		pdf.SetX(40)
		pdf.Cell(nil, fmt.Sprintf("%dx %s", line.Quantity, line.ItemDescription))
		pdf.Br(18)
		pdf.SetX(60)
		pdf.Cell(nil, fmt.Sprintf("%s + fee %s = %s [%s]",
			billing.FormatRupiah(line.Price),
			billing.FormatRupiah(line.JastipFee),
			billing.FormatRupiah(line.LineTotal),
			line.Status))
		pdf.Br(22)
	}
}

func addTotals(pdf *gopdf.GoPdf, inv *Invoice) {
	pdf.SetX(40)
	pdf.Cell(nil, "Items: "+billing.FormatRupiah(inv.Totals.ItemTotal))
	pdf.Br(20)
	pdf.SetX(40)
	pdf.Cell(nil, "Jastip fees: "+billing.FormatRupiah(inv.Totals.FeeTotal))
	pdf.Br(20)
	pdf.SetX(40)
	pdf.Cell(nil, "Grand total: "+inv.GrandTotal)
}

func addQRCode(pdf *gopdf.GoPdf, qrCode []byte) {
	img, err := png.Decode(bytes.NewReader(qrCode))
	if err != nil {
		pdf.Cell(nil, "Failed to load QR code")
		return
	}

	rect := &gopdf.Rect{W: 100, H: 100}
	err = pdf.ImageFrom(img, 100, pdf.GetY(), rect)
	if err != nil {
		pdf.Cell(nil, "Failed to draw QR code")
	}
}

func addFooter(pdf *gopdf.GoPdf) {
	pdf.SetX(50)
	pdf.Cell(nil, "Thank you for ordering with JasTip Express.")
}
