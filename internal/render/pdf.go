package render

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/goflyer/internal/flyer"
)

// Layout in points on an 800x600 sheet, matching the editor canvas.
const (
	pageW         = 800.0
	pageH         = 600.0
	marginX       = 50.0
	contentW      = 700.0
	titleY        = 50.0
	subtitleY     = 120.0
	featuresY     = 200.0
	featureStep   = 40.0
	detailIndent  = 70.0
	detailStep    = 25.0
	ctaMinY       = 500.0
	bottomPadding = 40.0
)

type rgb struct{ r, g, b int }

var (
	titleColor    = rgb{0x1a, 0x36, 0x5d}
	subtitleColor = rgb{0x4a, 0x55, 0x68}
	featureColor  = rgb{0x2d, 0x37, 0x48}
	ctaColor      = rgb{0xe5, 0x3e, 0x3e}
)

// PDF writes c as a single-page flyer sheet. The page grows vertically when
// the feature and detail lists do not fit above the call to action.
func PDF(w io.Writer, c flyer.Content) error {
	detailsY := featuresY + float64(len(c.Features))*featureStep + featureStep
	ctaY := detailsY + float64(len(c.Details))*detailStep + featureStep
	if ctaY < ctaMinY {
		ctaY = ctaMinY
	}
	height := pageH
	if ctaY+bottomPadding+28 > height {
		height = ctaY + bottomPadding + 28
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	// core fonts are cp1252; "•" and accented letters need translation
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFillColor(0xf8, 0xf9, 0xfa)
	pdf.Rect(0, 0, pageW, height, "F")

	line := func(x, y, width, size float64, style string, col rgb, align, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.SetTextColor(col.r, col.g, col.b)
		pdf.SetXY(x, y)
		pdf.CellFormat(width, size*1.2, tr(text), "", 0, align, false, 0, "")
	}

	line(marginX, titleY, contentW, 48, "B", titleColor, "C", c.Title)
	line(marginX, subtitleY, contentW, 24, "", subtitleColor, "C", c.Subtitle)
	for i, f := range c.Features {
		line(marginX, featuresY+float64(i)*featureStep, contentW, 20, "B", featureColor, "L", f)
	}
	for i, d := range c.Details {
		line(detailIndent, detailsY+float64(i)*detailStep, contentW-(detailIndent-marginX), 16, "", subtitleColor, "L", d)
	}
	line(marginX, ctaY, contentW, 28, "B", ctaColor, "C", c.CallToAction)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// WritePDFFile renders c into path.
func WritePDFFile(path string, c flyer.Content) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if err := PDF(f, c); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
