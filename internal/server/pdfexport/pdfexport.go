// Package pdfexport renders a cahier de veille as an A4 PDF.
package pdfexport

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"regexp"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
	"github.com/dmitrijs2005/cahierdeveille/internal/timex"
)

// Document is everything that ends up on paper. Image fields hold PNG bytes
// and may be nil.
type Document struct {
	Cahier         models.Cahier
	Communications []models.Communication
	Logo           []byte
	Signature      []byte
	Paraphe        []byte
	ExportedAt     time.Time
}

const (
	headerBandHeight = 40.0
	marginX          = 15.0
	metaY            = 55.0
	metaLineHeight   = 8.0
	metaValueOffset  = 40.0
	tableTopNextPage = 20.0
	tableBottomSpace = 25.0
	cellPadding      = 2.0
	bodyLineHeight   = 4.0
	headerHeight     = bodyLineHeight + 2*cellPadding
)

// compressStreams is switched off in tests to inspect page content.
var compressStreams = true

var columnWidths = [4]float64{10, 25, 25, 30}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// FileName builds the download name, e.g.
// Cahier_de_veille-Marathon_de_Bruxelles_19-10-2026-14-03.pdf.
func FileName(evenement string, at time.Time) string {
	name := "Cahier_de_veille"
	if evenement != "" {
		name += "-" + unsafeFileChars.ReplaceAllString(evenement, "_")
	}
	return name + "_" + timex.FileStamp(at) + ".pdf"
}

// Title is the first-page header text.
func Title(evenement string) string {
	if evenement == "" {
		return "CAHIER DE VEILLE"
	}
	return "CAHIER DE VEILLE - " + evenement
}

type renderer struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	doc     Document
	w, h    float64
	paraphe string
}

// Render writes doc as PDF to w.
func Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(compressStreams)
	pdf.SetCreator("cahierdeveille", true)
	pdf.SetTitle(Title(doc.Cahier.Evenement), true)

	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), doc: doc}
	r.w, r.h = pdf.GetPageSize()

	logo := r.registerImage("logo", doc.Logo)
	r.paraphe = r.registerImage("paraphe", doc.Paraphe)
	signature := r.registerImage("signature", doc.Signature)

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() == 1 {
			r.header(logo)
		}
	})
	pdf.SetFooterFunc(r.footer)

	pdf.AddPage()
	r.metadata()
	end := r.table(metaY + metaLineHeight*3)
	r.closing(end, signature)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

// registerImage returns the image name to draw, or "" when b is not a
// usable PNG.
func (r *renderer) registerImage(name string, b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if _, err := png.DecodeConfig(bytes.NewReader(b)); err != nil {
		return ""
	}
	r.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(b))
	if !r.pdf.Ok() {
		return ""
	}
	return name
}

func (r *renderer) header(logo string) {
	pdf := r.pdf
	pdf.SetFillColor(240, 240, 240)
	pdf.Rect(0, 0, r.w, headerBandHeight, "F")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(50, 50, 50)
	pdf.Text(marginX, 25, r.tr(Title(r.doc.Cahier.Evenement)))

	if logo != "" {
		pdf.ImageOptions(logo, r.w-50, 5, 35, 35, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginX, headerBandHeight, r.w-marginX, headerBandHeight)
}

func (r *renderer) footer() {
	pdf := r.pdf
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Rect(14, r.h-20, 20, 15, "D")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(14, r.h-22, "Paraphe")

	if r.paraphe != "" {
		pdf.ImageOptions(r.paraphe, 14.5, r.h-19.5, 19, 14, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	pdf.SetFontSize(10)
	pdf.Text(r.w-25, r.h-10, fmt.Sprintf("Page %d", pdf.PageNo()))
}

func (r *renderer) metadata() {
	c := r.doc.Cahier
	left := marginX
	right := r.w/2 + 10

	r.pdf.SetTextColor(0, 0, 0)
	r.field(left, metaY, "OP RADIO :", c.Redacteur)
	r.field(right, metaY, "Poste :", c.Poste)
	r.field(left, metaY+metaLineHeight, "Fréquence(s) :", c.Frequence)
	r.field(right, metaY+metaLineHeight, "Responsable :", c.Responsable)
}

func (r *renderer) field(x, y float64, label, value string) {
	r.pdf.SetFont("Helvetica", "B", 11)
	r.pdf.Text(x, y, r.tr(label))
	r.pdf.SetFont("Helvetica", "", 11)
	r.pdf.Text(x+metaValueOffset, y, r.tr(value))
}

func (r *renderer) widths() [5]float64 {
	var out [5]float64
	used := 0.0
	for i, cw := range columnWidths {
		out[i] = cw
		used += cw
	}
	out[4] = r.w - 2*marginX - used
	return out
}

func (r *renderer) tableHeader(y float64) float64 {
	pdf := r.pdf
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(220, 220, 220)
	pdf.SetTextColor(50, 50, 50)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)

	h := headerHeight
	x := marginX
	for i, label := range []string{"N°", "Appelé", "Appelant", "Heure", "Communications"} {
		pdf.SetXY(x, y)
		pdf.CellFormat(r.widths()[i], h, r.tr(label), "1", 0, "LM", true, 0, "")
		x += r.widths()[i]
	}
	return y + h
}

// table draws the header and one row per communication and returns the y
// just below the last row. A row that does not fit on a fresh page is split
// line by line across pages, with the header repeated on each new page.
func (r *renderer) table(y float64) float64 {
	widths := r.widths()
	bottom := r.h - tableBottomSpace
	y = r.tableHeader(y)

	r.pdf.SetFont("Helvetica", "", 9)
	for i, c := range r.doc.Communications {
		cells := [5]string{
			fmt.Sprintf("%d", i+1),
			r.tr(c.Appele),
			r.tr(c.Appelant),
			timex.FormatHeure(c.Heure),
			r.tr(c.Communication),
		}

		var lines [5][][]byte
		maxLines := 1
		for j, text := range cells {
			lines[j] = r.pdf.SplitLines([]byte(text), widths[j])
			if len(lines[j]) > maxLines {
				maxLines = len(lines[j])
			}
		}
		rowH := rowHeight(maxLines)

		// move whole rows that fit on a fresh page, split the others in place
		fitsFresh := tableTopNextPage+headerHeight+rowH <= bottom
		if y+rowH > bottom && (fitsFresh || y+rowHeight(1) > bottom) {
			y = r.nextPage()
		}

		for from := 0; from < maxLines; {
			room := int((bottom - y - 2*cellPadding) / bodyLineHeight)
			if room < 1 {
				y = r.nextPage()
				continue
			}
			to := min(from+room, maxLines)
			y = r.rowSegment(y, widths, lines, from, to)
			from = to
			if from < maxLines {
				y = r.nextPage()
			}
		}
	}

	return y
}

func rowHeight(lines int) float64 {
	return float64(lines)*bodyLineHeight + 2*cellPadding
}

// nextPage starts a page, draws the table header and returns the y of the
// first row.
func (r *renderer) nextPage() float64 {
	r.pdf.AddPage()
	y := r.tableHeader(tableTopNextPage)
	r.pdf.SetFont("Helvetica", "", 9)
	return y
}

// rowSegment draws lines [from, to) of a row with its borders and returns
// the y below it.
func (r *renderer) rowSegment(y float64, widths [5]float64, lines [5][][]byte, from, to int) float64 {
	pdf := r.pdf
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)

	h := rowHeight(to - from)
	x := marginX
	for j := range lines {
		pdf.Rect(x, y, widths[j], h, "D")
		for k := from; k < to && k < len(lines[j]); k++ {
			pdf.SetXY(x, y+cellPadding+float64(k-from)*bodyLineHeight)
			pdf.CellFormat(widths[j], bodyLineHeight, string(lines[j][k]), "", 0, "L", false, 0, "")
		}
		x += widths[j]
	}
	return y + h
}

func (r *renderer) closing(tableEnd float64, signature string) {
	pdf := r.pdf
	sigY := tableEnd + 20
	if sigY+50 > r.h-tableBottomSpace {
		pdf.AddPage()
		sigY = tableTopNextPage + 10
	}

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	label := r.tr("Signature :")
	pdf.Text(r.w-80-pdf.GetStringWidth(label), sigY, label)

	if signature != "" {
		pdf.ImageOptions(signature, r.w-75, sigY+5, 60, 30, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	lineY := sigY + 40
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginX, lineY, r.w-marginX, lineY)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(marginX, lineY+10, r.tr("Ce document a été exporté en date du "+timex.FormatExportDate(r.doc.ExportedAt)))
}
