package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/rubric"
	"github.com/okian/architect/pkg/metrics"
)

const (
	reportTitle = "The Architect's Dashboard"
	pageMargin  = 14.0
	lineHeight  = 6.0
	notProvided = "N/A"
)

type rgb struct{ r, g, b int }

var (
	primaryDark = rgb{30, 58, 138}
	primary     = rgb{30, 64, 175}
	ink         = rgb{17, 24, 39}
	muted       = rgb{107, 114, 128}
	headerFill  = rgb{239, 246, 255}
	detailFill  = rgb{219, 234, 254}
)

// report wraps an A4 document with the shared header and footer.
type report struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newReport(title string, generated time.Time) *report {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, 20, pageMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetCreationDate(generated)
	pdf.SetModificationDate(generated)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(title, true)
	pdf.AliasNbPages("")

	r := &report{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		r.color(muted)
		pdf.CellFormat(0, 4, "Generated on "+generated.Format("2006-01-02"), "", 0, "L", false, 0, "")
		pdf.SetX(pageMargin)
		pdf.CellFormat(0, 4, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	r.color(primaryDark)
	pdf.CellFormat(0, 8, r.tr(reportTitle), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	r.color(ink)
	pdf.CellFormat(0, 8, r.tr(title), "", 1, "L", false, 0, "")
	w, _ := pdf.GetPageSize()
	pdf.SetDrawColor(primary.r, primary.g, primary.b)
	y := pdf.GetY() + 2
	pdf.Line(pageMargin, y, w-pageMargin, y)
	pdf.SetY(y + 6)
	return r
}

func (r *report) color(c rgb) { r.pdf.SetTextColor(c.r, c.g, c.b) }

func (r *report) section(title string) {
	r.pdf.Ln(2)
	r.pdf.SetFont("Helvetica", "B", 12)
	r.color(primary)
	r.pdf.CellFormat(0, 7, r.tr(title), "", 1, "L", false, 0, "")
	r.color(ink)
}

// pairs prints label/value rows; each row holds up to two pairs.
func (r *report) pairs(rows [][]string) {
	widths := []float64{30, 61, 30, 61}
	for _, row := range rows {
		for i, cell := range row {
			style := ""
			fill := false
			if i%2 == 0 {
				style = "B"
				fill = true
			}
			r.pdf.SetFont("Helvetica", style, 10)
			r.pdf.SetFillColor(detailFill.r, detailFill.g, detailFill.b)
			r.pdf.CellFormat(widths[i], lineHeight+1, r.tr(cell), "1", 0, "L", fill, 0, "")
		}
		r.pdf.Ln(-1)
	}
}

func (r *report) tableHead(widths []float64, cols ...string) {
	r.pdf.SetFont("Helvetica", "B", 9)
	r.pdf.SetFillColor(headerFill.r, headerFill.g, headerFill.b)
	r.color(primaryDark)
	for i, c := range cols {
		r.pdf.CellFormat(widths[i], lineHeight, r.tr(c), "1", 0, "L", true, 0, "")
	}
	r.pdf.Ln(-1)
	r.color(ink)
	r.pdf.SetFont("Helvetica", "", 9)
}

func (r *report) finish(w io.Writer, kind string) error {
	if err := r.pdf.Output(w); err != nil {
		return fmt.Errorf("render %s pdf: %w", kind, err)
	}
	metrics.RecordDocumentExport("pdf")
	return nil
}

func orNA(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}

func score(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// ObservationPDF renders the full report of one observation: details,
// ratings per domain with evidence, summary and signature lines.
func ObservationPDF(w io.Writer, o model.Observation, generated time.Time) error {
	r := newReport("Teacher Observation Report", generated)
	pdf := r.pdf

	r.section("Observation Details")
	r.pairs([][]string{
		{"Observer:", o.ObserverName, "Teacher:", o.TeacherName},
		{"Date:", o.Date, "Class:", o.ClassName},
		{"Time:", o.Time, "Subject/Topic:", o.SubjectTopic},
		{"Lesson Type:", o.LessonType, "Overall Score:", fmt.Sprintf("%s (%s)", score(o.OverallScore), o.PerformanceLevel)},
	})

	widths := []float64{60, 30, 92}
	for _, d := range o.Domains {
		r.section(d.Name)
		r.tableHead(widths, "Competency", "Rating", "Evidence")
		for _, c := range d.Competencies {
			evidence := c.Evidence
			if evidence == "" {
				evidence = "No evidence provided."
			}
			y := pdf.GetY()
			pdf.SetFont("Helvetica", "B", 9)
			pdf.MultiCell(widths[0], lineHeight, r.tr(c.Title), "", "L", false)
			titleBottom := pdf.GetY()
			pdf.SetXY(pageMargin+widths[0], y)
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(widths[1], lineHeight, rubric.RatingLabel(c.Rating), "", 0, "L", false, 0, "")
			pdf.SetXY(pageMargin+widths[0]+widths[1], y)
			pdf.MultiCell(widths[2], lineHeight, r.tr(evidence), "", "L", false)
			if pdf.GetY() < titleBottom {
				pdf.SetY(titleBottom)
			}
		}
	}

	r.section("Summary")
	summary := [][2]string{
		{"Key Strengths", orNA(o.KeyStrengths)},
		{"Areas for Development", orNA(o.AreasForDevelopment)},
		{"Commendations", orNA(o.Commendations)},
		{"Recommendations", orNA(o.Recommendations)},
		{"Follow-up Date", orNA(o.FollowUpDate)},
		{"Support Needed", orNA(o.SupportNeeded)},
	}
	for _, s := range summary {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, lineHeight, r.tr(s[0]), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, lineHeight, r.tr(s[1]), "", "L", false)
	}

	r.section("Signatures")
	pw, _ := pdf.GetPageSize()
	y := pdf.GetY() + 12
	pdf.Line(pageMargin, y, 80, y)
	pdf.Line(130, y, pw-pageMargin, y)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(pageMargin, y+5, "Observer Signature")
	pdf.Text(130, y+5, "Teacher Signature")

	return r.finish(w, "observation")
}

// TeacherSummaryPDF renders a teacher's observation history with their
// average score.
func TeacherSummaryPDF(w io.Writer, t model.Teacher, obs []model.Observation, generated time.Time) error {
	r := newReport("Performance Summary: "+t.Name, generated)
	pdf := r.pdf

	var sum float64
	for _, o := range obs {
		sum += o.OverallScore
	}
	avg := 0.0
	if len(obs) > 0 {
		avg = sum / float64(len(obs))
	}

	r.pairs([][]string{
		{"Teacher:", t.Name, "Classes:", orNA(t.Classes)},
		{"Observations:", strconv.Itoa(len(obs)), "Average Score:", fmt.Sprintf("%s (%s)", score(avg), rubric.LevelOf(avg))},
	})

	r.section("Observation History")
	widths := []float64{30, 92, 25, 35}
	r.tableHead(widths, "Date", "Subject/Topic", "Score", "Level")
	for _, o := range obs {
		pdf.CellFormat(widths[0], lineHeight, o.Date, "B", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], lineHeight, r.tr(o.SubjectTopic), "B", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], lineHeight, score(o.OverallScore), "B", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], lineHeight, string(o.PerformanceLevel), "B", 1, "L", false, 0, "")
	}
	if len(obs) == 0 {
		pdf.CellFormat(0, lineHeight, "No observations recorded.", "", 1, "L", false, 0, "")
	}

	return r.finish(w, "teacher summary")
}

// ObservationPDFName is the download name of an observation report.
func ObservationPDFName(o model.Observation) string {
	return fmt.Sprintf("Observation_%s_%s.pdf", o.TeacherName, o.Date)
}

// TeacherSummaryPDFName is the download name of a teacher summary.
func TeacherSummaryPDFName(t model.Teacher) string {
	return fmt.Sprintf("Summary_%s.pdf", t.Name)
}
