package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/rubric"
	"github.com/okian/architect/internal/domain/scoring"
)

func fixtures() ([]model.Teacher, []model.Observation) {
	teachers := []model.Teacher{{ID: 1, Name: "Jane Doe"}}

	rated := model.Observation{
		ID:           10,
		ObserverName: "Principal",
		Date:         "2026-03-02",
		Time:         "09:00",
		TeacherID:    1,
		TeacherName:  "Jane (old name)",
		ClassName:    "7B",
		SubjectTopic: "Fractions, decimals",
		LessonType:   "Direct",
		KeyStrengths: "Clear \"hooks\"\nand pacing",
		Domains:      rubric.Framework(),
	}
	rated.Domains[0].Competencies[0].Rate(4)
	rated.Domains[0].Competencies[1].Rate(3)
	rated.Domains[0].Competencies[0].Evidence = "Students restated the objective"
	scoring.Apply(&rated)

	orphan := model.Observation{ID: 11, TeacherID: 99, Date: "2026-03-03", ClassName: "8A", SubjectTopic: "Poetry"}
	return teachers, []model.Observation{rated, orphan}
}

func TestColumns(t *testing.T) {
	Convey("Columns lists the base fields then one rating per competency", t, func() {
		cols := Columns()
		So(cols, ShouldHaveLength, len(baseColumns)+rubric.CompetencyCount())
		So(cols[0], ShouldEqual, "observationId")
		So(cols[15], ShouldEqual, "supportNeeded")
		for _, c := range cols[16:] {
			So(c, ShouldEndWith, "_Rating")
			So(strings.ContainsAny(c, " \t"), ShouldBeFalse)
		}
		So(FileName("csv", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)), ShouldEqual, "Observations_2026-03-10.csv")
	})
}

func TestCSV(t *testing.T) {
	Convey("Given observations and a roster", t, func() {
		teachers, obs := fixtures()
		var buf bytes.Buffer
		So(WriteObservationsCSV(&buf, obs, teachers), ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, "\r\n")

		records, err := csv.NewReader(&buf).ReadAll()
		So(err, ShouldBeNil)
		So(records, ShouldHaveLength, 3)
		header, first, second := records[0], records[1], records[2]
		col := func(name string) int {
			for i, h := range header {
				if h == name {
					return i
				}
			}
			return -1
		}

		Convey("Rows use the live teacher name or Unknown", func() {
			So(first[col("teacherName")], ShouldEqual, "Jane Doe")
			So(second[col("teacherName")], ShouldEqual, UnknownTeacher)
		})

		Convey("Values survive quoting", func() {
			So(first[col("observationId")], ShouldEqual, "10")
			So(first[col("subjectTopic")], ShouldEqual, "Fractions, decimals")
			So(first[col("keyStrengths")], ShouldEqual, "Clear \"hooks\"\nand pacing")
			So(first[col("overallScore")], ShouldEqual, "3.5")
			So(first[col("performanceLevel")], ShouldEqual, "Exemplary")
		})

		Convey("Ratings land in their competency column", func() {
			d := rubric.Framework()[0]
			name := strings.Join(strings.Fields(d.Name), "_") + "_" + strings.Join(strings.Fields(d.Competencies[0].Title), "_") + "_Rating"
			So(col(name), ShouldBeGreaterThan, 15)
			So(first[col(name)], ShouldEqual, "4")
			So(second[col(name)], ShouldEqual, "")
		})
	})

	Convey("An empty export still has a header", t, func() {
		var buf bytes.Buffer
		So(WriteObservationsCSV(&buf, nil, nil), ShouldBeNil)
		records, err := csv.NewReader(&buf).ReadAll()
		So(err, ShouldBeNil)
		So(records, ShouldHaveLength, 1)
	})
}

func TestWorkbook(t *testing.T) {
	Convey("Given observations and a roster", t, func() {
		teachers, obs := fixtures()
		b, err := ObservationsWorkbook(obs, teachers)
		So(err, ShouldBeNil)

		f, err := excelize.OpenReader(bytes.NewReader(b))
		So(err, ShouldBeNil)
		defer f.Close()

		So(f.GetSheetList(), ShouldResemble, []string{SheetName})
		rows, err := f.GetRows(SheetName)
		So(err, ShouldBeNil)
		So(rows, ShouldHaveLength, 3)
		So(rows[0], ShouldResemble, Columns())
		So(rows[1][0], ShouldEqual, "10")
		So(rows[1][4], ShouldEqual, "Jane Doe")
		So(rows[2][4], ShouldEqual, UnknownTeacher)

		score, err := f.GetCellValue(SheetName, "I2")
		So(err, ShouldBeNil)
		So(score, ShouldEqual, "3.5")

		panes, err := f.GetPanes(SheetName)
		So(err, ShouldBeNil)
		So(panes.Freeze, ShouldBeTrue)
		So(panes.YSplit, ShouldEqual, 1)
	})
}

func TestPDF(t *testing.T) {
	generated := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	Convey("Given an observation", t, func() {
		teachers, obs := fixtures()

		Convey("ObservationPDF renders a PDF document", func() {
			var buf bytes.Buffer
			So(ObservationPDF(&buf, obs[0], generated), ShouldBeNil)
			So(buf.Len(), ShouldBeGreaterThan, 1000)
			So(strings.HasPrefix(buf.String(), "%PDF-"), ShouldBeTrue)
			So(ObservationPDFName(obs[0]), ShouldEqual, "Observation_Jane (old name)_2026-03-02.pdf")
		})

		Convey("Rendering is deterministic for a fixed time", func() {
			var a, b bytes.Buffer
			So(ObservationPDF(&a, obs[0], generated), ShouldBeNil)
			So(ObservationPDF(&b, obs[0], generated), ShouldBeNil)
			So(a.Bytes(), ShouldResemble, b.Bytes())
		})

		Convey("TeacherSummaryPDF renders with and without history", func() {
			var buf bytes.Buffer
			So(TeacherSummaryPDF(&buf, teachers[0], obs[:1], generated), ShouldBeNil)
			So(strings.HasPrefix(buf.String(), "%PDF-"), ShouldBeTrue)

			buf.Reset()
			So(TeacherSummaryPDF(&buf, teachers[0], nil, generated), ShouldBeNil)
			So(buf.Len(), ShouldBeGreaterThan, 0)
			So(TeacherSummaryPDFName(teachers[0]), ShouldEqual, "Summary_Jane Doe.pdf")
		})
	})
}
