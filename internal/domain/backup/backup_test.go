package backup

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/architect/internal/domain/model"
)

func TestEncodeDecode(t *testing.T) {
	Convey("Given a document", t, func() {
		at := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
		doc := New("", at,
			[]model.Teacher{{ID: 3, Name: "Jane Doe"}},
			[]model.Observation{{ID: 9, TeacherID: 3, Date: "2026-05-01", ClassName: "7B"}},
			nil)

		So(doc.Version, ShouldEqual, DefaultVersion)
		So(doc.ExportDate, ShouldEqual, "2026-05-04T10:30:00Z")
		So(doc.Meetings, ShouldNotBeNil)

		Convey("Encoding keeps identities and decoding restores them", func() {
			b, err := Encode(doc)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"meetings": []`)

			back, err := Decode(b)
			So(err, ShouldBeNil)
			So(back.Teachers[0].ID, ShouldEqual, 3)
			So(back.Observations[0].TeacherID, ShouldEqual, 3)
			So(back.ExportDate, ShouldEqual, doc.ExportDate)
		})
	})
}

func TestDecodeRejects(t *testing.T) {
	Convey("Decode rejects malformed documents", t, func() {
		cases := map[string]string{
			"empty":                "  ",
			"not json":             "{teachers:",
			"wrong shape":          `[]`,
			"missing teachers":     `{"observations": []}`,
			"missing observations": `{"teachers": []}`,
			"null teachers":        `{"teachers": null, "observations": []}`,
			"teachers not array":   `{"teachers": {}, "observations": []}`,
		}
		for name, in := range cases {
			_, err := Decode([]byte(in))
			So(errors.Is(err, ErrInvalidFormat), ShouldBeTrue)
			So(name, ShouldNotBeEmpty)
		}
	})

	Convey("Decode accepts documents without meetings", t, func() {
		d, err := Decode([]byte(`{"version":"1.0","teachers":[],"observations":[]}`))
		So(err, ShouldBeNil)
		So(d.Meetings, ShouldBeEmpty)
		So(d.Version, ShouldEqual, "1.0")
	})
}

func TestFileName(t *testing.T) {
	Convey("FileName uses the calendar date", t, func() {
		So(FileName(time.Date(2026, 1, 2, 23, 0, 0, 0, time.UTC)), ShouldEqual, "Backup_2026-01-02.json")
	})
}
