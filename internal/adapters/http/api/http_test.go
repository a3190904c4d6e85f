package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/architect/internal/adapters/http/api"
	"github.com/okian/architect/internal/adapters/repository"
	service "github.com/okian/architect/internal/app"
	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/types"
	"github.com/okian/architect/pkg/metrics"
)

var fixed = time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC)

func newTestServer(ctx context.Context) (*httptest.Server, *repository.SQLiteStore) {
	store, err := repository.Open(ctx, repository.MemoryPath)
	So(err, ShouldBeNil)
	now := func() time.Time { return fixed }
	svc := service.New(store, service.WithClock(now))
	srv := httptest.NewServer(api.NewServer(svc, api.WithClock(now)).Handler())
	return srv, store
}

func do(srv *httptest.Server, method, path string, body any) *http.Response {
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		rdr = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		So(err, ShouldBeNil)
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	So(err, ShouldBeNil)
	resp, err := http.DefaultClient.Do(req)
	So(err, ShouldBeNil)
	return resp
}

func decodeBody(resp *http.Response, v any) {
	defer resp.Body.Close()
	So(json.NewDecoder(resp.Body).Decode(v), ShouldBeNil)
}

func readBody(resp *http.Response) []byte {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	So(err, ShouldBeNil)
	return b
}

// documentExports reads the document export counter for format from the registry.
func documentExports(format string) float64 {
	families, err := metrics.GetRegistry().Gather()
	So(err, ShouldBeNil)
	for _, mf := range families {
		if !strings.HasSuffix(mf.GetName(), "document_exports_total") {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "format" && lp.GetValue() == format {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Fields  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

func createTeacher(srv *httptest.Server, name string) model.Teacher {
	resp := do(srv, http.MethodPost, "/teachers", model.Teacher{Name: name, Classes: "7B", Subjects: "Math"})
	So(resp.StatusCode, ShouldEqual, http.StatusCreated)
	var t model.Teacher
	decodeBody(resp, &t)
	return t
}

func ratedDraft(srv *httptest.Server, teacherID int64) model.Observation {
	resp := do(srv, http.MethodGet, "/observations/new", nil)
	So(resp.StatusCode, ShouldEqual, http.StatusOK)
	var o model.Observation
	decodeBody(resp, &o)
	o.TeacherID = teacherID
	o.ClassName = "7B"
	o.SubjectTopic = "Fractions"
	o.Domains[0].Competencies[0].Rate(4)
	o.Domains[0].Competencies[1].Rate(3)
	o.Domains[0].Competencies[2].Rate(0)
	return o
}

func TestHealthAndFramework(t *testing.T) {
	Convey("Given a running API", t, func() {
		ctx := context.Background()
		srv, store := newTestServer(ctx)
		defer store.Close()
		defer srv.Close()

		Convey("healthz reports ok", func() {
			resp := do(srv, http.MethodGet, "/healthz", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			var body map[string]string
			decodeBody(resp, &body)
			So(body["status"], ShouldEqual, "ok")
		})

		Convey("metrics are exposed in the text format", func() {
			do(srv, http.MethodGet, "/healthz", nil).Body.Close()
			resp := do(srv, http.MethodGet, "/metrics", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(string(readBody(resp)), ShouldContainSubstring, "http_requests_total")
		})

		Convey("framework returns ten domains and the rating scale", func() {
			resp := do(srv, http.MethodGet, "/framework", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			var body struct {
				Domains      []model.Domain `json:"domains"`
				Scale        []any          `json:"scale"`
				MeetingAreas []any          `json:"meetingAreas"`
			}
			decodeBody(resp, &body)
			So(len(body.Domains), ShouldEqual, 10)
			So(len(body.Scale), ShouldEqual, 5)
			So(len(body.MeetingAreas), ShouldEqual, 4)
		})
	})
}

func TestTeacherRoutes(t *testing.T) {
	Convey("Given a running API", t, func() {
		ctx := context.Background()
		srv, store := newTestServer(ctx)
		defer store.Close()
		defer srv.Close()

		Convey("a teacher can be created, read, renamed and deleted", func() {
			jane := createTeacher(srv, "Jane Doe")
			So(jane.ID, ShouldBeGreaterThan, 0)

			resp := do(srv, http.MethodGet, fmt.Sprintf("/teachers/%d", jane.ID), nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			var got model.Teacher
			decodeBody(resp, &got)
			So(got.Name, ShouldEqual, "Jane Doe")

			jane.Name = "Jane Smith"
			resp = do(srv, http.MethodPut, fmt.Sprintf("/teachers/%d", jane.ID), jane)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			decodeBody(resp, &got)
			So(got.Name, ShouldEqual, "Jane Smith")

			resp = do(srv, http.MethodDelete, fmt.Sprintf("/teachers/%d", jane.ID), nil)
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)
			resp.Body.Close()

			resp = do(srv, http.MethodGet, fmt.Sprintf("/teachers/%d", jane.ID), nil)
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			var e apiError
			decodeBody(resp, &e)
			So(e.Code, ShouldEqual, "not_found")
		})

		Convey("a nameless teacher is rejected with field details", func() {
			resp := do(srv, http.MethodPost, "/teachers", model.Teacher{Classes: "7B"})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			var e apiError
			decodeBody(resp, &e)
			So(e.Code, ShouldEqual, "validation_error")
			So(len(e.Fields), ShouldEqual, 1)
			So(e.Fields[0].Field, ShouldEqual, "name")
		})

		Convey("malformed ids and bodies are bad requests", func() {
			resp := do(srv, http.MethodGet, "/teachers/abc", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()

			resp = do(srv, http.MethodPost, "/teachers", []byte("{not json"))
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			var e apiError
			decodeBody(resp, &e)
			So(e.Code, ShouldEqual, "bad_request")
		})

		Convey("updating an unknown teacher is not found", func() {
			resp := do(srv, http.MethodPut, "/teachers/999", model.Teacher{Name: "Ghost"})
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			resp.Body.Close()
		})
	})
}

func TestObservationRoutes(t *testing.T) {
	Convey("Given a running API with one teacher", t, func() {
		ctx := context.Background()
		srv, store := newTestServer(ctx)
		defer store.Close()
		defer srv.Close()
		jane := createTeacher(srv, "Jane Doe")

		Convey("scoring a draft does not save it", func() {
			o := ratedDraft(srv, jane.ID)
			resp := do(srv, http.MethodPost, "/observations/score", o)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			var res struct {
				OverallScore     float64                `json:"overallScore"`
				PerformanceLevel types.PerformanceLevel `json:"performanceLevel"`
			}
			decodeBody(resp, &res)
			So(res.OverallScore, ShouldEqual, 3.5)
			So(res.PerformanceLevel, ShouldEqual, types.Exemplary)

			resp = do(srv, http.MethodGet, "/observations", nil)
			var list []model.Observation
			decodeBody(resp, &list)
			So(list, ShouldBeEmpty)
		})

		Convey("a saved observation is scored and linked to its teacher", func() {
			resp := do(srv, http.MethodPost, "/observations", ratedDraft(srv, jane.ID))
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)
			var saved model.Observation
			decodeBody(resp, &saved)
			So(saved.ID, ShouldBeGreaterThan, 0)
			So(saved.OverallScore, ShouldEqual, 3.5)
			So(saved.TeacherName, ShouldEqual, "Jane Doe")

			resp = do(srv, http.MethodGet, fmt.Sprintf("/observations?teacherId=%d", jane.ID), nil)
			var list []model.Observation
			decodeBody(resp, &list)
			So(len(list), ShouldEqual, 1)

			resp = do(srv, http.MethodGet, "/observations?teacherId=0", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()

			Convey("and can be updated in place", func() {
				saved.Domains[0].Competencies[0].Rate(2)
				resp := do(srv, http.MethodPut, fmt.Sprintf("/observations/%d", saved.ID), saved)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var updated model.Observation
				decodeBody(resp, &updated)
				So(updated.ID, ShouldEqual, saved.ID)
				So(updated.OverallScore, ShouldEqual, 2.5)
				So(updated.CreatedAt.Equal(saved.CreatedAt), ShouldBeTrue)
			})

			Convey("and rendered as a PDF", func() {
				resp := do(srv, http.MethodGet, fmt.Sprintf("/observations/%d/report.pdf", saved.ID), nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldEqual, "application/pdf")
				So(resp.Header.Get("Content-Disposition"), ShouldStartWith, "attachment;")
				So(string(readBody(resp)), ShouldStartWith, "%PDF-")
			})

			Convey("and exported as CSV and XLSX", func() {
				resp := do(srv, http.MethodGet, "/observations/export.csv", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Disposition"), ShouldContainSubstring, ".csv")
				lines := strings.Split(strings.TrimRight(string(readBody(resp)), "\r\n"), "\r\n")
				So(len(lines), ShouldEqual, 2)
				So(lines[1], ShouldContainSubstring, "Jane Doe")

				resp = do(srv, http.MethodGet, "/observations/export.xlsx", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Disposition"), ShouldContainSubstring, ".xlsx")
				So(string(readBody(resp)), ShouldStartWith, "PK")
			})

			Convey("and each download counts once as a document export", func() {
				for _, dl := range []struct{ format, path string }{
					{"csv", "/observations/export.csv"},
					{"xlsx", "/observations/export.xlsx"},
					{"pdf", fmt.Sprintf("/observations/%d/report.pdf", saved.ID)},
					{"pdf", fmt.Sprintf("/teachers/%d/report.pdf", jane.ID)},
				} {
					before := documentExports(dl.format)
					resp := do(srv, http.MethodGet, dl.path, nil)
					So(resp.StatusCode, ShouldEqual, http.StatusOK)
					readBody(resp)
					So(documentExports(dl.format), ShouldEqual, before+1)
				}
			})

			Convey("and the teacher report lists it", func() {
				resp := do(srv, http.MethodGet, fmt.Sprintf("/teachers/%d/profile", jane.ID), nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var p service.TeacherProfile
				decodeBody(resp, &p)
				So(len(p.Observations), ShouldEqual, 1)

				resp = do(srv, http.MethodGet, fmt.Sprintf("/teachers/%d/report.pdf", jane.ID), nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(string(readBody(resp)), ShouldStartWith, "%PDF-")
			})

			Convey("and deleted", func() {
				resp := do(srv, http.MethodDelete, fmt.Sprintf("/observations/%d", saved.ID), nil)
				So(resp.StatusCode, ShouldEqual, http.StatusNoContent)
				resp.Body.Close()
				resp = do(srv, http.MethodGet, fmt.Sprintf("/observations/%d", saved.ID), nil)
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				resp.Body.Close()
			})
		})

		Convey("an observation for an unknown teacher is rejected", func() {
			resp := do(srv, http.MethodPost, "/observations", ratedDraft(srv, 999))
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			var e apiError
			decodeBody(resp, &e)
			So(e.Code, ShouldEqual, "validation_error")
			So(e.Fields[0].Field, ShouldEqual, "teacherId")
		})
	})
}

func TestMeetingRoutes(t *testing.T) {
	Convey("Given a running API with one teacher", t, func() {
		ctx := context.Background()
		srv, store := newTestServer(ctx)
		defer store.Close()
		defer srv.Close()
		jane := createTeacher(srv, "Jane Doe")

		Convey("a meeting draft carries the blank discussion areas", func() {
			resp := do(srv, http.MethodGet, fmt.Sprintf("/meetings/new?teacherId=%d", jane.ID), nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			var m model.Meeting
			decodeBody(resp, &m)
			So(m.TeacherID, ShouldEqual, jane.ID)
			So(len(m.Areas), ShouldEqual, 4)
		})

		Convey("a saved meeting keeps notes and defaults item status", func() {
			resp := do(srv, http.MethodGet, fmt.Sprintf("/meetings/new?teacherId=%d", jane.ID), nil)
			var m model.Meeting
			decodeBody(resp, &m)
			m.Areas[0].Notes = "Strong questioning"
			m.ActionItems = []model.ActionItem{{Description: "Try exit tickets"}, {Description: "  "}}

			resp = do(srv, http.MethodPost, "/meetings", m)
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)
			var saved model.Meeting
			decodeBody(resp, &saved)
			So(len(saved.Areas), ShouldEqual, 1)
			So(len(saved.ActionItems), ShouldEqual, 1)
			So(saved.ActionItems[0].Status, ShouldEqual, types.StatusToDo)
			So(saved.ActionItems[0].ID, ShouldNotBeEmpty)

			resp = do(srv, http.MethodGet, fmt.Sprintf("/meetings?teacherId=%d", jane.ID), nil)
			var list []model.Meeting
			decodeBody(resp, &list)
			So(len(list), ShouldEqual, 1)

			resp = do(srv, http.MethodDelete, fmt.Sprintf("/meetings/%d", saved.ID), nil)
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)
			resp.Body.Close()
		})

		Convey("an unknown action status is rejected", func() {
			m := model.Meeting{
				TeacherID:   jane.ID,
				Date:        "2026-03-10",
				ActionItems: []model.ActionItem{{Description: "x", Status: "Someday"}},
			}
			resp := do(srv, http.MethodPost, "/meetings", m)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			var e apiError
			decodeBody(resp, &e)
			So(e.Fields[0].Field, ShouldEqual, "actionItems[0].status")
		})
	})
}

func TestReportRoutes(t *testing.T) {
	Convey("Given a running API with one scored observation", t, func() {
		ctx := context.Background()
		srv, store := newTestServer(ctx)
		defer store.Close()
		defer srv.Close()
		jane := createTeacher(srv, "Jane Doe")
		do(srv, http.MethodPost, "/observations", ratedDraft(srv, jane.ID)).Body.Close()

		Convey("the dashboard counts it", func() {
			resp := do(srv, http.MethodGet, "/reports/dashboard", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			var d struct {
				TotalObservations int     `json:"totalObservations"`
				TotalTeachers     int     `json:"totalTeachers"`
				SchoolAverage     float64 `json:"schoolAverage"`
			}
			decodeBody(resp, &d)
			So(d.TotalObservations, ShouldEqual, 1)
			So(d.TotalTeachers, ShouldEqual, 1)
			So(d.SchoolAverage, ShouldEqual, 3.5)
		})

		Convey("the other reports respond", func() {
			for _, path := range []string{"/reports/school", "/reports/teachers", "/reports/domains"} {
				resp := do(srv, http.MethodGet, path, nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				resp.Body.Close()
			}
		})
	})
}

func TestBackupRoutes(t *testing.T) {
	Convey("Given a running API with data", t, func() {
		ctx := context.Background()
		srv, store := newTestServer(ctx)
		defer store.Close()
		defer srv.Close()
		jane := createTeacher(srv, "Jane Doe")
		do(srv, http.MethodPost, "/observations", ratedDraft(srv, jane.ID)).Body.Close()

		Convey("a backup downloads as a dated JSON file", func() {
			resp := do(srv, http.MethodGet, "/backup", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("Content-Disposition"), ShouldContainSubstring, "Backup_2026-03-10.json")
			data := readBody(resp)

			Convey("and importing it doubles the records", func() {
				resp := do(srv, http.MethodPost, "/backup", data)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var counts repository.Counts
				decodeBody(resp, &counts)
				So(counts.Teachers, ShouldEqual, 1)
				So(counts.Observations, ShouldEqual, 1)

				resp = do(srv, http.MethodGet, "/teachers", nil)
				var ts []model.Teacher
				decodeBody(resp, &ts)
				So(len(ts), ShouldEqual, 2)
			})
		})

		Convey("a malformed backup is rejected without changes", func() {
			resp := do(srv, http.MethodPost, "/backup", []byte(`{"version":"2.0.2"}`))
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			var e apiError
			decodeBody(resp, &e)
			So(e.Code, ShouldEqual, "invalid_format")
		})

		Convey("clearing requires the confirmation phrase", func() {
			resp := do(srv, http.MethodDelete, "/data", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()

			resp = do(srv, http.MethodDelete, "/data?confirm=DELETE", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)
			resp.Body.Close()

			resp = do(srv, http.MethodGet, "/teachers", nil)
			var ts []model.Teacher
			decodeBody(resp, &ts)
			So(ts, ShouldBeEmpty)
		})
	})
}

func TestStorageUnavailable(t *testing.T) {
	Convey("Given an API whose store is closed", t, func() {
		ctx := context.Background()
		srv, store := newTestServer(ctx)
		defer srv.Close()
		So(store.Close(), ShouldBeNil)

		Convey("requests fail with 503", func() {
			resp := do(srv, http.MethodGet, "/teachers", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusServiceUnavailable)
			var e apiError
			decodeBody(resp, &e)
			So(e.Code, ShouldEqual, "storage_unavailable")
		})
	})
}

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestRequestBodies(t *testing.T) {
	Convey("Given an API with a small body limit", t, func() {
		ctx := context.Background()
		store, err := repository.Open(ctx, repository.MemoryPath)
		So(err, ShouldBeNil)
		defer store.Close()
		h := api.NewServer(service.New(store), api.WithMaxBodyBytes(64)).Handler()

		serve := func(method, path string, body io.Reader) (*httptest.ResponseRecorder, apiError) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(method, path, body))
			var e apiError
			So(json.Unmarshal(rec.Body.Bytes(), &e), ShouldBeNil)
			return rec, e
		}

		Convey("an oversized backup is too large", func() {
			rec, e := serve(http.MethodPost, "/backup", strings.NewReader(strings.Repeat("x", 65)))
			So(rec.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(e.Code, ShouldEqual, "too_large")
		})

		Convey("an oversized JSON body is too large", func() {
			body := `{"name":"` + strings.Repeat("x", 80) + `"}`
			rec, e := serve(http.MethodPost, "/teachers", strings.NewReader(body))
			So(rec.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(e.Code, ShouldEqual, "too_large")
		})

		Convey("a failed read is a bad request", func() {
			rec, e := serve(http.MethodPost, "/backup", brokenBody{})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(e.Code, ShouldEqual, "bad_request")

			rec, e = serve(http.MethodPost, "/teachers", brokenBody{})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(e.Code, ShouldEqual, "bad_request")
		})
	})
}
