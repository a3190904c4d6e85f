// Package backup defines the portable document used to export and re-import
// the whole record store.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/architect/internal/domain/model"
)

// DefaultVersion is written when no version is configured.
const DefaultVersion = "2.0.2"

// ErrInvalidFormat reports a document that is not a usable backup.
var ErrInvalidFormat = errors.New("invalid backup format")

// Document is the serialized form of the store.
type Document struct {
	Version      string              `json:"version"`
	ExportDate   string              `json:"exportDate"`
	Teachers     []model.Teacher     `json:"teachers"`
	Observations []model.Observation `json:"observations"`
	Meetings     []model.Meeting     `json:"meetings"`
}

// New builds a document stamped with version and export time. Nil
// collections are written as empty arrays.
func New(version string, at time.Time, teachers []model.Teacher, obs []model.Observation, meetings []model.Meeting) Document {
	if version == "" {
		version = DefaultVersion
	}
	if teachers == nil {
		teachers = []model.Teacher{}
	}
	if obs == nil {
		obs = []model.Observation{}
	}
	if meetings == nil {
		meetings = []model.Meeting{}
	}
	return Document{
		Version:      version,
		ExportDate:   at.UTC().Format(time.RFC3339Nano),
		Teachers:     teachers,
		Observations: obs,
		Meetings:     meetings,
	}
}

// Encode writes d as indented JSON.
func Encode(d Document) ([]byte, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return b, nil
}

// Decode parses a backup. The teachers and observations arrays are required;
// meetings may be absent in documents written before meetings existed.
func Decode(data []byte) (Document, error) {
	var raw struct {
		Version      string               `json:"version"`
		ExportDate   json.RawMessage      `json:"exportDate"`
		Teachers     *[]model.Teacher     `json:"teachers"`
		Observations *[]model.Observation `json:"observations"`
		Meetings     []model.Meeting      `json:"meetings"`
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, fmt.Errorf("%w: empty document", ErrInvalidFormat)
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if raw.Teachers == nil {
		return Document{}, fmt.Errorf("%w: missing teachers array", ErrInvalidFormat)
	}
	if raw.Observations == nil {
		return Document{}, fmt.Errorf("%w: missing observations array", ErrInvalidFormat)
	}

	d := Document{
		Version:      raw.Version,
		Teachers:     *raw.Teachers,
		Observations: *raw.Observations,
		Meetings:     raw.Meetings,
	}
	var date string
	if json.Unmarshal(raw.ExportDate, &date) == nil {
		d.ExportDate = date
	}
	if d.Meetings == nil {
		d.Meetings = []model.Meeting{}
	}
	return d, nil
}

// FileName returns the download name of a backup taken at t.
func FileName(t time.Time) string {
	return "Backup_" + t.Format("2006-01-02") + ".json"
}
