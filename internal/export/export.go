// Package export writes lap lists to JSON documents and reads them back for
// display and comparison. Exports are never loaded into a running stopwatch.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/lapwatch/internal/format"
	"github.com/alexander-akhmetov/lapwatch/internal/stopwatch"
)

// FormatVersion is written to every export as "version".
const FormatVersion = 1

// ErrInvalidExport is returned for data that is not a lapwatch export.
var ErrInvalidExport = errors.New("invalid lap export")

// Document is one exported lap list.
type Document struct {
	SessionID  string
	ExportedAt time.Time
	Final      time.Duration
	Running    bool
	Laps       []time.Duration
}

// FromState builds a Document from a stopwatch snapshot.
func FromState(sessionID string, at time.Time, state stopwatch.State) Document {
	laps := make([]time.Duration, len(state.Laps))
	copy(laps, state.Laps)
	return Document{
		SessionID:  sessionID,
		ExportedAt: at,
		Final:      state.Lapse,
		Running:    state.Running,
		Laps:       laps,
	}
}

// FileName returns the default file name for doc: YYYYMMDD-HHMMSS-<session>.json.
func (d Document) FileName() string {
	id := d.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		id = "session"
	}
	return fmt.Sprintf("%s-%s.json", d.ExportedAt.Format("20060102-150405"), id)
}

// Marshal encodes doc as compact JSON.
func Marshal(d Document) ([]byte, error) {
	data := []byte(`{}`)
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		data, err = sjson.SetBytes(data, path, value)
	}

	set("version", FormatVersion)
	set("session", d.SessionID)
	set("exported_at", d.ExportedAt.UTC().Format(time.RFC3339Nano))
	set("final.ms", d.Final.Milliseconds())
	set("final.time", format.Clock(d.Final))
	set("running", d.Running)
	if err == nil {
		data, err = sjson.SetRawBytes(data, "laps", []byte(`[]`))
	}
	for i, lap := range d.Laps {
		set("laps.-1", map[string]any{
			"n":    i + 1,
			"ms":   lap.Milliseconds(),
			"time": format.Clock(lap),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// Parse decodes an export produced by Marshal.
func Parse(data []byte) (Document, error) {
	if !gjson.ValidBytes(data) {
		return Document{}, fmt.Errorf("%w: not JSON", ErrInvalidExport)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Document{}, fmt.Errorf("%w: not an object", ErrInvalidExport)
	}
	if v := root.Get("version").Int(); v != FormatVersion {
		return Document{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidExport, v)
	}

	lapsRes := root.Get("laps")
	if lapsRes.Exists() && !lapsRes.IsArray() {
		return Document{}, fmt.Errorf("%w: laps is not an array", ErrInvalidExport)
	}

	d := Document{
		SessionID: root.Get("session").String(),
		Final:     time.Duration(root.Get("final.ms").Int()) * time.Millisecond,
		Running:   root.Get("running").Bool(),
	}
	if at := root.Get("exported_at").String(); at != "" {
		t, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return Document{}, fmt.Errorf("%w: exported_at: %v", ErrInvalidExport, err)
		}
		d.ExportedAt = t
	}
	for _, lap := range lapsRes.Array() {
		d.Laps = append(d.Laps, time.Duration(lap.Get("ms").Int())*time.Millisecond)
	}
	return d, nil
}

// Write stores doc as indented JSON at path, creating parent directories.
func Write(path string, d Document) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, pretty.Pretty(data), 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Read loads and parses the export at path.
func Read(path string) (Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied export path
	if err != nil {
		return Document{}, fmt.Errorf("read export: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
