package progress

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// BackupVersion is written into every backup file. Restore accepts any 1.x.
const BackupVersion = "1.0"

// ErrInvalidBackup means a backup file was rejected. Nothing was changed.
var ErrInvalidBackup = errors.New("invalid backup file")

// Backup is the export file shape.
type Backup struct {
	Version    string        `json:"version"`
	ExportDate time.Time     `json:"exportDate"`
	Data       *UserProgress `json:"data"`
}

//go:embed schema/backup.schema.json
var backupSchemaJSON []byte

var backupSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(backupSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse backup schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	const url = "schema://backup.json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
})

// BackupFileName returns the default export file name for the given day.
func BackupFileName(now time.Time) string {
	return "wheninjapan-backup-" + now.Format("2006-01-02") + ".json"
}

// WriteBackup writes p as an indented backup document.
func WriteBackup(w io.Writer, p *UserProgress, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Backup{
		Version:    BackupVersion,
		ExportDate: now.UTC(),
		Data:       p,
	})
}

// ParseBackup reads and validates a backup document and returns its
// record, unsanitized. Every rejection wraps ErrInvalidBackup.
func ParseBackup(r io.Reader) (*UserProgress, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrInvalidBackup, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %w", ErrInvalidBackup, err)
	}
	schema, err := backupSchema()
	if err != nil {
		return nil, fmt.Errorf("compile backup schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}

	var b struct {
		Version string        `json:"version"`
		Data    *UserProgress `json:"data"`
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	if b.Version == "" || b.Data == nil {
		return nil, fmt.Errorf("%w: version and data are required", ErrInvalidBackup)
	}
	if v := "v" + b.Version; !semver.IsValid(v) || semver.Major(v) != "v1" {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidBackup, b.Version)
	}
	return b.Data, nil
}

// Restore replaces the stored record with the one in the backup read from
// r. The restored record is repaired like a loaded one before saving.
func (s *Store) Restore(ctx context.Context, r io.Reader) (*UserProgress, error) {
	p, err := ParseBackup(r)
	if err != nil {
		return nil, err
	}
	Sanitize(p, s.defaults)
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("progress restored from backup")
	return p, nil
}
