package storage

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/kbukum/legalassist/errors"
)

// ReportSuffix is appended to the input file stem to name its report.
const ReportSuffix = "_report.json"

// ReportKey returns the object key of the report for an input file: the
// base name without extension plus ReportSuffix.
func ReportKey(inputPath string) string {
	base := path.Base(strings.ReplaceAll(inputPath, "\\", "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))
	return stem + ReportSuffix
}

// ReportID returns the report id (the input stem) for a report key.
func ReportID(key string) string {
	return strings.TrimSuffix(path.Base(key), ReportSuffix)
}

// Reports persists pipeline reports as indented JSON objects.
type Reports struct {
	backend Backend
}

// NewReports wraps b.
func NewReports(b Backend) *Reports {
	return &Reports{backend: b}
}

// Save writes v under ReportKey(inputPath) and returns the key.
func (r *Reports) Save(ctx context.Context, inputPath string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Internal(err)
	}
	key := ReportKey(inputPath)
	if err := r.backend.Put(ctx, key, data, "application/json"); err != nil {
		return "", errors.Internal(err)
	}
	return key, nil
}

// Load returns the raw JSON of the report with the given id.
func (r *Reports) Load(ctx context.Context, id string) ([]byte, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, errors.NotFound("report", id)
	}
	rc, err := r.backend.Get(ctx, id+ReportSuffix)
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return nil, errors.NotFound("report", id)
		}
		return nil, errors.Internal(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return data, nil
}

// List returns the ids of all stored reports, sorted.
func (r *Reports) List(ctx context.Context) ([]string, error) {
	objects, err := r.backend.List(ctx, "")
	if err != nil {
		return nil, errors.Internal(err)
	}
	ids := make([]string, 0, len(objects))
	for _, o := range objects {
		if strings.HasSuffix(o.Key, ReportSuffix) {
			ids = append(ids, ReportID(o.Key))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Location returns where the report for inputPath lives.
func (r *Reports) Location(inputPath string) string {
	return r.backend.Location(ReportKey(inputPath))
}
