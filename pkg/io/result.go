package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/history"
	"github.com/ckski/Evolution-Tutorials/pkg/poly"
)

// WriteResult encodes a run record as indented JSON and writes it to w.
// The output can be re-imported with [ReadResult] for round-trip
// processing.
func WriteResult(rec *history.Record, w io.Writer) error {
	if rec == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to export")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// ExportResult writes a run record to a JSON file at path.
// This is a convenience wrapper around [WriteResult] for file-based output.
func ExportResult(rec *history.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResult(rec, f)
}

// ReadResult decodes and validates a result document from r. A record that
// comes back is safe to re-render or re-score without further checks.
func ReadResult(r io.Reader) (*history.Record, error) {
	var rec history.Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode result")
	}
	if err := validateRecord(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ImportResult reads a result document from the JSON file at path.
// This is a convenience wrapper around [ReadResult] for file-based input.
func ImportResult(path string) (*history.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadResult(f)
}

func validateRecord(rec *history.Record) error {
	if rec.Width < 1 || rec.Height < 1 {
		return errors.New(errors.ErrCodeInvalidFormat, "result canvas %dx%d is not usable", rec.Width, rec.Height)
	}
	if rec.Score < 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "negative score %v", rec.Score)
	}
	if rec.Solution != "" {
		if _, err := poly.Parse(rec.Solution); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "solution")
		}
	}
	return nil
}
