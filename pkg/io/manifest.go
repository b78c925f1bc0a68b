package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/poly"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
)

// Manifest describes a custom fit target loaded from a TOML file.
// Exactly one of Points and Image carries the shape.
type Manifest struct {
	Name   string  `toml:"name"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Points [][]int `toml:"points"`
	Image  string  `toml:"image"`
}

// ReadManifest decodes and validates a TOML manifest from r.
func ReadManifest(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ImportManifest reads a manifest from the TOML file at path.
// This is a convenience wrapper around [ReadManifest] for file-based input.
func ImportManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadManifest(f)
}

// Validate checks the structural rules a manifest must satisfy before it
// can become a target. Vertex coordinates are deliberately not range
// checked: the rasterizer clamps out-of-canvas points, the same treatment
// candidate geometry gets during the search.
func (m *Manifest) Validate() error {
	if err := errors.ValidateTargetName(m.Name); err != nil {
		return err
	}
	if m.Width < 1 || m.Height < 1 {
		return errors.New(errors.ErrCodeInvalidManifest, "canvas must be at least 1x1, got %dx%d", m.Width, m.Height)
	}
	if m.Width > raster.MaxSide || m.Height > raster.MaxSide {
		return errors.New(errors.ErrCodeInvalidManifest, "canvas %dx%d exceeds the %d pixel limit", m.Width, m.Height, raster.MaxSide)
	}
	if len(m.Points) == 0 && m.Image == "" {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest %q needs points or an image", m.Name)
	}
	if len(m.Points) > 0 && m.Image != "" {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest %q sets both points and image", m.Name)
	}
	for i, pt := range m.Points {
		if len(pt) != 2 {
			return errors.New(errors.ErrCodeInvalidManifest, "point %d: want [x, y], got %d components", i, len(pt))
		}
	}
	if m.Image != "" {
		if err := errors.ValidatePath(m.Image); err != nil {
			return err
		}
	}
	return nil
}

// Polygon converts the manifest's inline vertex list. Image-backed
// manifests have no inline shape and return an error.
func (m *Manifest) Polygon() (poly.Polygon, error) {
	if len(m.Points) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest %q has no inline points", m.Name)
	}
	p := make(poly.Polygon, len(m.Points))
	for i, pt := range m.Points {
		if len(pt) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "point %d: want [x, y], got %d components", i, len(pt))
		}
		p[i] = poly.Point{X: pt[0], Y: pt[1]}
	}
	return p, nil
}

// LoadImage resolves and decodes the image the manifest references,
// relative to baseDir (normally the manifest's own directory). The decoded
// size must match the declared canvas; a mismatch would silently change
// what the search is fitting.
func (m *Manifest) LoadImage(baseDir string) (*raster.Raster, error) {
	if m.Image == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest %q has no image", m.Name)
	}
	if err := errors.ValidatePath(m.Image); err != nil {
		return nil, err
	}
	r, err := LoadImage(filepath.Join(baseDir, m.Image))
	if err != nil {
		return nil, err
	}
	if r.W != m.Width || r.H != m.Height {
		return nil, errors.New(errors.ErrCodeInvalidTarget,
			"image %s is %dx%d, manifest declares %dx%d", m.Image, r.W, r.H, m.Width, m.Height)
	}
	return r, nil
}
