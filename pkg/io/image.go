package io

import (
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
)

// ReadImage decodes a PNG from r and converts it to the grayscale raster
// the scorer works on. Color inputs go through the standard luminance
// model.
func ReadImage(r io.Reader) (*raster.Raster, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode image")
	}
	return raster.FromImage(img), nil
}

// LoadImage reads a target image from the file at path.
// This is a convenience wrapper around [ReadImage] for file-based input.
func LoadImage(path string) (*raster.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadImage(f)
}
