package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	shapeio "github.com/ckski/Evolution-Tutorials/pkg/io"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
	"github.com/ckski/Evolution-Tutorials/pkg/render"
)

// IsBuiltin reports whether name refers to a builtin target.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// ResolveTarget turns the target reference in opts into the raster the
// search fits.
//
// Builtin names rasterize their polygon on the requested canvas. Manifest
// paths (.toml) resolve their inline points or image reference, with the
// manifest's declared size winning over the options. Image paths (.png)
// load at their native size.
func ResolveTarget(ctx context.Context, opts Options) (*raster.Raster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.ValidateForTarget(); err != nil {
		return nil, err
	}
	if opts.Backend == "" {
		opts.Backend = render.BackendVector
	}

	if IsBuiltin(opts.Target) {
		return renderBuiltin(opts)
	}

	switch strings.ToLower(filepath.Ext(opts.Target)) {
	case ".toml":
		return resolveManifest(opts.Target, opts.Backend)
	case ".png":
		return shapeio.LoadImage(opts.Target)
	default:
		return nil, errors.New(errors.ErrCodeTargetNotFound,
			"unknown target %q (builtin: %s, or a .toml/.png path)",
			opts.Target, strings.Join(Builtins(), ", "))
	}
}

func renderBuiltin(opts Options) (*raster.Raster, error) {
	p, _ := BuiltinPolygon(opts.Target)
	ras, err := render.New(opts.Backend, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	return ras.Rasterize(p)
}

func resolveManifest(path, backend string) (*raster.Raster, error) {
	m, err := shapeio.ImportManifest(path)
	if err != nil {
		return nil, err
	}
	if m.Image != "" {
		return m.LoadImage(filepath.Dir(path))
	}
	p, err := m.Polygon()
	if err != nil {
		return nil, err
	}
	ras, err := render.New(backend, m.Width, m.Height)
	if err != nil {
		return nil, err
	}
	return ras.Rasterize(p)
}
