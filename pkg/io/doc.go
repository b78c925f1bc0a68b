// Package io provides file import and export for fit targets and results.
//
// # Overview
//
// This package handles the three on-disk formats the tool exchanges with
// users and external pipelines:
//
//   - TOML target manifests describing a custom shape to fit
//   - JSON result documents produced by a finished search
//   - PNG images used directly as fit targets
//
// All readers validate what they decode; a manifest or result that parses
// but violates a structural rule is rejected with a coded error rather than
// carried forward into the search.
//
// # Manifest Format
//
// A manifest names a target and declares the canvas size. The shape comes
// either from an inline vertex list or from a PNG image next to the
// manifest file:
//
//	name = "hourglass"
//	width = 12
//	height = 12
//	points = [[2, 2], [9, 2], [2, 9], [9, 9]]
//
// or, image-backed:
//
//	name = "scan"
//	width = 12
//	height = 12
//	image = "scan.png"
//
// Exactly one of points and image must be set. Vertices may lie outside the
// canvas; the rasterizer clamps them into the pixel domain, matching how
// the search treats candidate geometry. Image paths are relative to the
// manifest file and may not escape its directory.
//
// # Result Format
//
// Results are [history.Record] documents encoded as indented JSON. The
// solution polygon is stored in its text notation ("x,y x,y ..."), so a
// result file is both machine-readable and easy to eyeball:
//
//	{
//	  "id": "3f1c...",
//	  "target": "star",
//	  "width": 12,
//	  "height": 12,
//	  "solution": "6,1 3,11 11,5 1,5 9,11",
//	  "score": 0,
//	  "trials": 17
//	}
//
// Use [ExportResult] to write a record to a file, or [WriteResult] for any
// io.Writer. [ImportResult] and [ReadResult] reverse the trip and validate
// the document, so a re-imported result can be re-rendered or re-scored
// without further checks.
//
// # Images
//
// [ReadImage] decodes a PNG and converts it to the 8-bit grayscale raster
// the scorer works on. [Manifest.LoadImage] resolves a manifest's image
// reference and enforces that the decoded dimensions match the declared
// canvas, since a size mismatch would silently change what the search is
// fitting.
package io
