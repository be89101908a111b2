package elevation

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// GridLayout describes a global, node-registered int16 grid stored row-major
// from north to south and west to east.
type GridLayout struct {
	CellsPerDegree int
}

// ETOPO1 is the 1 arc-minute global relief grid (10801 x 21601).
var ETOPO1 = GridLayout{CellsPerDegree: 60}

func (l GridLayout) Rows() int { return 180*l.CellsPerDegree + 1 }
func (l GridLayout) Cols() int { return 360*l.CellsPerDegree + 1 }

// Size is the expected file size in bytes.
func (l GridLayout) Size() int64 { return int64(l.Rows()) * int64(l.Cols()) * 2 }

func (l GridLayout) offset(lat, lon float64) int64 {
	cpd := float64(l.CellsPerDegree)
	row := int(math.Round((90.0 - lat) * cpd))
	col := int(math.Round((lon + 180.0) * cpd))
	if row >= l.Rows() {
		row = l.Rows() - 1
	}
	if col >= l.Cols() {
		col %= l.Cols()
	}
	return (int64(row)*int64(l.Cols()) + int64(col)) * 2
}

// Grid implements ports.ElevationProvider over a local binary DEM file.
type Grid struct {
	file   *os.File
	layout GridLayout
}

// OpenGrid opens a grid file and checks its size against layout.
func OpenGrid(path string, layout GridLayout) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grid: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat grid: %w", err)
	}
	if info.Size() != layout.Size() {
		f.Close()
		return nil, fmt.Errorf("invalid grid file size: expected %d, got %d", layout.Size(), info.Size())
	}

	return &Grid{file: f, layout: layout}, nil
}

func (g *Grid) Name() string { return "grid" }

// Close releases the file handle.
func (g *Grid) Close() error {
	return g.file.Close()
}

// Resolve reads one cell per point. ReadAt is safe for concurrent use.
func (g *Grid) Resolve(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationPoint, error) {
	out := make([]domain.ElevationPoint, len(points))
	buf := make([]byte, 2)
	for i, p := range points {
		if i%512 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, domain.ElevationError(err, "grid lookup cancelled")
			}
		}
		if !p.Valid() {
			return nil, domain.ElevationError(nil, "coordinates out of grid bounds: %f, %f", p.Lat, p.Lon)
		}
		if _, err := g.file.ReadAt(buf, g.layout.offset(p.Lat, p.Lon)); err != nil {
			return nil, domain.ElevationError(err, "read grid cell at %.5f,%.5f", p.Lat, p.Lon)
		}
		out[i] = domain.ElevationPoint{
			Lat:       p.Lat,
			Lon:       p.Lon,
			Elevation: float64(int16(binary.LittleEndian.Uint16(buf))),
		}
	}
	return out, nil
}
