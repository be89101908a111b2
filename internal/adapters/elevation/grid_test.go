package elevation

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

var oneDegree = GridLayout{CellsPerDegree: 1}

// writeGrid creates a 1-degree grid where each cell holds row*10 - col.
func writeGrid(t *testing.T, layout GridLayout) string {
	t.Helper()
	buf := make([]byte, layout.Size())
	for row := 0; row < layout.Rows(); row++ {
		for col := 0; col < layout.Cols(); col++ {
			v := int16(row*10 - col)
			off := (row*layout.Cols() + col) * 2
			binary.LittleEndian.PutUint16(buf[off:], uint16(v))
		}
	}
	path := filepath.Join(t.TempDir(), "grid.bin")
	require.NoError(t, os.WriteFile(path, buf, 0o600))
	return path
}

func TestETOPO1Layout(t *testing.T) {
	assert.Equal(t, 10801, ETOPO1.Rows())
	assert.Equal(t, 21601, ETOPO1.Cols())
	assert.Equal(t, int64(10801*21601*2), ETOPO1.Size())
}

func TestGrid_Resolve(t *testing.T) {
	g, err := OpenGrid(writeGrid(t, oneDegree), oneDegree)
	require.NoError(t, err)
	defer g.Close()

	points := []domain.GeoPoint{
		{Lat: 90, Lon: -180},   // row 0, col 0
		{Lat: 43.2, Lon: -2.9}, // row 47, col 177
		{Lat: -90, Lon: 180},   // row 180, col 360
	}
	elevations, err := g.Resolve(context.Background(), points)
	require.NoError(t, err)

	assert.Equal(t, 0.0, elevations[0].Elevation)
	assert.Equal(t, float64(47*10-177), elevations[1].Elevation)
	assert.Equal(t, float64(180*10-360), elevations[2].Elevation)
	assert.Equal(t, 43.2, elevations[1].Lat)
}

func TestGrid_OutOfBounds(t *testing.T) {
	g, err := OpenGrid(writeGrid(t, oneDegree), oneDegree)
	require.NoError(t, err)
	defer g.Close()

	_, err = g.Resolve(context.Background(), []domain.GeoPoint{{Lat: 95, Lon: 0}})
	assert.Equal(t, domain.CodeElevation, domain.CodeOf(err))
}

func TestOpenGrid_WrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 10), 0o600))

	_, err := OpenGrid(path, oneDegree)
	assert.ErrorContains(t, err, "invalid grid file size")
}
