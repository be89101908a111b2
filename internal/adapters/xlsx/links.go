package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// linkColumns is the expected header of a link sheet, case-insensitive.
var linkColumns = []string{
	"id", "alat", "alon", "blat", "blon", "antennaa", "antennab", "freqghz", "kfactor", "stepmeters",
}

// ReadLinks parses survey links from the first sheet of a workbook. Row 1 is
// a header naming the columns in linkColumns (any order). Blank kFactor and
// stepMeters cells take defaults; a cell holding 0 is kept as 0. Blank
// required cells are reported with their row.
func ReadLinks(r io.Reader, defaults domain.RequestDefaults) ([]domain.LinkCandidate, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheet)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range linkColumns {
		if _, ok := idx[c]; !ok && c != "kfactor" && c != "stepmeters" {
			return nil, fmt.Errorf("sheet %s: missing column %q", sheet, c)
		}
	}

	var links []domain.LinkCandidate
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		line := n + 2
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		vals := make(map[string]*float64, len(linkColumns)-1)
		for _, c := range linkColumns[1:] {
			s := get(c)
			if s == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: column %s: %q is not a number", line, c, s)
			}
			vals[c] = &v
		}

		input := domain.ProfileInput{
			A:          &domain.PointInput{Lat: vals["alat"], Lon: vals["alon"]},
			B:          &domain.PointInput{Lat: vals["blat"], Lon: vals["blon"]},
			AntennaA:   vals["antennaa"],
			AntennaB:   vals["antennab"],
			FreqGHz:    vals["freqghz"],
			KFactor:    vals["kfactor"],
			StepMeters: vals["stepmeters"],
		}
		req, err := input.Resolve(defaults)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		id := get("id")
		if id == "" {
			id = fmt.Sprintf("row-%d", line)
		}
		links = append(links, domain.LinkCandidate{ID: id, Request: req})
	}
	return links, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
