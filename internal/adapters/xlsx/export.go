// Package xlsx writes profile and survey workbooks and reads survey batches.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// ContentType of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	sheetSummary = "Summary"
	sheetSamples = "Samples"
	sheetSurvey  = "Survey"
)

var sampleHeaders = []interface{}{
	"Index", "Distance (m)", "Lat", "Lon", "Terrain (m)", "Terrain + bulge (m)",
	"LOS (m)", "Fresnel R1 (m)", "Clearance (m)", "Clearance 60% (m)",
}

// WriteProfile writes a Summary sheet and a Samples sheet for one profile.
func WriteProfile(w io.Writer, result *domain.ProfileResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}

	in := result.Input
	s := result.Summary
	rows := [][]interface{}{
		{"Site A", siteLabel(in.A)},
		{"Site A lat", in.A.Lat},
		{"Site A lon", in.A.Lon},
		{"Antenna A (m)", in.AntennaA},
		{"Site B", siteLabel(in.B)},
		{"Site B lat", in.B.Lat},
		{"Site B lon", in.B.Lon},
		{"Antenna B (m)", in.AntennaB},
		{"Frequency (GHz)", in.FreqGHz},
		{"k-factor", in.KFactor},
		{"Step (m)", in.StepMeters},
		{"Elevation provider", result.ElevationProvider},
		{},
		{"Distance (m)", s.DistanceMeters},
		{"Line of sight", verdict(s.LOSOk)},
		{"Fresnel 60%", verdict(s.FresnelOk)},
		{"Min clearance (m)", s.MinClearance},
		{"Min clearance 60% (m)", s.MinClearance60},
		{"Critical point distance (m)", s.CriticalPoint.DistanceMeters},
		{"Critical point lat", s.CriticalPoint.Lat},
		{"Critical point lon", s.CriticalPoint.Lon},
		{"Lift A only (m)", s.RecommendedLift.OnlyA},
		{"Lift B only (m)", s.RecommendedLift.OnlyB},
		{"Lift both (m)", s.RecommendedLift.BothEqual},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	_ = f.SetColWidth(sheetSummary, "A", "A", 28)
	_ = f.SetColWidth(sheetSummary, "B", "B", 22)

	if _, err := f.NewSheet(sheetSamples); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheetSamples)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", sampleHeaders); err != nil {
		return err
	}
	for i, smp := range result.Samples {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			smp.Index, smp.DistanceMeters, smp.Lat, smp.Lon, smp.Terrain, smp.TerrainEff,
			smp.LOS, smp.FresnelR1, smp.Clearance, smp.Clearance60,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

// WriteSurvey writes one row per link outcome.
func WriteSurvey(w io.Writer, report *domain.SurveyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSurvey); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheetSurvey)
	if err != nil {
		return err
	}

	headers := []interface{}{
		"Link", "Status", "Distance (m)", "LOS", "Fresnel 60%", "Min clearance 60% (m)",
		"Critical distance (m)", "Lift A (m)", "Lift B (m)", "Lift both (m)", "Provider", "Error",
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	for i, o := range report.Outcomes {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		var row []interface{}
		if o.Summary == nil {
			row = []interface{}{o.LinkID, "failed", "", "", "", "", "", "", "", "", o.ElevationProvider,
				fmt.Sprintf("%s: %s", o.ErrorCode, o.ErrorMessage)}
		} else {
			s := o.Summary
			status := "obstructed"
			if s.Viable() {
				status = "viable"
			}
			row = []interface{}{o.LinkID, status, s.DistanceMeters, verdict(s.LOSOk), verdict(s.FresnelOk),
				s.MinClearance60, s.CriticalPoint.DistanceMeters, s.RecommendedLift.OnlyA,
				s.RecommendedLift.OnlyB, s.RecommendedLift.BothEqual, o.ElevationProvider, ""}
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write survey: %w", err)
		}
	}

	totalsRow := len(report.Outcomes) + 3
	cell, _ := excelize.CoordinatesToCellName(1, totalsRow)
	if err := sw.SetRow(cell, []interface{}{"Viable", report.Viable, "Obstructed", report.Obstructed, "Failed", report.Failed}); err != nil {
		return err
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

func verdict(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}

func siteLabel(p domain.GeoPoint) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lon)
}
