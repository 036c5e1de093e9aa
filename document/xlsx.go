package document

import (
	"fmt"

	"fleetcheck/models"

	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	SheetName       = "Checklist"
)

// Workbook renders the same header, info block, table and conclusion as
// RenderHTML into a real spreadsheet.
func Workbook(r *models.Report) (Artifact, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return Artifact{}, fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to create style: %w", err)
	}
	groupStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F0F0F0"}},
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to create style: %w", err)
	}

	w := &sheetWriter{f: f, sheet: SheetName}

	w.line(bold, Letterhead.Ministry)
	w.line(bold, Letterhead.Office)
	w.line(bold, Letterhead.Province)
	w.line(0, Letterhead.Address)
	w.line(0, Letterhead.Contact)
	w.skip()
	w.line(bold, Title)
	w.skip()

	w.row(0, "Jenis Kendaraan", r.VehicleType, "No. Polisi", r.PlateNumber)
	w.row(0, "Periode Bulan", r.Month+" "+r.Year, "Odometer", r.Odometer+" KM")
	w.row(0, "Bahan Bakar", FuelLabel(r.FuelLevel), "Pemeriksa", r.DriverName)
	w.skip()

	w.row(bold, "No", "Komponen Pemeriksaan", "Minggu I", "Minggu III", "Hasil Temuan / Keterangan Khusus")
	for _, g := range Groups(r) {
		w.row(groupStyle, g.Category)
		for _, row := range g.Rows {
			w.row(0, row.No, row.Label, row.Week1, row.Week3, row.Note)
		}
	}
	w.skip()

	w.line(bold, "Kesimpulan & Saran Tindak Lanjut:")
	w.line(0, Conclusion(r))
	w.skip()

	w.row(0, "Mengetahui, Ketua Tim RTPK", SigningCity+", "+LongDate(r.CreatedAt))
	w.row(bold, r.KatimName, r.DriverName)
	w.row(0, "NIP. "+r.KatimNIP, "NIP. "+r.DriverNIP)

	if w.err != nil {
		return Artifact{}, fmt.Errorf("failed to fill sheet: %w", w.err)
	}

	if err := f.SetColWidth(SheetName, "A", "A", 6); err != nil {
		return Artifact{}, err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 36); err != nil {
		return Artifact{}, err
	}
	if err := f.SetColWidth(SheetName, "E", "E", 45); err != nil {
		return Artifact{}, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to write workbook: %w", err)
	}
	return Artifact{
		Filename:    BaseFilename(r) + ".xlsx",
		ContentType: ContentTypeXLSX,
		Body:        buf.Bytes(),
	}, nil
}

// sheetWriter appends rows top to bottom and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
	err   error
}

func (w *sheetWriter) skip() {
	w.next++
}

func (w *sheetWriter) line(style int, text string) {
	w.row(style, text)
}

func (w *sheetWriter) row(style int, values ...interface{}) {
	w.next++
	if w.err != nil {
		return
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.next)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
			w.err = err
			return
		}
	}
	if style != 0 {
		first, _ := excelize.CoordinatesToCellName(1, w.next)
		last, _ := excelize.CoordinatesToCellName(len(values), w.next)
		if err := w.f.SetCellStyle(w.sheet, first, last, style); err != nil {
			w.err = err
		}
	}
}
