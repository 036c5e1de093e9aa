package document

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"fleetcheck/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixture() *models.Report {
	return &models.Report{
		ID: "4f7c",
		VehicleInfo: models.VehicleInfo{
			PlateNumber: "BE 1234 XY",
			VehicleType: "Toyota Innova",
			DriverName:  "Robby Kurnia",
			DriverNIP:   "199512042025211025",
			KatimName:   "Teguh Budi Hartono,ST.M.Eng",
			KatimNIP:    "197409112005011002",
			Odometer:    "45210",
			FuelLevel:   60,
			Month:       "Oktober",
			Year:        "2026",
		},
		Checks: models.ChecklistData{
			"eng_1": {Week1: models.StatusOK, Week3: models.StatusIssue, Note: "rembes"},
			"int_2": {Week1: models.StatusIssue},
		},
		AdditionalNote: "Segera ganti oli.",
		CreatedAt:      time.Date(2026, 10, 17, 2, 0, 0, 0, time.UTC),
	}
}

func TestFuelLabel(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{-5, "Kosong"},
		{0, "Kosong"},
		{1, "1/4"},
		{25, "1/4"},
		{26, "1/2"},
		{50, "1/2"},
		{51, "3/4"},
		{75, "3/4"},
		{76, "Penuh"},
		{100, "Penuh"},
		{140, "Penuh"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FuelLabel(tt.in), "FuelLabel(%d)", tt.in)
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Baik", StatusLabel(models.StatusOK))
	assert.Equal(t, "Rusak", StatusLabel(models.StatusIssue))
	assert.Equal(t, "-", StatusLabel(models.StatusUnset))
}

func TestLongDate(t *testing.T) {
	// 20:00 UTC is already the next day in WIB.
	assert.Equal(t, "1 Januari 2027", LongDate(time.Date(2026, 12, 31, 20, 0, 0, 0, time.UTC)))
	assert.Equal(t, "17 Oktober 2026", LongDate(fixture().CreatedAt))
	assert.Equal(t, "-", LongDate(time.Time{}))
	assert.Equal(t, "", MonthName(13))
}

func TestGroupsNumberingRestartsPerCategory(t *testing.T) {
	groups := Groups(fixture())
	require.Len(t, groups, 4)

	for i, g := range groups {
		assert.Equal(t, models.Categories()[i], g.Category)
		for j, row := range g.Rows {
			assert.Equal(t, j+1, row.No)
		}
	}

	first := groups[0].Rows[0]
	assert.Equal(t, Row{No: 1, Label: "Oli Mesin (Level & Kondisi)", Week1: "Baik", Week3: "Rusak", Note: "rembes"}, first)

	horn := groups[2].Rows[1]
	assert.Equal(t, "Klakson", horn.Label)
	assert.Equal(t, "Rusak", horn.Week1)
	assert.Equal(t, "-", horn.Week3)
}

func TestRenderHTMLIsDeterministic(t *testing.T) {
	r := fixture()
	a, err := RenderHTML(r)
	require.NoError(t, err)
	b, err := RenderHTML(r)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderHTMLContent(t *testing.T) {
	out, err := RenderHTML(fixture())
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "BALAI PENJAMINAN MUTU PENDIDIKAN")
	assert.Contains(t, page, Title)
	assert.Contains(t, page, "<strong>Toyota Innova</strong>")
	assert.Contains(t, page, "<strong>BE 1234 XY</strong>")
	assert.Contains(t, page, "Oktober 2026")
	assert.Contains(t, page, "45210 KM")
	assert.Contains(t, page, "<td>3/4</td>")
	assert.Contains(t, page, "B. EKSTERIOR &amp; KAKI-KAKI")
	assert.Contains(t, page, "Segera ganti oli.")
	assert.Contains(t, page, "Bandar Lampung, 17 Oktober 2026")
	assert.Contains(t, page, "NIP. 197409112005011002")
	assert.NotContains(t, page, DefaultConclusion)

	// category headers appear in catalog order
	last := -1
	for _, cat := range models.Categories() {
		idx := strings.Index(page, strings.ReplaceAll(cat, "&", "&amp;"))
		require.NotEqual(t, -1, idx, cat)
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestRenderHTMLAllUnset(t *testing.T) {
	r := fixture()
	r.Checks = nil
	r.AdditionalNote = ""

	out, err := RenderHTML(r)
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, DefaultConclusion)
	assert.NotContains(t, page, ">Baik<")
	assert.NotContains(t, page, ">Rusak<")

	dashes := strings.Count(page, `font-size: 7.5pt;">-</td>`)
	assert.Equal(t, 2*len(models.ChecklistItems()), dashes)
}

func TestRenderHTMLEscapesUserText(t *testing.T) {
	r := fixture()
	r.AdditionalNote = `<script>alert("x")</script>`
	out, err := RenderHTML(r)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
	assert.Contains(t, string(out), "&lt;script&gt;")
}

func TestWordDocument(t *testing.T) {
	doc, err := WordDocument(fixture())
	require.NoError(t, err)

	assert.Equal(t, "Checklist_BE 1234 XY_Oktober_2026.doc", doc.Filename)
	assert.Equal(t, ContentTypeWord, doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Body, []byte{0xEF, 0xBB, 0xBF}))

	page, err := RenderHTML(fixture())
	require.NoError(t, err)
	assert.Equal(t, page, doc.Body[3:])

	assert.Equal(t, `attachment; filename="Checklist_BE 1234 XY_Oktober_2026.doc"`, doc.ContentDisposition())
}

func TestBaseFilenameStripsSeparators(t *testing.T) {
	r := fixture()
	r.PlateNumber = `BE/12"34`
	assert.Equal(t, "Checklist_BE-1234_Oktober_2026", BaseFilename(r))
}

func TestHTMLDocument(t *testing.T) {
	doc, err := HTMLDocument(fixture())
	require.NoError(t, err)
	assert.Equal(t, ContentTypeHTML, doc.ContentType)
	assert.True(t, strings.HasSuffix(doc.Filename, ".html"))
	assert.True(t, bytes.HasPrefix(doc.Body, []byte("<!DOCTYPE html>")))
}

func TestWorkbookMatchesTable(t *testing.T) {
	doc, err := Workbook(fixture())
	require.NoError(t, err)
	assert.Equal(t, "Checklist_BE 1234 XY_Oktober_2026.xlsx", doc.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Body))
	require.NoError(t, err)
	defer f.Close()

	cell := func(axis string) string {
		v, err := f.GetCellValue(SheetName, axis)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, Title, cell("A7"))
	assert.Equal(t, "Toyota Innova", cell("B9"))
	assert.Equal(t, "3/4", cell("B11"))
	assert.Equal(t, "No", cell("A13"))
	assert.Equal(t, "A. RUANG MESIN", cell("A14"))
	assert.Equal(t, "1", cell("A15"))
	assert.Equal(t, "Oli Mesin (Level & Kondisi)", cell("B15"))
	assert.Equal(t, "Baik", cell("C15"))
	assert.Equal(t, "Rusak", cell("D15"))
	assert.Equal(t, "rembes", cell("E15"))
	assert.Equal(t, "B. EKSTERIOR & KAKI-KAKI", cell("A21"))
	assert.Equal(t, "1", cell("A22"))
}

func TestCSVExport(t *testing.T) {
	r := fixture()
	doc, err := CSVExport([]models.Report{*r}, time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "fleetcheck_reports_2026-10-17_09-30-00.csv", doc.Filename)
	lines := strings.Split(strings.TrimSpace(string(doc.Body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(CSVHeader, ","), lines[0])
	assert.Contains(t, lines[1], "BE 1234 XY")
	assert.Contains(t, lines[1], ",3/4,2,")
}

func TestShareMessage(t *testing.T) {
	r := fixture()
	assert.Equal(t, "*RANDIS BPMP LAMPUNG*\n*Unit:* Toyota Innova (BE 1234 XY)\n*Status:* ⚠️ 2 Temuan", ShareMessage(r))

	r.Checks = nil
	assert.Contains(t, ShareMessage(r), "✅ Aman")
	assert.True(t, strings.HasPrefix(WhatsAppURL(r), "https://wa.me/?text=%2ARANDIS"))
}
