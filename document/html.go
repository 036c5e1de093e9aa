// Package document renders inspection reports into printable and downloadable
// documents.
package document

import (
	"bytes"
	"fmt"
	"html/template"

	"fleetcheck/models"
)

const (
	// LogoURL is the ministry logo shown in the letterhead.
	LogoURL = "https://upload.wikimedia.org/wikipedia/commons/thumb/9/9c/Logo_of_Ministry_of_Education_and_Culture_of_Republic_of_Indonesia.svg/800px-Logo_of_Ministry_of_Education_and_Culture_of_Republic_of_Indonesia.svg.png"

	Title             = "DAFTAR CEK PEMERIKSAAN KENDARAAN OPERASIONAL"
	DefaultConclusion = "Kendaraan dalam kondisi layak jalan secara fungsional."
	SigningCity       = "Bandar Lampung"
)

// Letterhead lines, top to bottom.
var Letterhead = struct {
	Ministry, Office, Province, Address, Contact string
}{
	Ministry: "KEMENTERIAN PENDIDIKAN DASAR DAN MENENGAH",
	Office:   "BALAI PENJAMINAN MUTU PENDIDIKAN",
	Province: "PROVINSI LAMPUNG",
	Address:  "Jl. Gatot Subroto No.44A, Pahoman, Bandar Lampung, Kode Pos 35213",
	Contact:  "Telepon: (0721) 252477 | Laman: bpmp-lampung.kemdikbud.go.id",
}

// Row is one checklist line of the rendered table.
type Row struct {
	No    int
	Label string
	Week1 string
	Week3 string
	Note  string
}

// Group is a category header followed by its rows.
type Group struct {
	Category string
	Rows     []Row
}

// Groups builds the table body: one group per category in catalog order,
// numbering restarting at 1 in each group.
func Groups(r *models.Report) []Group {
	categories := models.Categories()
	groups := make([]Group, 0, len(categories))
	for _, cat := range categories {
		g := Group{Category: cat}
		for i, item := range models.ItemsIn(cat) {
			check := r.Check(item.ID)
			g.Rows = append(g.Rows, Row{
				No:    i + 1,
				Label: item.Label,
				Week1: StatusLabel(check.Week1),
				Week3: StatusLabel(check.Week3),
				Note:  check.Note,
			})
		}
		groups = append(groups, g)
	}
	return groups
}

// Conclusion returns the narrative note or the default sentence.
func Conclusion(r *models.Report) string {
	if r.AdditionalNote == "" {
		return DefaultConclusion
	}
	return r.AdditionalNote
}

type pageData struct {
	LogoURL    string
	Head       interface{}
	Title      string
	Report     *models.Report
	FuelLabel  string
	Groups     []Group
	Conclusion string
	City       string
	SignedOn   string
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html><html><head><meta charset='utf-8'>
    <style>
      @page { size: 215.9mm 330.2mm; margin: 8mm 12mm; }
      body { font-family: 'Times New Roman', serif; font-size: 8.5pt; color: #000; line-height: 1.1; margin: 0; padding: 0; }
      .kop-surat { display: table; width: 100%; border-bottom: 2.5pt double black; padding-bottom: 5px; margin-bottom: 10px; }
      .kop-logo { display: table-cell; vertical-align: middle; width: 70px; }
      .kop-logo img { width: 65px; height: auto; }
      .kop-text { display: table-cell; vertical-align: middle; text-align: center; }
      .kop-text h2 { margin: 0; font-size: 11pt; text-transform: uppercase; font-weight: bold; }
      .kop-text h1 { margin: 0; font-size: 13pt; text-transform: uppercase; font-weight: bold; }
      .kop-text p { margin: 1px 0 0 0; font-size: 8pt; }
      .title { text-align: center; font-weight: bold; font-size: 10.5pt; text-decoration: underline; margin-bottom: 10px; text-transform: uppercase; }
      table { width: 100%; border-collapse: collapse; margin-bottom: 5px; }
      th { background: #E5E5E5; border: 0.5pt solid black; padding: 2px; font-size: 8pt; text-align: center; }
      td { border: 0.5pt solid black; vertical-align: middle; }
      .info-table td { border: none; padding: 1px; font-size: 8.5pt; }
      .sig-table { margin-top: 15px; width: 100%; }
      .sig-table td { border: none; text-align: center; width: 50%; padding-top: 0; font-size: 9pt; vertical-align: top; }
      .conclusion { border: 0.5pt solid black; padding: 5px; margin-top: 3px; font-size: 8pt; min-height: 40px; }
      .label-box { font-weight: bold; font-size: 8.5pt; margin-top: 5px; }
    </style>
  </head><body>
    <div class="kop-surat">
      <div class="kop-logo">
        <img src="{{.LogoURL}}" alt="Logo">
      </div>
      <div class="kop-text">
        <h2>{{.Head.Ministry}}</h2>
        <h1>{{.Head.Office}}</h1>
        <h2>{{.Head.Province}}</h2>
        <p>{{.Head.Address}}</p>
        <p>{{.Head.Contact}}</p>
      </div>
    </div>

    <div class="title">{{.Title}}</div>

    <table class="info-table">
      <tr>
        <td width="18%">Jenis Kendaraan</td><td width="2%">:</td><td width="30%"><strong>{{.Report.VehicleType}}</strong></td>
        <td width="18%">No. Polisi</td><td width="2%">:</td><td width="30%"><strong>{{.Report.PlateNumber}}</strong></td>
      </tr>
      <tr>
        <td>Periode Bulan</td><td>:</td><td>{{.Report.Month}} {{.Report.Year}}</td>
        <td>Odometer</td><td>:</td><td>{{.Report.Odometer}} KM</td>
      </tr>
      <tr>
        <td>Bahan Bakar</td><td>:</td><td>{{.FuelLabel}}</td>
        <td>Pemeriksa</td><td>:</td><td>{{.Report.DriverName}}</td>
      </tr>
    </table>

    <table>
      <thead>
        <tr>
          <th width="3%">No</th>
          <th width="32%">Komponen Pemeriksaan</th>
          <th width="10%">Minggu I</th>
          <th width="10%">Minggu III</th>
          <th width="45%">Hasil Temuan / Keterangan Khusus</th>
        </tr>
      </thead>
      <tbody>{{range .Groups}}<tr style="background:#F0F0F0;"><td colspan="5" style="border:0.5pt solid black; font-weight:bold; font-size: 7.5pt; padding: 1px 5px;">{{.Category}}</td></tr>{{range .Rows}}<tr>
        <td style="border:0.5pt solid black; text-align:center; padding: 1px; font-size: 7.5pt;">{{.No}}</td>
        <td style="border:0.5pt solid black; padding: 1px 3px; font-size: 7.5pt;">{{.Label}}</td>
        <td style="border:0.5pt solid black; text-align:center; padding: 1px; font-size: 7.5pt;">{{.Week1}}</td>
        <td style="border:0.5pt solid black; text-align:center; padding: 1px; font-size: 7.5pt;">{{.Week3}}</td>
        <td style="border:0.5pt solid black; padding: 1px 3px; font-size: 6.5pt;">{{.Note}}</td>
      </tr>{{end}}{{end}}</tbody>
    </table>

    <div class="label-box">Kesimpulan &amp; Saran Tindak Lanjut:</div>
    <div class="conclusion">{{.Conclusion}}</div>

    <table class="sig-table">
      <tr>
        <td>
          Mengetahui,<br/>Ketua Tim RTPK<br/><br/><br/><br/><br/>
          <strong>{{.Report.KatimName}}</strong><br/>
          NIP. {{.Report.KatimNIP}}
        </td>
        <td>
          {{.City}}, {{.SignedOn}}<br/>
          Pemeriksa / Driver<br/><br/><br/><br/><br/>
          <strong>{{.Report.DriverName}}</strong><br/>
          NIP. {{.Report.DriverNIP}}
        </td>
      </tr>
    </table>
  </body></html>`))

// RenderHTML renders r into the fixed-layout printable page. The output
// depends only on r and the catalog.
func RenderHTML(r *models.Report) ([]byte, error) {
	data := pageData{
		LogoURL:    LogoURL,
		Head:       Letterhead,
		Title:      Title,
		Report:     r,
		FuelLabel:  FuelLabel(r.FuelLevel),
		Groups:     Groups(r),
		Conclusion: Conclusion(r),
		City:       SigningCity,
		SignedOn:   LongDate(r.CreatedAt),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render report %s: %w", r.ID, err)
	}
	return buf.Bytes(), nil
}
