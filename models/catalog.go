package models

// ChecklistItem is one entry of the fixed inspection catalog.
type ChecklistItem struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Label    string `json:"label"`
}

var checklistItems = []ChecklistItem{
	{ID: "eng_1", Category: "A. RUANG MESIN", Label: "Oli Mesin (Level & Kondisi)"},
	{ID: "eng_2", Category: "A. RUANG MESIN", Label: "Air Radiator / Coolant"},
	{ID: "eng_3", Category: "A. RUANG MESIN", Label: "Minyak Rem & Power Steering"},
	{ID: "eng_4", Category: "A. RUANG MESIN", Label: "Air Wiper"},
	{ID: "eng_5", Category: "A. RUANG MESIN", Label: "Kondisi Aki (Accu)"},
	{ID: "eng_6", Category: "A. RUANG MESIN", Label: "Fan Belt / Tali Kipas"},
	{ID: "ext_1", Category: "B. EKSTERIOR & KAKI-KAKI", Label: "Tekanan Angin Ban (4 Roda)"},
	{ID: "ext_2", Category: "B. EKSTERIOR & KAKI-KAKI", Label: "Fisik Ban & Ban Serep"},
	{ID: "ext_3", Category: "B. EKSTERIOR & KAKI-KAKI", Label: "Lampu Utama & Jauh"},
	{ID: "ext_4", Category: "B. EKSTERIOR & KAKI-KAKI", Label: "Lampu Sein & Rem"},
	{ID: "ext_5", Category: "B. EKSTERIOR & KAKI-KAKI", Label: "Spion & Wiper Blade"},
	{ID: "ext_6", Category: "B. EKSTERIOR & KAKI-KAKI", Label: "Body (Baret/Penyok)"},
	{ID: "int_1", Category: "C. INTERIOR", Label: "Fungsi AC (Pendingin)"},
	{ID: "int_2", Category: "C. INTERIOR", Label: "Klakson"},
	{ID: "int_3", Category: "C. INTERIOR", Label: "Indikator Dashboard"},
	{ID: "int_4", Category: "C. INTERIOR", Label: "Kebersihan Kabin"},
	{ID: "doc_1", Category: "D. DOKUMEN & PERALATAN", Label: "Masa STNK & Pajak"},
	{ID: "doc_2", Category: "D. DOKUMEN & PERALATAN", Label: "Dongkrak & Kunci Roda"},
	{ID: "doc_3", Category: "D. DOKUMEN & PERALATAN", Label: "Kotak P3K"},
}

var categories = distinctCategories(checklistItems)

// PredefinedDrivers and PredefinedKatims are always offered by the people directory.
var (
	PredefinedDrivers = []Person{
		{Name: "Robby Kurnia", NIP: "199512042025211025"},
	}
	PredefinedKatims = []Person{
		{Name: "Teguh Budi Hartono,ST.M.Eng", NIP: "197409112005011002"},
	}
)

// ChecklistItems returns a copy of the catalog in display order.
func ChecklistItems() []ChecklistItem {
	out := make([]ChecklistItem, len(checklistItems))
	copy(out, checklistItems)
	return out
}

// Categories returns the distinct category labels in first-occurrence order.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// ItemsIn returns the items of one category in catalog order.
func ItemsIn(category string) []ChecklistItem {
	var out []ChecklistItem
	for _, item := range checklistItems {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// LookupItem finds a catalog item by id.
func LookupItem(id string) (ChecklistItem, bool) {
	for _, item := range checklistItems {
		if item.ID == id {
			return item, true
		}
	}
	return ChecklistItem{}, false
}

func distinctCategories(items []ChecklistItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}
