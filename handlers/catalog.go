package handlers

import (
	"net/http"

	"fleetcheck/models"
	"fleetcheck/store"
)

type CatalogHandler struct {
	people *store.PeopleStore
}

func NewCatalogHandler(people *store.PeopleStore) *CatalogHandler {
	return &CatalogHandler{people: people}
}

type CatalogResponse struct {
	Categories []string               `json:"categories"`
	Items      []models.ChecklistItem `json:"items"`
}

type PeopleResponse struct {
	Drivers []models.Person `json:"drivers"`
	Katims  []models.Person `json:"katims"`
}

// Catalog returns the fixed checklist in display order.
func (h *CatalogHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, CatalogResponse{
		Categories: models.Categories(),
		Items:      models.ChecklistItems(),
	})
}

// People returns the driver and team lead directories.
func (h *CatalogHandler) People(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, PeopleResponse{
		Drivers: h.people.Drivers(),
		Katims:  h.people.Katims(),
	})
}
