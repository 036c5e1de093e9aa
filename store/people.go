package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fleetcheck/db"
	"fleetcheck/models"

	"github.com/apex/log"
)

// PeopleStore offers the driver and team lead directories: the compiled-in
// people followed by the custom ones learned from saved reports.
type PeopleStore struct {
	kv db.KV

	mu      sync.RWMutex
	drivers []models.Person
	katims  []models.Person
}

func NewPeopleStore(kv db.KV) *PeopleStore {
	return &PeopleStore{kv: kv}
}

// Load reads both custom lists. Unreadable lists start empty.
func (p *PeopleStore) Load(ctx context.Context) error {
	drivers, err := p.loadList(ctx, CustomDriversKey)
	if err != nil {
		return err
	}
	katims, err := p.loadList(ctx, CustomKatimsKey)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.drivers, p.katims = drivers, katims
	p.mu.Unlock()
	return nil
}

func (p *PeopleStore) loadList(ctx context.Context, key string) ([]models.Person, error) {
	raw, err := p.kv.Get(ctx, key)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	var people []models.Person
	if err := json.Unmarshal(raw, &people); err != nil {
		log.WithError(err).WithField("key", key).Warn("⚠️  Stored people list is malformed, starting empty")
		return nil, nil
	}
	return people, nil
}

// Drivers returns predefined drivers followed by custom ones.
func (p *PeopleStore) Drivers() []models.Person {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append(append([]models.Person{}, models.PredefinedDrivers...), p.drivers...)
}

// Katims returns predefined team leads followed by custom ones.
func (p *PeopleStore) Katims() []models.Person {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append(append([]models.Person{}, models.PredefinedKatims...), p.katims...)
}

// Remember adds the driver and team lead to the custom lists when their
// names are not known yet. Blank names are skipped.
func (p *PeopleStore) Remember(ctx context.Context, driver, katim models.Person) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if next, added := addPerson(p.drivers, models.PredefinedDrivers, driver); added {
		if err := db.SetJSON(ctx, p.kv, CustomDriversKey, next); err != nil {
			return err
		}
		p.drivers = next
		log.WithField("name", driver.Name).Info("👤 New driver remembered")
	}
	if next, added := addPerson(p.katims, models.PredefinedKatims, katim); added {
		if err := db.SetJSON(ctx, p.kv, CustomKatimsKey, next); err != nil {
			return err
		}
		p.katims = next
		log.WithField("name", katim.Name).Info("👤 New team lead remembered")
	}
	return nil
}

// addPerson appends person unless the same name and NIP pair is already
// known, so a corrected NIP for an existing name is kept as a new entry.
func addPerson(custom, predefined []models.Person, person models.Person) ([]models.Person, bool) {
	person.Name = strings.TrimSpace(person.Name)
	person.NIP = strings.TrimSpace(person.NIP)
	if person.Name == "" {
		return custom, false
	}
	for _, known := range predefined {
		if known == person {
			return custom, false
		}
	}
	for _, known := range custom {
		if known == person {
			return custom, false
		}
	}
	next := make([]models.Person, 0, len(custom)+1)
	next = append(next, custom...)
	return append(next, person), true
}
