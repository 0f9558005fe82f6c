// Package voices holds the set of speech presets users can pick from.
package voices

import (
	"errors"
	"fmt"
	"sync"

	"videothingy/narrator/models"
)

// ErrUnknownVoice is returned when an id is not in the catalog.
var ErrUnknownVoice = errors.New("unknown voice")

// Catalog is a concurrency-safe, ordered list of voice presets.
// It is replaced wholesale on configuration reload.
type Catalog struct {
	mu     sync.RWMutex
	voices []models.Voice
	byID   map[string]models.Voice
}

// NewCatalog creates a catalog from presets. Order is preserved.
func NewCatalog(presets []models.Voice) *Catalog {
	c := &Catalog{}
	c.Replace(presets)
	return c
}

// Replace swaps the full preset list.
func (c *Catalog) Replace(presets []models.Voice) {
	voices := make([]models.Voice, len(presets))
	copy(voices, presets)
	byID := make(map[string]models.Voice, len(voices))
	for _, v := range voices {
		byID[v.ID] = v
	}

	c.mu.Lock()
	c.voices = voices
	c.byID = byID
	c.mu.Unlock()
}

// Lookup returns the preset with the given id.
func (c *Catalog) Lookup(id string) (models.Voice, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.byID[id]
	if !ok {
		return models.Voice{}, fmt.Errorf("%w: %q", ErrUnknownVoice, id)
	}
	return v, nil
}

// List returns a copy of all presets in display order.
func (c *Catalog) List() []models.Voice {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Voice, len(c.voices))
	copy(out, c.voices)
	return out
}

// Default returns the id of the first preset, or "" for an empty catalog.
func (c *Catalog) Default() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.voices) == 0 {
		return ""
	}
	return c.voices[0].ID
}
