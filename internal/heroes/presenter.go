// Package heroes holds the display state behind the hero list view.
package heroes

import (
	"context"

	"github.com/matheustorresii/tour-of-heroes/internal/heroservice"
	"github.com/matheustorresii/tour-of-heroes/internal/models"
)

// Lister is the part of the gateway the presenter needs.
type Lister interface {
	GetHeroes(ctx context.Context) heroservice.Result[[]models.Hero]
}

// Presenter keeps a transient copy of the hero list and the current selection.
// It is driven from a single goroutine and does no locking.
type Presenter struct {
	svc      Lister
	heroes   []models.Hero
	selected *models.Hero
}

// NewPresenter creates a Presenter backed by svc.
func NewPresenter(svc Lister) *Presenter {
	return &Presenter{svc: svc}
}

// Activate loads the hero list, replacing whatever was held before.
// Failures have already been reported by the gateway; the list simply ends up empty.
func (p *Presenter) Activate(ctx context.Context) {
	p.heroes = p.svc.GetHeroes(ctx).Value
}

// Select marks hero as the current selection. It is not checked against the list.
func (p *Presenter) Select(hero models.Hero) {
	p.selected = &hero
}

// Heroes returns the held list.
func (p *Presenter) Heroes() []models.Hero {
	return p.heroes
}

// Selected returns the current selection, if any.
func (p *Presenter) Selected() (models.Hero, bool) {
	if p.selected == nil {
		return models.Hero{}, false
	}
	return *p.selected, true
}
