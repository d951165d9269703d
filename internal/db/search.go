package db

import (
	"strings"

	"github.com/matheustorresii/tour-of-heroes/internal/models"
)

// filterByName keeps the heroes whose name contains term under Unicode case
// folding. Both stores match in Go because SQLite's lower() only folds ASCII.
func filterByName(heroes []models.Hero, term string) []models.Hero {
	needle := strings.ToLower(term)
	out := make([]models.Hero, 0, len(heroes))
	for _, h := range heroes {
		if strings.Contains(strings.ToLower(h.Name), needle) {
			out = append(out, h)
		}
	}
	return out
}
