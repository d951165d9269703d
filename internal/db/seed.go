package db

import "github.com/matheustorresii/tour-of-heroes/internal/models"

// DefaultHeroes is the roster a fresh store is seeded with.
var DefaultHeroes = []models.Hero{
	{ID: 11, Name: "Dr Nice"},
	{ID: 12, Name: "Narco"},
	{ID: 13, Name: "Bombasto"},
	{ID: 14, Name: "Celeritas"},
	{ID: 15, Name: "Magneta"},
	{ID: 16, Name: "RubberMan"},
	{ID: 17, Name: "Dynama"},
	{ID: 18, Name: "Dr IQ"},
	{ID: 19, Name: "Magma"},
	{ID: 20, Name: "Tornado"},
}

// firstHeroID is handed out when a store holds no heroes at all.
const firstHeroID = 11
