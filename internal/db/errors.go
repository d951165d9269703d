package db

import "errors"

// Shared DB errors used across implementations
var (
	ErrHeroNotFound = errors.New("hero not found")
	ErrInvalidHero  = errors.New("hero name cannot be empty")
)
