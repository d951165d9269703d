package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/matheustorresii/tour-of-heroes/internal/models"
)

// SQLiteDB is a persistent hero store backed by SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) an SQLite database at the given DSN and runs migrations.
// Example DSN: "file:heroes.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
func NewSQLiteDB(dsn string) (*SQLiteDB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes id minting.
	sqldb.SetMaxOpenConns(1)
	if err := sqldb.Ping(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SQLiteDB{db: sqldb}
	if err := s.migrate(context.Background()); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS heroes (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_heroes_name ON heroes(name);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Seed inserts the given heroes unless a row with the same id already exists.
func (s *SQLiteDB) Seed(heroes []models.Hero) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, h := range heroes {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO heroes(id, name) VALUES(?, ?)`, h.ID, h.Name); err != nil {
			return fmt.Errorf("seed hero %d: %w", h.ID, err)
		}
	}
	return tx.Commit()
}

// CreateHero stores a new hero and returns it with its freshly minted id.
func (s *SQLiteDB) CreateHero(h models.Hero) (models.Hero, error) {
	if strings.TrimSpace(h.Name) == "" {
		return models.Hero{}, ErrInvalidHero
	}
	res, err := s.db.Exec(
		`INSERT INTO heroes(id, name) VALUES((SELECT COALESCE(MAX(id), ?) + 1 FROM heroes), ?)`,
		firstHeroID-1, h.Name,
	)
	if err != nil {
		return models.Hero{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Hero{}, err
	}
	h.ID = int(id)
	return h, nil
}

func (s *SQLiteDB) GetHero(id int) (models.Hero, error) {
	row := s.db.QueryRow(`SELECT id, name FROM heroes WHERE id = ?`, id)
	var h models.Hero
	if err := row.Scan(&h.ID, &h.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Hero{}, ErrHeroNotFound
		}
		return models.Hero{}, err
	}
	return h, nil
}

func (s *SQLiteDB) ListHeroes() ([]models.Hero, error) {
	return s.queryHeroes(`SELECT id, name FROM heroes ORDER BY id ASC`)
}

// SearchHeroes returns heroes whose name contains term, ignoring case.
func (s *SQLiteDB) SearchHeroes(term string) ([]models.Hero, error) {
	all, err := s.ListHeroes()
	if err != nil {
		return nil, err
	}
	return filterByName(all, term), nil
}

func (s *SQLiteDB) queryHeroes(query string, args ...any) ([]models.Hero, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Hero{}
	for rows.Next() {
		var h models.Hero
		if err := rows.Scan(&h.ID, &h.Name); err != nil {
			return nil, err
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

// UpdateHero replaces the name of the hero with h.ID.
func (s *SQLiteDB) UpdateHero(h models.Hero) (models.Hero, error) {
	if strings.TrimSpace(h.Name) == "" {
		return models.Hero{}, ErrInvalidHero
	}
	res, err := s.db.Exec(`UPDATE heroes SET name = ? WHERE id = ?`, h.Name, h.ID)
	if err != nil {
		return models.Hero{}, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return models.Hero{}, ErrHeroNotFound
	}
	return h, nil
}

// DeleteHero removes the hero and returns the record as it was stored.
func (s *SQLiteDB) DeleteHero(id int) (models.Hero, error) {
	h, err := s.GetHero(id)
	if err != nil {
		return models.Hero{}, err
	}
	res, err := s.db.Exec(`DELETE FROM heroes WHERE id = ?`, id)
	if err != nil {
		return models.Hero{}, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return models.Hero{}, ErrHeroNotFound
	}
	return h, nil
}
