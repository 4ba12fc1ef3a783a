package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mwi/internal/core"
)

// CreateLand inserts a new land. The land name is unique; a duplicate
// name surfaces as a KindIntegrityViolation error.
func (s *Store) CreateLand(ctx context.Context, name, description string, lang []string) (core.Land, error) {
	if name == "" {
		return core.Land{}, core.NewError("store.CreateLand", core.KindInvalidInput, fmt.Errorf("name is required"))
	}
	langJSON, err := json.Marshal(lang)
	if err != nil {
		return core.Land{}, core.NewError("store.CreateLand", core.KindInvalidInput, err)
	}
	createdAt := time.Now().UTC()

	var id int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO lands (name, description, lang, created_at) VALUES (?, ?, ?, ?)`,
			name, description, string(langJSON), createdAt)
		if err != nil {
			return core.NewError("store.CreateLand", core.KindIntegrityViolation, err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return core.Land{}, err
	}
	return core.Land{ID: id, Name: name, Description: description, Lang: lang, CreatedAt: createdAt}, nil
}

// GetLandByName looks up a land by its unique name.
func (s *Store) GetLandByName(ctx context.Context, name string) (core.Land, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, lang, created_at FROM lands WHERE name = ?`, name)
	return scanLand(row)
}

// GetLand looks up a land by id.
func (s *Store) GetLand(ctx context.Context, id int64) (core.Land, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, lang, created_at FROM lands WHERE id = ?`, id)
	return scanLand(row)
}

// ListLands returns every land, ordered by name.
func (s *Store) ListLands(ctx context.Context) ([]core.Land, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, lang, created_at FROM lands ORDER BY name`)
	if err != nil {
		return nil, core.NewError("store.ListLands", core.KindSchemaError, err)
	}
	defer rows.Close()

	var out []core.Land
	for rows.Next() {
		l, err := scanLandRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// DeleteLand removes a land and, via ON DELETE CASCADE, every
// expression, link, dictionary entry, tag, paragraph, embedding and
// similarity row that belongs to it.
func (s *Store) DeleteLand(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM lands WHERE id = ?`, id)
		if err != nil {
			return core.NewError("store.DeleteLand", core.KindSchemaError, err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return core.NewError("store.DeleteLand", core.KindNotFound, core.ErrLandNotFound)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLand(row *sql.Row) (core.Land, error) {
	return scanLandGeneric(row)
}

func scanLandRows(rows *sql.Rows) (core.Land, error) {
	return scanLandGeneric(rows)
}

func scanLandGeneric(rs rowScanner) (core.Land, error) {
	var l core.Land
	var langJSON string
	err := rs.Scan(&l.ID, &l.Name, &l.Description, &langJSON, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Land{}, core.NewError("store.GetLand", core.KindNotFound, core.ErrLandNotFound)
	}
	if err != nil {
		return core.Land{}, core.NewError("store.GetLand", core.KindSchemaError, err)
	}
	if langJSON != "" {
		_ = json.Unmarshal([]byte(langJSON), &l.Lang)
	}
	return l, nil
}

// GetDomain fetches a domain by id, used by exports that need a
// Domain.Name for a DomainID already carried on an Expression.
func (s *Store) GetDomain(ctx context.Context, id int64) (core.Domain, error) {
	var d core.Domain
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM domains WHERE id = ?`, id).Scan(&d.ID, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Domain{}, core.NewError("store.GetDomain", core.KindNotFound, err)
	}
	if err != nil {
		return core.Domain{}, core.NewError("store.GetDomain", core.KindSchemaError, err)
	}
	return d, nil
}

// GetOrCreateDomain returns the domain row for name, inserting it if
// it doesn't already exist. Domains are shared across lands.
func (s *Store) GetOrCreateDomain(ctx context.Context, name string) (core.Domain, error) {
	var d core.Domain
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM domains WHERE name = ?`, name).Scan(&d.ID, &d.Name)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.Domain{}, core.NewError("store.GetOrCreateDomain", core.KindSchemaError, err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO domains (name) VALUES (?)`, name); err != nil {
			return core.NewError("store.GetOrCreateDomain", core.KindSchemaError, err)
		}
		return tx.QueryRowContext(ctx, `SELECT id, name FROM domains WHERE name = ?`, name).Scan(&d.ID, &d.Name)
	})
	if err != nil {
		return core.Domain{}, err
	}
	return d, nil
}

// GetOrCreateWord returns the word row for term, inserting it if it
// doesn't already exist. Words are shared across lands; LandDictionary
// rows scope a word to a specific land.
func (s *Store) GetOrCreateWord(ctx context.Context, term string) (core.Word, error) {
	var w core.Word
	err := s.db.QueryRowContext(ctx, `SELECT id, term FROM words WHERE term = ?`, term).Scan(&w.ID, &w.Term)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.Word{}, core.NewError("store.GetOrCreateWord", core.KindSchemaError, err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO words (term) VALUES (?)`, term); err != nil {
			return core.NewError("store.GetOrCreateWord", core.KindSchemaError, err)
		}
		return tx.QueryRowContext(ctx, `SELECT id, term FROM words WHERE term = ?`, term).Scan(&w.ID, &w.Term)
	})
	if err != nil {
		return core.Word{}, err
	}
	return w, nil
}

// AddToDictionary links word to land, idempotently.
func (s *Store) AddToDictionary(ctx context.Context, landID, wordID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO land_dictionary (land_id, word_id) VALUES (?, ?)`, landID, wordID)
		if err != nil {
			return core.NewError("store.AddToDictionary", core.KindSchemaError, err)
		}
		return nil
	})
}

// DictionaryTerms returns every lemma currently in land's dictionary.
func (s *Store) DictionaryTerms(ctx context.Context, landID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT w.term FROM words w JOIN land_dictionary ld ON ld.word_id = w.id WHERE ld.land_id = ? ORDER BY w.term`,
		landID)
	if err != nil {
		return nil, core.NewError("store.DictionaryTerms", core.KindSchemaError, err)
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, core.NewError("store.DictionaryTerms", core.KindSchemaError, err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}
