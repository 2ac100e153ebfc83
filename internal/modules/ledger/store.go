package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/ledgerview/internal/database"
)

// Store holds the authoritative ordered collection of transactions.
//
// It is backed by an in-memory SQLite database: the insertion sequence is
// kept so Snapshot can return newest-first, but display order is always
// derived by the view pipeline, never read back from storage order.
type Store struct {
	db  *database.DB
	mu  sync.Mutex // serializes check-then-insert in Prepend
	log zerolog.Logger
}

const storeSchema = `
	CREATE TABLE IF NOT EXISTS transactions (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		amount      TEXT NOT NULL,
		date        TEXT NOT NULL,
		description TEXT NOT NULL,
		type        TEXT NOT NULL
	)
`

// NewStore creates the transaction store and its schema
func NewStore(db *database.DB, log zerolog.Logger) (*Store, error) {
	if _, err := db.Exec(storeSchema); err != nil {
		return nil, fmt.Errorf("failed to create transactions table: %w", err)
	}

	return &Store{
		db:  db,
		log: log.With().Str("repo", "transactions").Logger(),
	}, nil
}

// Initialize loads the seed sequence into the store. It is idempotent:
// re-running with the same seed does not duplicate entries (ids already
// present are skipped).
func (s *Store) Initialize(seed []Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for i := range seed {
		record := seed[i]
		if err := record.Validate(); err != nil {
			return fmt.Errorf("invalid seed record %q: %w", record.ID, err)
		}

		result, err := tx.Exec(
			`INSERT OR IGNORE INTO transactions (id, amount, date, description, type)
			 VALUES (?, ?, ?, ?, ?)`,
			record.ID,
			record.Amount.StringFixed(2),
			record.Date.String(),
			record.Description,
			string(record.Type),
		)
		if err != nil {
			return fmt.Errorf("failed to seed transaction %q: %w", record.ID, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	s.log.Info().
		Int("seed_size", len(seed)).
		Int("inserted", inserted).
		Msg("Store initialized")

	return nil
}

// Prepend inserts a new transaction. Returns ErrDuplicateID when the id is
// already present; the existing record is never overwritten.
func (s *Store) Prepend(record Transaction) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.exists(record.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("prepend %q: %w", record.ID, ErrDuplicateID)
	}

	_, err = s.db.Exec(
		`INSERT INTO transactions (id, amount, date, description, type)
		 VALUES (?, ?, ?, ?, ?)`,
		record.ID,
		record.Amount.StringFixed(2),
		record.Date.String(),
		record.Description,
		string(record.Type),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	s.log.Info().
		Str("id", record.ID).
		Str("type", string(record.Type)).
		Msg("Transaction added")

	return nil
}

// Snapshot returns the current contents, newest-inserted first. The returned
// slice and its records are fresh copies; callers cannot mutate the store
// through them.
func (s *Store) Snapshot() ([]Transaction, error) {
	rows, err := s.db.Query(
		`SELECT id, amount, date, description, type
		 FROM transactions
		 ORDER BY seq DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var records []Transaction
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return records, nil
}

// Get retrieves a single transaction by id. Returns ErrNotFound when absent.
func (s *Store) Get(id string) (*Transaction, error) {
	row := s.db.QueryRow(
		`SELECT id, amount, date, description, type
		 FROM transactions
		 WHERE id = ?`,
		id,
	)

	record, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &record, nil
}

// Count returns the number of transactions in the store
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// exists checks for an id without taking the store lock; callers hold it
func (s *Store) exists(id string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM transactions WHERE id = ? LIMIT 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check transaction existence: %w", err)
	}
	return true, nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var (
		record  Transaction
		amount  string
		date    string
		recType string
	)

	if err := row.Scan(&record.ID, &amount, &date, &record.Description, &recType); err != nil {
		return Transaction{}, err
	}

	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	record.Amount = parsedAmount

	parsedDate, err := ParseDate(date)
	if err != nil {
		return Transaction{}, err
	}
	record.Date = parsedDate

	parsedType, err := TypeFromString(recType)
	if err != nil {
		return Transaction{}, err
	}
	record.Type = parsedType

	return record, nil
}
