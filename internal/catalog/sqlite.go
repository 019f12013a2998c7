package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/lepinkainen/readnext/internal/errors"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (or creates) the catalog database at dbPath and
// ensures the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}

	if _, err := db.Exec(itemsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetItem returns the item with the given id in the partition, or nil when
// absent.
func (s *SQLiteStore) GetItem(ctx context.Context, id string, partition Partition) (*Item, error) {
	query := fmt.Sprintf("SELECT %s FROM items WHERE id = ? AND pool = ?", itemColumns)

	row := s.db.QueryRowContext(ctx, query, id, string(partition))
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStoreError("get item", err)
	}
	return &item, nil
}

// ListItems returns all items in the partition.
func (s *SQLiteStore) ListItems(ctx context.Context, partition Partition) ([]Item, error) {
	query := fmt.Sprintf("SELECT %s FROM items WHERE pool = ? ORDER BY title, id", itemColumns)
	return s.queryItems(ctx, "list items", query, string(partition))
}

// ListCandidates returns up to limit items in the partition excluding
// excludeID.
func (s *SQLiteStore) ListCandidates(ctx context.Context, partition Partition, excludeID string, limit int) ([]Item, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM items WHERE pool = ? AND id != ? ORDER BY title, id LIMIT ?",
		itemColumns,
	)
	return s.queryItems(ctx, "list candidates", query, string(partition), excludeID, limit)
}

// ListItemsWithText returns up to limit items in the partition that carry
// descriptive text, excluding excludeID.
func (s *SQLiteStore) ListItemsWithText(ctx context.Context, partition Partition, excludeID string, limit int) ([]Item, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM items WHERE pool = ? AND id != ? AND TRIM(description) != '' ORDER BY title, id LIMIT ?",
		itemColumns,
	)
	return s.queryItems(ctx, "list items with text", query, string(partition), excludeID, limit)
}

// ListAll returns every item across both partitions sorted by title.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]Item, error) {
	query := fmt.Sprintf("SELECT %s FROM items ORDER BY title, id", itemColumns)
	return s.queryItems(ctx, "list all items", query)
}

// UpsertItems inserts or replaces items in a single transaction.
func (s *SQLiteStore) UpsertItems(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStoreError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(
		"INSERT OR REPLACE INTO items (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		itemColumns,
	)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return errors.NewStoreError("prepare insert", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			return errors.NewStoreError(fmt.Sprintf("item %q has no id", item.Title), nil)
		}
		_, err := stmt.ExecContext(ctx,
			item.ID,
			item.Title,
			item.Creator,
			item.Publisher,
			item.PublishedDate,
			item.DescriptiveText,
			string(item.Partition),
			encodeYesNo(item.Availability.Library),
			encodeYesNo(item.Availability.Ebook),
		)
		if err != nil {
			return errors.NewStoreError(fmt.Sprintf("insert item %s", item.ID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStoreError("commit transaction", err)
	}
	return nil
}

func (s *SQLiteStore) queryItems(ctx context.Context, op, query string, args ...any) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreError(op, err)
	}
	defer func() { _ = rows.Close() }()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, errors.NewStoreError(op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError(op, err)
	}
	return items, nil
}

// rowScanner lets scanItem work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem maps one storage row to an Item, normalizing Yes/No availability
// strings to booleans at this boundary.
func scanItem(row rowScanner) (Item, error) {
	var item Item
	var pool, library, ebook string

	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Creator,
		&item.Publisher,
		&item.PublishedDate,
		&item.DescriptiveText,
		&pool,
		&library,
		&ebook,
	)
	if err != nil {
		return Item{}, err
	}

	item.Partition = Partition(pool)
	item.Availability.Library = decodeYesNo(library)
	item.Availability.Ebook = decodeYesNo(ebook)
	return item, nil
}

// decodeYesNo normalizes the upstream two-valued encoding. Anything that is
// not an affirmative counts as false, so absent or malformed values can never
// leak past the store boundary.
func decodeYesNo(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "yes")
}

func encodeYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
