package catalog

// itemsSchema is the catalog table. Availability flags are stored in the
// upstream Yes/No encoding; scanItem normalizes them to booleans so the raw
// encoding never crosses the store boundary.
const itemsSchema = `
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		creator TEXT NOT NULL DEFAULT '',
		publisher TEXT NOT NULL DEFAULT '',
		published_date TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		pool TEXT NOT NULL,
		library_available TEXT NOT NULL DEFAULT 'No',
		ebook_available TEXT NOT NULL DEFAULT 'No'
	);
	CREATE INDEX IF NOT EXISTS idx_items_pool ON items(pool);
`

const itemColumns = "id, title, creator, publisher, published_date, description, pool, library_available, ebook_available"
