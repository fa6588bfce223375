package storage

// LocalStorageSchema is the key/value table backing local persistence.
const LocalStorageSchema = `
CREATE TABLE IF NOT EXISTS local_storage (
	storage_key TEXT PRIMARY KEY NOT NULL,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_local_storage_updated_at ON local_storage(updated_at);
`
