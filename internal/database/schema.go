package database

// Schema defines the database schema.
//
// The credentials table holds exactly one row (the service is
// single-athlete). Writes go through a single UPSERT statement so a
// reader never observes a partially written pair.
const Schema = `
CREATE TABLE IF NOT EXISTS credentials (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	access_token  TEXT NOT NULL,
	refresh_token TEXT NOT NULL,
	expires_at    INTEGER NOT NULL,
	athlete_id    INTEGER,
	updated_at    INTEGER NOT NULL
);
`
