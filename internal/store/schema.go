package store

// schemaVersion is the target schema version for this build.
const schemaVersion = 1

var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	scenario   TEXT NOT NULL,
	mode       TEXT NOT NULL,
	base_year  INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS fits (
	run_id       INTEGER NOT NULL REFERENCES runs(id),
	material     TEXT NOT NULL,
	form         TEXT NOT NULL,
	a            REAL NOT NULL,
	b            REAL NOT NULL,
	m            REAL NOT NULL,
	adjusted_a   REAL NOT NULL,
	adjusted_b   REAL NOT NULL,
	adjusted_m   REAL NOT NULL,
	iterations   INTEGER NOT NULL,
	ssr          REAL NOT NULL,
	rmse         REAL NOT NULL,
	r_squared    REAL NOT NULL,
	observations INTEGER NOT NULL,
	first_year   INTEGER NOT NULL,
	last_year    INTEGER NOT NULL,
	PRIMARY KEY (run_id, material)
);

CREATE TABLE IF NOT EXISTS demand (
	run_id     INTEGER NOT NULL REFERENCES runs(id),
	material   TEXT NOT NULL,
	region     TEXT NOT NULL,
	year       INTEGER NOT NULL,
	per_capita REAL NOT NULL,
	total      REAL NOT NULL,
	unit       TEXT NOT NULL,
	time       TEXT NOT NULL,
	commodity  TEXT NOT NULL,
	level      TEXT NOT NULL,
	PRIMARY KEY (run_id, material, region, year)
);
`
