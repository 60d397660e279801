package journal

const Schema = `
CREATE TABLE IF NOT EXISTS loads (
	load_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	op TEXT NOT NULL,
	source TEXT NOT NULL,
	market TEXT NOT NULL,
	market_sub TEXT NOT NULL,
	data_type TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	symbols TEXT NOT NULL,
	years TEXT NOT NULL,
	cache_hit INTEGER NOT NULL,
	files INTEGER NOT NULL,
	rows INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_loads_time ON loads(time);
`
