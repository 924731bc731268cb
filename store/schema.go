package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	params_hash TEXT NOT NULL,
	portfolio_hash TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS metrics (
	run_id TEXT NOT NULL,
	engine TEXT NOT NULL,
	name TEXT NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (run_id, engine, name)
);

CREATE TABLE IF NOT EXISTS exposure_results (
	run_id TEXT NOT NULL,
	engine TEXT NOT NULL,
	exposure_id TEXT NOT NULL,
	metric TEXT NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (run_id, engine, exposure_id, metric)
);

CREATE INDEX IF NOT EXISTS idx_metrics_run ON metrics(run_id);
CREATE INDEX IF NOT EXISTS idx_exposure_results_run ON exposure_results(run_id, engine);
`
