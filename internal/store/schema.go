package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS decisions (
    id                   TEXT PRIMARY KEY,
    decided_at           TEXT NOT NULL,
    item                 TEXT NOT NULL,
    cost                 TEXT NOT NULL,
    category             TEXT NOT NULL,
    status               TEXT NOT NULL,
    reason               TEXT NOT NULL,
    remaining_balance    TEXT NOT NULL,
    cost_percentage      TEXT,
    provider             TEXT NOT NULL,
    fell_back            INTEGER NOT NULL DEFAULT 0,
    confirmed            INTEGER NOT NULL DEFAULT 0,
    confirmed_at         TEXT
);

CREATE INDEX IF NOT EXISTS idx_decisions_at ON decisions(decided_at);
CREATE INDEX IF NOT EXISTS idx_decisions_status ON decisions(status);
`
