// ABOUTME: SQLite database schema for the assistant store
// ABOUTME: Creates facts, conversations, templates, usage and audit tables
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Conversation turns (append-only)
CREATE TABLE IF NOT EXISTS conversations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_text TEXT NOT NULL,
    bot_text TEXT NOT NULL,
    mood TEXT NOT NULL DEFAULT 'neutral',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Facts (append-only, newest row per subject/key wins on read)
CREATE TABLE IF NOT EXISTS facts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    subj TEXT NOT NULL DEFAULT 'me',
    k TEXT NOT NULL,
    v TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Reply templates, seeded once
CREATE TABLE IF NOT EXISTS templates (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    locale TEXT NOT NULL DEFAULT 'en',
    text TEXT NOT NULL
);

-- Generic key/value counters with overwrite semantics
CREATE TABLE IF NOT EXISTS usage (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Template selection audit log (write-only)
CREATE TABLE IF NOT EXISTS template_usage (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    template_id INTEGER NOT NULL,
    used_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Dispatched task activity feed
CREATE TABLE IF NOT EXISTS activities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    title TEXT NOT NULL,
    when_text TEXT,
    meta TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_facts_subj_k ON facts(subj, k);
CREATE INDEX IF NOT EXISTS idx_templates_kind_locale ON templates(kind, locale);
CREATE INDEX IF NOT EXISTS idx_activities_created ON activities(created_at);
`
