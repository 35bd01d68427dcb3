// Package postgres implements the PostgreSQL persistence layer for the
// community engagement bot.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE MEMBERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create members table
-- Version: 001

-- One row per Discord user the bot has ever counted a message for.
-- Records are created lazily and never deleted; resets zero the
-- progress columns in place.
CREATE TABLE IF NOT EXISTS members (
    discord_id VARCHAR(20) PRIMARY KEY,
    display_name VARCHAR(100) NOT NULL,
    xp INTEGER NOT NULL DEFAULT 0,
    level INTEGER NOT NULL DEFAULT 1,
    last_message TEXT NOT NULL DEFAULT '',
    vocabulary JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_xp CHECK (xp >= 0),
    CONSTRAINT valid_level CHECK (level >= 1)
);

-- Leaderboard reads sort by xp descending
CREATE INDEX IF NOT EXISTS idx_members_xp ON members(xp DESC);

-- Updated_at trigger function for automatic timestamp updates
CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ language 'plpgsql';

DROP TRIGGER IF EXISTS update_members_updated_at ON members;
CREATE TRIGGER update_members_updated_at
    BEFORE UPDATE ON members
    FOR EACH ROW
    EXECUTE FUNCTION update_updated_at_column();
`

const migration001Down = `
DROP TRIGGER IF EXISTS update_members_updated_at ON members;
DROP FUNCTION IF EXISTS update_updated_at_column();
DROP TABLE IF EXISTS members;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: XP AUDIT LOG
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create xp_awards audit table
-- Version: 002
-- Purpose: Keep a per-message trail of XP grants for moderation review

CREATE TABLE IF NOT EXISTS xp_awards (
    id SERIAL PRIMARY KEY,
    discord_id VARCHAR(20) NOT NULL REFERENCES members(discord_id) ON DELETE CASCADE,
    channel_id VARCHAR(20) NOT NULL,
    amount INTEGER NOT NULL,
    new_total INTEGER NOT NULL,
    awarded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_xp_awards_member ON xp_awards(discord_id);
CREATE INDEX IF NOT EXISTS idx_xp_awards_awarded_at ON xp_awards(awarded_at DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS xp_awards;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_members",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_xp_awards",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}
