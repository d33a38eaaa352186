package schema

var streamersTable = table{
	name: "streamers",
	postgres: []string{
		`CREATE TABLE IF NOT EXISTS streamers (
			id UUID PRIMARY KEY,
			external_id VARCHAR(64) UNIQUE NOT NULL,
			display_name VARCHAR(100) NOT NULL,
			handle VARCHAR(64) UNIQUE NOT NULL,
			avatar_url VARCHAR(2048),
			bio TEXT,
			profile_url VARCHAR(2048),
			follower_count BIGINT NOT NULL DEFAULT 0,
			broadcaster_type VARCHAR(32),
			sealed_access_token TEXT,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_streamers_handle_lower ON streamers(LOWER(handle))`,
	},
	sqlite: []string{
		`CREATE TABLE IF NOT EXISTS streamers (
			id TEXT PRIMARY KEY,
			external_id TEXT UNIQUE NOT NULL,
			display_name TEXT NOT NULL,
			handle TEXT UNIQUE NOT NULL,
			avatar_url TEXT,
			bio TEXT,
			profile_url TEXT,
			follower_count INTEGER NOT NULL DEFAULT 0,
			broadcaster_type TEXT,
			sealed_access_token TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_streamers_handle_lower ON streamers(LOWER(handle))`,
	},
}
