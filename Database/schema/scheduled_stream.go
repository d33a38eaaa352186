package schema

var scheduledStreamsTable = table{
	name: "scheduled_streams",
	postgres: []string{
		`CREATE TABLE IF NOT EXISTS scheduled_streams (
			id UUID PRIMARY KEY,
			streamer_id UUID NOT NULL REFERENCES streamers(id) ON DELETE CASCADE,
			game_id UUID REFERENCES games(id) ON DELETE SET NULL,
			external_catalog_id BIGINT,
			game_title VARCHAR(255),
			game_image VARCHAR(2048),
			game_synopsis TEXT,
			scheduled_date TIMESTAMP WITH TIME ZONE NOT NULL,
			scheduled_time VARCHAR(32) NOT NULL,
			duration VARCHAR(32) NOT NULL,
			links TEXT NOT NULL DEFAULT '[]',
			notes TEXT,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_streams_streamer_id ON scheduled_streams(streamer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_streams_streamer_date ON scheduled_streams(streamer_id, scheduled_date)`,
	},
	sqlite: []string{
		`CREATE TABLE IF NOT EXISTS scheduled_streams (
			id TEXT PRIMARY KEY,
			streamer_id TEXT NOT NULL REFERENCES streamers(id) ON DELETE CASCADE,
			game_id TEXT REFERENCES games(id) ON DELETE SET NULL,
			external_catalog_id INTEGER,
			game_title TEXT,
			game_image TEXT,
			game_synopsis TEXT,
			scheduled_date DATETIME NOT NULL,
			scheduled_time TEXT NOT NULL,
			duration TEXT NOT NULL,
			links TEXT NOT NULL DEFAULT '[]',
			notes TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_streams_streamer_id ON scheduled_streams(streamer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_streams_streamer_date ON scheduled_streams(streamer_id, scheduled_date)`,
	},
}
