package schema

var gamesTable = table{
	name: "games",
	postgres: []string{
		`CREATE TABLE IF NOT EXISTS games (
			id UUID PRIMARY KEY,
			external_catalog_id BIGINT UNIQUE,
			title VARCHAR(255) NOT NULL,
			image_url VARCHAR(2048),
			synopsis TEXT,
			genres TEXT NOT NULL DEFAULT '[]',
			platform VARCHAR(512),
			website VARCHAR(2048),
			store_links TEXT NOT NULL DEFAULT '[]',
			is_custom BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
	},
	sqlite: []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			external_catalog_id INTEGER UNIQUE,
			title TEXT NOT NULL,
			image_url TEXT,
			synopsis TEXT,
			genres TEXT NOT NULL DEFAULT '[]',
			platform TEXT,
			website TEXT,
			store_links TEXT NOT NULL DEFAULT '[]',
			is_custom INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
}

var streamerGamesTable = table{
	name: "streamer_games",
	postgres: []string{
		`CREATE TABLE IF NOT EXISTS streamer_games (
			id UUID PRIMARY KEY,
			streamer_id UUID NOT NULL REFERENCES streamers(id) ON DELETE CASCADE,
			game_id UUID REFERENCES games(id) ON DELETE SET NULL,
			custom_title VARCHAR(255),
			custom_image VARCHAR(2048),
			status VARCHAR(16) NOT NULL CHECK (status IN ('to_play', 'playing', 'finished', 'dropped')),
			started_at TIMESTAMP WITH TIME ZONE,
			finished_at TIMESTAMP WITH TIME ZONE,
			notes TEXT,
			sort_order INTEGER,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_streamer_games_streamer_id ON streamer_games(streamer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_streamer_games_column ON streamer_games(streamer_id, status, sort_order)`,
	},
	sqlite: []string{
		`CREATE TABLE IF NOT EXISTS streamer_games (
			id TEXT PRIMARY KEY,
			streamer_id TEXT NOT NULL REFERENCES streamers(id) ON DELETE CASCADE,
			game_id TEXT REFERENCES games(id) ON DELETE SET NULL,
			custom_title TEXT,
			custom_image TEXT,
			status TEXT NOT NULL CHECK (status IN ('to_play', 'playing', 'finished', 'dropped')),
			started_at DATETIME,
			finished_at DATETIME,
			notes TEXT,
			sort_order INTEGER,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_streamer_games_streamer_id ON streamer_games(streamer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_streamer_games_column ON streamer_games(streamer_id, status, sort_order)`,
	},
}
