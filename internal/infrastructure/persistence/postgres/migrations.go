package postgres

// GetMigrations returns all database migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_accounts_table",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS accounts (
					id UUID PRIMARY KEY,
					username VARCHAR(50) NOT NULL UNIQUE,
					password_hash TEXT NOT NULL,
					display_name VARCHAR(100) NOT NULL,
					grade INTEGER NOT NULL CHECK (grade BETWEEN 6 AND 12),
					school TEXT NOT NULL DEFAULT '',
					preferred_language VARCHAR(50) NOT NULL DEFAULT 'English',
					avatar VARCHAR(50) NOT NULL DEFAULT 'student1',
					points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
					created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
				);

				CREATE INDEX IF NOT EXISTS idx_accounts_points ON accounts(points DESC, id ASC);
			`,
		},
		{
			Version: 2,
			Name:    "create_activity_records_table",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS activity_records (
					id UUID PRIMARY KEY,
					account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
					subject VARCHAR(100) NOT NULL,
					time_spent INTEGER NOT NULL CHECK (time_spent >= 0),
					problems_solved INTEGER NOT NULL CHECK (problems_solved >= 0),
					recorded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
				);

				CREATE INDEX IF NOT EXISTS idx_activity_records_account
					ON activity_records(account_id, recorded_at DESC);
			`,
		},
		{
			Version: 3,
			Name:    "create_chat_turns_table",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS chat_turns (
					id UUID PRIMARY KEY,
					account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
					message TEXT NOT NULL,
					response TEXT NOT NULL,
					subject VARCHAR(100) NOT NULL DEFAULT '',
					sentiment VARCHAR(16) NOT NULL,
					recorded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
				);

				CREATE INDEX IF NOT EXISTS idx_chat_turns_account
					ON chat_turns(account_id, recorded_at DESC);
			`,
		},
		{
			Version: 4,
			Name:    "create_game_results_table",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS game_results (
					id UUID PRIMARY KEY,
					account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
					game_name VARCHAR(100) NOT NULL,
					score INTEGER NOT NULL CHECK (score >= 0),
					subject VARCHAR(100) NOT NULL DEFAULT '',
					recorded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
				);

				CREATE INDEX IF NOT EXISTS idx_game_results_account
					ON game_results(account_id, recorded_at DESC);
			`,
		},
		{
			Version: 5,
			Name:    "create_badges_table",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS badges (
					id UUID PRIMARY KEY,
					account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
					name VARCHAR(100) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					earned_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
					CONSTRAINT uq_badges_account_name UNIQUE (account_id, name)
				);

				CREATE INDEX IF NOT EXISTS idx_badges_account
					ON badges(account_id, earned_at DESC);
			`,
		},
		{
			Version: 6,
			Name:    "create_catalog_items_table",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS catalog_items (
					id UUID PRIMARY KEY,
					title VARCHAR(200) NOT NULL,
					subject VARCHAR(100) NOT NULL,
					content_type VARCHAR(50) NOT NULL,
					payload_ref TEXT NOT NULL,
					grade_level INTEGER NOT NULL,
					language VARCHAR(50) NOT NULL,
					download_count INTEGER NOT NULL DEFAULT 0 CHECK (download_count >= 0),
					created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
				);

				CREATE INDEX IF NOT EXISTS idx_catalog_items_filters
					ON catalog_items(language, grade_level, subject);
			`,
		},
		{
			Version: 7,
			Name:    "seed_catalog_items",
			UpSQL: `
				INSERT INTO catalog_items (id, title, subject, content_type, payload_ref, grade_level, language)
				VALUES
					('a3a1f6d0-0001-4000-8000-000000000001', 'Basic Algebra', 'Math', 'PDF', 'algebra_basics.pdf', 6, 'English'),
					('a3a1f6d0-0001-4000-8000-000000000002', 'Photosynthesis', 'Science', 'PDF', 'photosynthesis.pdf', 7, 'English'),
					('a3a1f6d0-0001-4000-8000-000000000003', 'Simple Circuits', 'Technology', 'PDF', 'circuits.pdf', 8, 'English'),
					('a3a1f6d0-0001-4000-8000-000000000004', 'Geometry Basics', 'Math', 'Game', 'geometry_game.html', 6, 'English'),
					('a3a1f6d0-0001-4000-8000-000000000005', 'English Vocabulary', 'English', 'Flashcards', 'vocabulary_cards.pdf', 6, 'English')
				ON CONFLICT (id) DO NOTHING;
			`,
		},
	}
}
