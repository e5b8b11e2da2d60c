package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS production_blocks (
			id                  TEXT PRIMARY KEY,
			line_id             TEXT NOT NULL,
			start_day           INTEGER NOT NULL CHECK(start_day >= 1),
			end_day             INTEGER NOT NULL CHECK(end_day >= start_day),
			mold_id             TEXT NOT NULL,
			color               TEXT NOT NULL DEFAULT '',
			label               TEXT NOT NULL DEFAULT '',
			notes               TEXT NOT NULL DEFAULT '',
			year                INTEGER NOT NULL,
			month               INTEGER NOT NULL CHECK(month BETWEEN 1 AND 12),
			changeover_minutes  INTEGER NOT NULL DEFAULT 0,
			changeover_time     TEXT NOT NULL DEFAULT '',
			changeover_mode     TEXT NOT NULL DEFAULT '' CHECK(changeover_mode IN ('', 'minutes', 'time')),
			changeover_mold_id  TEXT NOT NULL DEFAULT '',
			is_changeover_block INTEGER NOT NULL DEFAULT 0,
			parent_id           TEXT NOT NULL DEFAULT '',
			created_at          DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at          DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_blocks_period ON production_blocks(year, month);
		CREATE INDEX IF NOT EXISTS idx_blocks_line ON production_blocks(year, month, line_id);

		CREATE TABLE IF NOT EXISTS production_block_color_segments (
			block_id     TEXT NOT NULL,
			position     INTEGER NOT NULL,
			color        TEXT NOT NULL,
			label        TEXT NOT NULL DEFAULT '',
			start_offset INTEGER NOT NULL,
			end_offset   INTEGER NOT NULL,
			PRIMARY KEY (block_id, position)
		);

		CREATE TABLE IF NOT EXISTS production_block_product_colors (
			block_id   TEXT NOT NULL,
			changeover INTEGER NOT NULL,
			position   INTEGER NOT NULL,
			color      TEXT NOT NULL,
			quantity   INTEGER NOT NULL DEFAULT 0,
			party_code TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (block_id, changeover, position)
		);

		CREATE TABLE IF NOT EXISTS production_block_party_codes (
			block_id   TEXT NOT NULL,
			changeover INTEGER NOT NULL,
			position   INTEGER NOT NULL,
			code       TEXT NOT NULL,
			PRIMARY KEY (block_id, changeover, position)
		);

		CREATE TABLE IF NOT EXISTS production_block_packing_materials (
			block_id    TEXT NOT NULL,
			position    INTEGER NOT NULL,
			category    TEXT NOT NULL CHECK(category IN ('boxes', 'polybags', 'bopp')),
			material_id TEXT NOT NULL,
			quantity    INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (block_id, position)
		);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating production block tables: %w", err)
	}

	return nil
}
