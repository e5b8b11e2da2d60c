// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/planta/internal/block"
)

// payloadTables are cleared whenever a block is replaced or removed.
var payloadTables = []string{
	"production_block_color_segments",
	"production_block_product_colors",
	"production_block_party_codes",
	"production_block_packing_materials",
}

// SQLite implements block.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ block.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// LoadBlocks returns every block of the month in insertion order, payload included.
// Derived changeover flags are left zero for the caller to recompute.
func (s *SQLite) LoadBlocks(ctx context.Context, year int, month time.Month) ([]*block.Block, error) {
	query := `
		SELECT id, line_id, start_day, end_day, mold_id, color, label, notes, year, month,
		       changeover_minutes, changeover_time, changeover_mode, changeover_mold_id,
		       is_changeover_block, parent_id
		FROM production_blocks
		WHERE year = ? AND month = ?
		ORDER BY rowid
	`

	rows, err := s.db.QueryContext(ctx, query, year, int(month))
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		blocks []*block.Block
		byID   = make(map[string]*block.Block)
	)
	for rows.Next() {
		var (
			b     block.Block
			m     int
			mode  string
			isCOB int
		)
		err := rows.Scan(
			&b.ID,
			&b.LineID,
			&b.StartDay,
			&b.EndDay,
			&b.MoldID,
			&b.Color,
			&b.Label,
			&b.Notes,
			&b.Year,
			&m,
			&b.ChangeoverMinutes,
			&b.ChangeoverTime,
			&mode,
			&b.ChangeoverMoldID,
			&isCOB,
			&b.ParentID,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		b.Month = time.Month(m)
		b.ChangeoverMode = block.ChangeoverMode(mode)
		b.IsChangeoverBlock = isCOB != 0

		blocks = append(blocks, &b)
		byID[b.ID] = &b
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}
	if len(blocks) == 0 {
		return nil, nil
	}

	if err := s.loadPayload(ctx, year, month, byID); err != nil {
		return nil, err
	}
	return blocks, nil
}

// loadPayload fills the payload of the period's blocks, one query per table.
func (s *SQLite) loadPayload(ctx context.Context, year int, month time.Month, byID map[string]*block.Block) error {
	period := `JOIN production_blocks b ON b.id = p.block_id WHERE b.year = ? AND b.month = ?`

	err := s.scanPayload(ctx, `
		SELECT p.block_id, p.color, p.label, p.start_offset, p.end_offset
		FROM production_block_color_segments p `+period+`
		ORDER BY p.block_id, p.position`, year, month, func(rows *sql.Rows) (string, error) {
		var (
			id  string
			seg block.ColorSegment
		)
		if err := rows.Scan(&id, &seg.Color, &seg.Label, &seg.StartOffset, &seg.EndOffset); err != nil {
			return "", err
		}
		if b, ok := byID[id]; ok {
			b.Payload.ColorSegments = append(b.Payload.ColorSegments, seg)
		}
		return id, nil
	})
	if err != nil {
		return fmt.Errorf("loading color segments: %w", err)
	}

	err = s.scanPayload(ctx, `
		SELECT p.block_id, p.changeover, p.color, p.quantity, p.party_code
		FROM production_block_product_colors p `+period+`
		ORDER BY p.block_id, p.changeover, p.position`, year, month, func(rows *sql.Rows) (string, error) {
		var (
			id         string
			changeover int
			pc         block.ProductColor
		)
		if err := rows.Scan(&id, &changeover, &pc.Color, &pc.Quantity, &pc.PartyCode); err != nil {
			return "", err
		}
		if b, ok := byID[id]; ok {
			if changeover != 0 {
				b.Payload.ChangeoverProductColors = append(b.Payload.ChangeoverProductColors, pc)
			} else {
				b.Payload.ProductColors = append(b.Payload.ProductColors, pc)
			}
		}
		return id, nil
	})
	if err != nil {
		return fmt.Errorf("loading product colors: %w", err)
	}

	err = s.scanPayload(ctx, `
		SELECT p.block_id, p.changeover, p.code
		FROM production_block_party_codes p `+period+`
		ORDER BY p.block_id, p.changeover, p.position`, year, month, func(rows *sql.Rows) (string, error) {
		var (
			id         string
			changeover int
			code       string
		)
		if err := rows.Scan(&id, &changeover, &code); err != nil {
			return "", err
		}
		if b, ok := byID[id]; ok {
			if changeover != 0 {
				b.Payload.ChangeoverPartyCodes = append(b.Payload.ChangeoverPartyCodes, code)
			} else {
				b.Payload.PartyCodes = append(b.Payload.PartyCodes, code)
			}
		}
		return id, nil
	})
	if err != nil {
		return fmt.Errorf("loading party codes: %w", err)
	}

	err = s.scanPayload(ctx, `
		SELECT p.block_id, p.category, p.material_id, p.quantity
		FROM production_block_packing_materials p `+period+`
		ORDER BY p.block_id, p.position`, year, month, func(rows *sql.Rows) (string, error) {
		var (
			id       string
			category string
			pm       block.PackingMaterial
		)
		if err := rows.Scan(&id, &category, &pm.MaterialID, &pm.Quantity); err != nil {
			return "", err
		}
		pm.Category = block.PackingCategory(category)
		if b, ok := byID[id]; ok {
			b.Payload.PackingMaterials = append(b.Payload.PackingMaterials, pm)
		}
		return id, nil
	})
	if err != nil {
		return fmt.Errorf("loading packing materials: %w", err)
	}

	return nil
}

func (s *SQLite) scanPayload(ctx context.Context, query string, year int, month time.Month, scan func(*sql.Rows) (string, error)) error {
	rows, err := s.db.QueryContext(ctx, query, year, int(month))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if id, err := scan(rows); err != nil {
			return fmt.Errorf("scanning row of block %q: %w", id, err)
		}
	}
	return rows.Err()
}

// SaveBlock inserts or replaces a block and its payload rows.
func (s *SQLite) SaveBlock(ctx context.Context, b *block.Block) error {
	return s.SaveBlocks(ctx, []*block.Block{b})
}

// SaveBlocks inserts or replaces multiple blocks in one transaction.
// Derived changeover flags are not stored.
func (s *SQLite) SaveBlocks(ctx context.Context, blocks []*block.Block) error {
	if len(blocks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, b := range blocks {
		if err := saveBlockTx(ctx, tx, b); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func saveBlockTx(ctx context.Context, tx *sql.Tx, b *block.Block) error {
	query := `
		INSERT INTO production_blocks (
			id, line_id, start_day, end_day, mold_id, color, label, notes, year, month,
			changeover_minutes, changeover_time, changeover_mode, changeover_mold_id,
			is_changeover_block, parent_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			line_id = excluded.line_id,
			start_day = excluded.start_day,
			end_day = excluded.end_day,
			mold_id = excluded.mold_id,
			color = excluded.color,
			label = excluded.label,
			notes = excluded.notes,
			year = excluded.year,
			month = excluded.month,
			changeover_minutes = excluded.changeover_minutes,
			changeover_time = excluded.changeover_time,
			changeover_mode = excluded.changeover_mode,
			changeover_mold_id = excluded.changeover_mold_id,
			is_changeover_block = excluded.is_changeover_block,
			parent_id = excluded.parent_id,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := tx.ExecContext(ctx, query,
		b.ID,
		b.LineID,
		b.StartDay,
		b.EndDay,
		b.MoldID,
		b.Color,
		b.Label,
		b.Notes,
		b.Year,
		int(b.Month),
		b.ChangeoverMinutes,
		b.ChangeoverTime,
		string(b.ChangeoverMode),
		b.ChangeoverMoldID,
		boolInt(b.IsChangeoverBlock),
		b.ParentID,
	)
	if err != nil {
		return fmt.Errorf("saving block %s: %w", b.ID, err)
	}

	if err := deletePayloadTx(ctx, tx, b.ID); err != nil {
		return err
	}
	return insertPayloadTx(ctx, tx, b)
}

func insertPayloadTx(ctx context.Context, tx *sql.Tx, b *block.Block) error {
	p := b.Payload

	for i, seg := range p.ColorSegments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO production_block_color_segments (block_id, position, color, label, start_offset, end_offset)
			VALUES (?, ?, ?, ?, ?, ?)`,
			b.ID, i, seg.Color, seg.Label, seg.StartOffset, seg.EndOffset)
		if err != nil {
			return fmt.Errorf("saving color segment of block %s: %w", b.ID, err)
		}
	}

	colors := func(changeover bool, list []block.ProductColor) error {
		for i, pc := range list {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO production_block_product_colors (block_id, changeover, position, color, quantity, party_code)
				VALUES (?, ?, ?, ?, ?, ?)`,
				b.ID, boolInt(changeover), i, pc.Color, pc.Quantity, pc.PartyCode)
			if err != nil {
				return fmt.Errorf("saving product color of block %s: %w", b.ID, err)
			}
		}
		return nil
	}
	if err := colors(false, p.ProductColors); err != nil {
		return err
	}
	if err := colors(true, p.ChangeoverProductColors); err != nil {
		return err
	}

	codes := func(changeover bool, list []string) error {
		for i, code := range list {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO production_block_party_codes (block_id, changeover, position, code)
				VALUES (?, ?, ?, ?)`,
				b.ID, boolInt(changeover), i, code)
			if err != nil {
				return fmt.Errorf("saving party code of block %s: %w", b.ID, err)
			}
		}
		return nil
	}
	if err := codes(false, p.PartyCodes); err != nil {
		return err
	}
	if err := codes(true, p.ChangeoverPartyCodes); err != nil {
		return err
	}

	for i, pm := range p.PackingMaterials {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO production_block_packing_materials (block_id, position, category, material_id, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			b.ID, i, string(pm.Category), pm.MaterialID, pm.Quantity)
		if err != nil {
			return fmt.Errorf("saving packing material of block %s: %w", b.ID, err)
		}
	}

	return nil
}

// DeleteBlock removes a block and its payload rows.
// Returns block.ErrBlockNotFound if no block has the given id.
func (s *SQLite) DeleteBlock(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	n, err := deleteBlockTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", block.ErrBlockNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// BulkDeleteBlocks removes multiple blocks in one transaction. Unknown ids are ignored.
func (s *SQLite) BulkDeleteBlocks(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		if _, err := deleteBlockTx(ctx, tx, id); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func deleteBlockTx(ctx context.Context, tx *sql.Tx, id string) (int64, error) {
	if err := deletePayloadTx(ctx, tx, id); err != nil {
		return 0, err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM production_blocks WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("deleting block %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func deletePayloadTx(ctx context.Context, tx *sql.Tx, id string) error {
	for _, table := range payloadTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE block_id = ?`, id); err != nil {
			return fmt.Errorf("clearing %s for block %s: %w", table, id, err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
