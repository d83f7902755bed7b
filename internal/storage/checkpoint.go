package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// DefaultAutoCheckpoints is how many automatic checkpoints are kept.
const DefaultAutoCheckpoints = 5

const (
	snapshotExt = ".db"
	metaExt     = ".meta.json"
	idLayout    = "2006-01-02-150405"
)

// Checkpoint errors.
var (
	ErrCheckpointNotFound  = errors.New("checkpoint not found")
	ErrCheckpointCorrupted = errors.New("checkpoint integrity check failed")
	ErrCheckpointExists    = errors.New("checkpoint already exists")
	ErrInvalidCheckpointID = errors.New("invalid checkpoint id")
)

// RecordCounts is what a snapshot held when it was taken.
type RecordCounts struct {
	Transactions  int `json:"transactions"`
	QuickNotes    int `json:"quick_notes"`
	Subcategories int `json:"subcategories"`
}

// CheckpointInfo describes one snapshot. It is stored next to the snapshot as
// <id>.meta.json.
type CheckpointInfo struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	Description string    `json:"description"`
	RecordCounts
	FileSize      int64 `json:"file_size"`
	SchemaVersion int   `json:"schema_version"`
	IsAuto        bool  `json:"is_auto"`
}

// CheckpointManager snapshots the ledger database into <dbdir>/checkpoints.
type CheckpointManager struct {
	db       *sql.DB
	dbPath   string
	dir      string
	keepAuto int
	now      func() time.Time
}

// NewCheckpointManager creates a new checkpoint manager.
func NewCheckpointManager(db *sql.DB, dbPath string) (*CheckpointManager, error) {
	dbPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	dir := filepath.Join(filepath.Dir(dbPath), "checkpoints")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	return &CheckpointManager{
		db:       db,
		dbPath:   dbPath,
		dir:      dir,
		keepAuto: DefaultAutoCheckpoints,
		now:      time.Now,
	}, nil
}

// SetKeepAuto sets how many automatic checkpoints survive cleanup. Values
// below one keep the default.
func (cm *CheckpointManager) SetKeepAuto(n int) {
	if n < 1 {
		n = DefaultAutoCheckpoints
	}
	cm.keepAuto = n
}

// Create snapshots the database under tag. An empty tag is generated from
// the current time.
func (cm *CheckpointManager) Create(ctx context.Context, tag, description string) (*CheckpointInfo, error) {
	if tag == "" {
		tag = "checkpoint-" + cm.now().Format(idLayout)
	}
	return cm.create(ctx, tag, description, false)
}

// AutoCheckpoint snapshots the database before a destructive operation such
// as import or clear, then prunes old automatic checkpoints.
func (cm *CheckpointManager) AutoCheckpoint(ctx context.Context, operation string) error {
	tag := fmt.Sprintf("auto-%s-%s", operation, cm.now().Format(idLayout))

	_, err := cm.create(ctx, tag, "Automatic checkpoint before "+operation, true)
	if errors.Is(err, ErrCheckpointExists) {
		// Same operation within the same second; that snapshot still applies.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create auto-checkpoint: %w", err)
	}

	if err := cm.pruneAuto(ctx); err != nil {
		slog.Warn("failed to prune automatic checkpoints", "error", err)
	}
	return nil
}

func (cm *CheckpointManager) create(ctx context.Context, id, description string, auto bool) (*CheckpointInfo, error) {
	snapshot, metaPath, err := cm.paths(id)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(snapshot); err == nil {
		return nil, fmt.Errorf("%q: %w", id, ErrCheckpointExists)
	}

	var version int
	if err := cm.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}

	counts, err := cm.collectRowCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	if err := cm.snapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to snapshot database: %w", err)
	}

	stat, err := os.Stat(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat checkpoint: %w", err)
	}

	info := &CheckpointInfo{
		ID:            id,
		CreatedAt:     cm.now(),
		Description:   description,
		RecordCounts:  counts,
		FileSize:      stat.Size(),
		SchemaVersion: version,
		IsAuto:        auto,
	}

	if err := writeMeta(metaPath, info); err != nil {
		if rmErr := os.Remove(snapshot); rmErr != nil {
			slog.Error("failed to remove checkpoint after metadata failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save checkpoint metadata: %w", err)
	}

	// The sidecar file is authoritative; the table only mirrors it.
	if err := cm.recordInDB(ctx, info); err != nil {
		slog.Warn("failed to record checkpoint in database", "id", id, "error", err)
	}

	slog.Debug("Created checkpoint", "id", id, "transactions", counts.Transactions, "auto", auto)
	return info, nil
}

// List returns every readable checkpoint, newest first.
func (cm *CheckpointManager) List(_ context.Context) ([]CheckpointInfo, error) {
	entries, err := os.ReadDir(cm.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoints directory: %w", err)
	}

	var checkpoints []CheckpointInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), metaExt) {
			continue
		}
		info, err := readMeta(filepath.Join(cm.dir, entry.Name()))
		if err != nil {
			slog.Debug("skipping unreadable checkpoint metadata", "file", entry.Name(), "error", err)
			continue
		}
		checkpoints = append(checkpoints, *info)
	}

	slices.SortFunc(checkpoints, func(a, b CheckpointInfo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return checkpoints, nil
}

// GetCheckpointInfo returns the metadata for id.
func (cm *CheckpointManager) GetCheckpointInfo(_ context.Context, id string) (*CheckpointInfo, error) {
	_, metaPath, err := cm.paths(id)
	if err != nil {
		return nil, err
	}

	info, err := readMeta(metaPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCheckpointNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint metadata: %w", err)
	}
	return info, nil
}

// Restore replaces the database file with the snapshot id. It closes the
// manager's database handle first, so callers must reopen storage afterwards.
func (cm *CheckpointManager) Restore(ctx context.Context, id string) error {
	snapshot, metaPath, err := cm.paths(id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(snapshot); err != nil {
		if os.IsNotExist(err) {
			return ErrCheckpointNotFound
		}
		return fmt.Errorf("failed to access checkpoint: %w", err)
	}
	if _, err := readMeta(metaPath); err != nil {
		return fmt.Errorf("failed to load checkpoint metadata: %w", err)
	}
	if err := verifyIntegrity(ctx, snapshot); err != nil {
		slog.Warn("checkpoint failed integrity check", "id", id, "error", err)
		return ErrCheckpointCorrupted
	}

	if err := cm.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// Keep the live file until the snapshot is fully in place.
	previous := cm.dbPath + ".restore-backup"
	if err := copyFile(cm.dbPath, previous); err != nil {
		return fmt.Errorf("failed to back up current database: %w", err)
	}
	if err := copyFile(snapshot, cm.dbPath); err != nil {
		if undoErr := copyFile(previous, cm.dbPath); undoErr != nil {
			slog.Error("failed to put back the database after a failed restore", "error", undoErr)
		}
		return fmt.Errorf("failed to restore checkpoint: %w", err)
	}
	if err := os.Remove(previous); err != nil {
		slog.Warn("failed to remove restore backup", "path", previous, "error", err)
	}

	slog.Info("Restored checkpoint", "id", id)
	return nil
}

// Delete removes the snapshot id and its metadata.
func (cm *CheckpointManager) Delete(ctx context.Context, id string) error {
	snapshot, metaPath, err := cm.paths(id)
	if err != nil {
		return err
	}

	if err := os.Remove(snapshot); err != nil {
		if os.IsNotExist(err) {
			return ErrCheckpointNotFound
		}
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}
	if err := os.Remove(metaPath); err != nil && !os.IsNotExist(err) {
		slog.Debug("failed to remove checkpoint metadata", "path", metaPath, "error", err)
	}
	if _, err := cm.db.ExecContext(ctx, "DELETE FROM checkpoint_metadata WHERE id = ?", id); err != nil {
		slog.Debug("failed to remove checkpoint row", "id", id, "error", err)
	}
	return nil
}

// pruneAuto deletes automatic checkpoints beyond the newest keepAuto.
// Manual checkpoints are never pruned.
func (cm *CheckpointManager) pruneAuto(ctx context.Context) error {
	checkpoints, err := cm.List(ctx)
	if err != nil {
		return err
	}

	kept := 0
	for _, cp := range checkpoints {
		if !cp.IsAuto {
			continue
		}
		kept++
		if kept <= cm.keepAuto {
			continue
		}
		if err := cm.Delete(ctx, cp.ID); err != nil {
			slog.Debug("failed to prune automatic checkpoint", "id", cp.ID, "error", err)
		}
	}
	return nil
}

// paths returns the snapshot and metadata paths for id. Ids are file names,
// so anything that could leave the checkpoints directory is rejected.
func (cm *CheckpointManager) paths(id string) (snapshot, meta string, err error) {
	if id == "" || id != filepath.Base(id) || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", "", fmt.Errorf("%q: %w", id, ErrInvalidCheckpointID)
	}
	return filepath.Join(cm.dir, id+snapshotExt), filepath.Join(cm.dir, id+metaExt), nil
}

// collectRowCounts reads the collection sizes straight from the stored JSON
// arrays. Unreadable values count as zero, the same as loading them does.
func (cm *CheckpointManager) collectRowCounts(ctx context.Context) (RecordCounts, error) {
	var counts RecordCounts

	arrayLen := `SELECT COALESCE(SUM(json_array_length(value)), 0) FROM kv_store WHERE key = ? AND json_valid(value)`
	if err := cm.db.QueryRowContext(ctx, arrayLen, TransactionsKey).Scan(&counts.Transactions); err != nil {
		slog.Debug("could not count transactions", "error", err)
	}
	if err := cm.db.QueryRowContext(ctx, arrayLen, QuickNotesKey).Scan(&counts.QuickNotes); err != nil {
		slog.Debug("could not count quick notes", "error", err)
	}
	if err := cm.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subcategories`).Scan(&counts.Subcategories); err != nil {
		return counts, fmt.Errorf("failed to count subcategories: %w", err)
	}
	return counts, nil
}

// snapshot writes a consistent copy of the database to dest.
func (cm *CheckpointManager) snapshot(ctx context.Context, dest string) error {
	if _, err := cm.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}

	if _, err := cm.db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		// Older SQLite builds lack VACUUM INTO; after the WAL checkpoint the
		// main file is complete on its own.
		slog.Debug("VACUUM INTO failed, copying file", "error", err)
		return copyFile(cm.dbPath, dest)
	}
	return nil
}

func (cm *CheckpointManager) recordInDB(ctx context.Context, info *CheckpointInfo) error {
	counts, err := json.Marshal(info.RecordCounts)
	if err != nil {
		return err
	}

	_, err = cm.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO checkpoint_metadata
		(id, created_at, description, file_size, row_counts, schema_version, is_auto)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		info.ID, info.CreatedAt, info.Description, info.FileSize,
		string(counts), info.SchemaVersion, info.IsAuto)
	return err
}

func writeMeta(path string, info *CheckpointInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readMeta(path string) (*CheckpointInfo, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var info CheckpointInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func verifyIntegrity(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Debug("failed to close checkpoint database", "error", err)
		}
	}()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check: %s", result)
	}
	return nil
}

// copyFile copies src to dst through a temporary file so dst is never left
// half written.
func copyFile(src, dst string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(filepath.Clean(tmp))
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
