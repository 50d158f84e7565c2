package journal_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/cpuhistory/internal/errors"
	"codeberg.org/mutker/cpuhistory/internal/journal"
	"codeberg.org/mutker/cpuhistory/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, batchSize int) journal.Config {
	t.Helper()

	dir := t.TempDir()
	return journal.Config{
		DBPath:       filepath.Join(dir, "data", "samples.db"),
		BackupDir:    filepath.Join(dir, "backups"),
		BatchSize:    batchSize,
		BatchTimeout: time.Hour,
		Enabled:      true,
	}
}

func sampleAt(offset int, value float64) journal.Sample {
	return journal.Sample{
		Timestamp: time.UnixMilli(1_700_000_000_000 + int64(offset)*1000),
		Source:    "cpu",
		Value:     value,
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, journal.DefaultConfig().Validate(), "disabled journal needs no storage settings")

	cfg := journal.Config{Enabled: true}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, journal.ErrInvalidDBPath))

	cfg = journal.Config{Enabled: true, DBPath: "x.db", BatchSize: -1}
	assert.True(t, errors.HasCode(cfg.Validate(), errors.ErrInvalidConfig))
}

func TestNewRecorderDisabledIsNoop(t *testing.T) {
	rec, err := journal.NewRecorder(journal.DefaultConfig(), logger.Nop())
	require.NoError(t, err)

	assert.NoError(t, rec.Record(context.Background(), sampleAt(0, 10)))
	assert.NoError(t, rec.Close())
}

func TestNewRecorderRejectsInvalidConfig(t *testing.T) {
	_, err := journal.NewRecorder(journal.Config{Enabled: true}, logger.Nop())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestRepositoryBatchesAndReadsBack(t *testing.T) {
	repo, err := journal.NewRepository(testConfig(t, 2), logger.Nop())
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Record(sampleAt(0, 12.5)))
	require.NoError(t, repo.Record(sampleAt(1, 50)))
	degraded := sampleAt(2, 0)
	degraded.Degraded = true
	require.NoError(t, repo.Record(degraded))

	got, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, 0.0, got[0].Value)
	assert.True(t, got[0].Degraded)
	assert.Equal(t, 50.0, got[1].Value)
	assert.Equal(t, 12.5, got[2].Value)
	assert.Equal(t, "cpu", got[2].Source)
	assert.Equal(t, sampleAt(0, 0).Timestamp.UnixMilli(), got[2].Timestamp.UnixMilli())

	limited, err := repo.Recent(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRepositoryCloseFlushesPending(t *testing.T) {
	cfg := testConfig(t, 100)
	repo, err := journal.NewRepository(cfg, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, repo.Record(sampleAt(0, 1)))
	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close())

	err = repo.Record(sampleAt(1, 2))
	assert.True(t, errors.HasCode(err, journal.ErrClosed))

	reopened, err := journal.NewRepository(cfg, logger.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Value)
}

func TestRecorderRejectsInvalidSamples(t *testing.T) {
	rec, err := journal.NewRecorder(testConfig(t, 1), logger.Nop())
	require.NoError(t, err)
	defer rec.Close()

	err = rec.Record(context.Background(), sampleAt(0, 101))
	assert.True(t, errors.HasCode(err, journal.ErrInvalidSample))

	err = rec.Record(context.Background(), journal.Sample{Value: 5})
	assert.True(t, errors.HasCode(err, journal.ErrInvalidSample))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = rec.Record(ctx, sampleAt(0, 5))
	assert.True(t, errors.HasCode(err, errors.ErrTimeout))

	assert.NoError(t, rec.Record(context.Background(), sampleAt(0, 5)))
}

func TestSchemaVersionMismatchBacksUpAndRecreates(t *testing.T) {
	cfg := testConfig(t, 1)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755))

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE schema_versions (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL);
		INSERT INTO schema_versions (version, applied_at) VALUES (99, datetime('now'));
		CREATE TABLE samples (legacy TEXT);`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	repo, err := journal.NewRepository(cfg, logger.Nop())
	require.NoError(t, err)
	defer repo.Close()

	backups, err := filepath.Glob(filepath.Join(cfg.BackupDir, "samples_v99_*.db"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	require.NoError(t, repo.Record(sampleAt(0, 33)))
	got, err := repo.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 33.0, got[0].Value)
}
