package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/moti-registry/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if _, err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// Helper function to create a test register.
func createTestTable(count int) model.Table {
	table := make(model.Table, count)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range table {
		table[i] = model.Correspondence{
			RefID:          "MOTI-SME-" + string(rune('A'+i)),
			DateReceived:   base.AddDate(0, 0, i),
			Type:           model.TypeExternal,
			Classification: model.ClassificationSMEDevelopment,
			Sender:         "Sender " + string(rune('A'+i)),
			Subject:        "Subject",
			AssignedTo:     "Officer",
			Status:         model.StatusPending,
		}
	}
	if count > 0 {
		completed := base.AddDate(0, 0, 10)
		table[0].Status = model.StatusCompleted
		table[0].DateCompleted = &completed
		table[0].TATDays = 10
	}
	return table
}

func TestSQLiteStorage_ReadEmpty(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	table, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if table == nil || len(table) != 0 {
		t.Errorf("Read() = %v, want empty non-nil table", table)
	}
}

func TestSQLiteStorage_WriteRead(t *testing.T) {
	tests := []struct {
		name  string
		first model.Table
		table model.Table
	}{
		{
			name:  "single write",
			table: createTestTable(3),
		},
		{
			name:  "shorter table replaces longer one",
			first: createTestTable(5),
			table: createTestTable(2),
		},
		{
			name:  "empty table clears the register",
			first: createTestTable(2),
			table: model.Table{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := createTestStorage(t)
			defer cleanup()
			ctx := context.Background()

			if tt.first != nil {
				if err := store.Write(ctx, tt.first); err != nil {
					t.Fatalf("first Write() error = %v", err)
				}
			}
			if err := store.Write(ctx, tt.table); err != nil {
				t.Fatalf("Write() error = %v", err)
			}

			got, err := store.Read(ctx)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if len(got) != len(tt.table) {
				t.Fatalf("Read() returned %d rows, want %d", len(got), len(tt.table))
			}
			for i := range got {
				assertRecordEqual(t, tt.table[i], got[i])
			}
		})
	}
}

func TestSQLiteStorage_PreservesOrder(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	table := createTestTable(4)
	table[0], table[3] = table[3], table[0]

	if err := store.Write(ctx, table); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	for i := range table {
		if got[i].RefID != table[i].RefID {
			t.Errorf("row %d = %s, want %s", i, got[i].RefID, table[i].RefID)
		}
	}
}

func TestSQLiteStorage_WriteRejectsInvalidRecord(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Write(ctx, createTestTable(2)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	bad := createTestTable(2)
	bad[1].RefID = "  "
	err := store.Write(ctx, bad)
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("Write() error = %v, want ErrInvalidRecord", err)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("failed write changed the register: %d rows", len(got))
	}
}

func TestSQLiteStorage_ReadBeforeMigrate(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := store.Read(context.Background()); err == nil {
		t.Error("Read() on an unmigrated database should fail")
	}
}

func TestSQLiteStorage_Migrate(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "dir", "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	applied, err := store.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if applied != len(migrations) {
		t.Errorf("Migrate() applied %d, want %d", applied, len(migrations))
	}

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("SchemaVersion() = %d, want %d", version, ExpectedSchemaVersion)
	}

	// Second run is a no-op
	applied, err = store.Migrate(ctx)
	if err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if applied != 0 {
		t.Errorf("second Migrate() applied %d, want 0", applied)
	}

	var indexCount int
	err = store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_correspondence_ref_id'
	`).Scan(&indexCount)
	if err != nil {
		t.Fatalf("Failed to check index: %v", err)
	}
	if indexCount != 1 {
		t.Error("ref id index was not created")
	}
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	if !errors.Is(err, ErrEmptyString) {
		t.Errorf("NewSQLiteStorage() error = %v, want ErrEmptyString", err)
	}
}

func assertRecordEqual(t *testing.T, want, got model.Correspondence) {
	t.Helper()
	if got.RefID != want.RefID || got.Sender != want.Sender || got.Status != want.Status ||
		got.Type != want.Type || got.Classification != want.Classification ||
		got.Subject != want.Subject || got.AssignedTo != want.AssignedTo || got.TATDays != want.TATDays {
		t.Errorf("record = %+v, want %+v", got, want)
	}
	if !got.DateReceived.Equal(want.DateReceived) {
		t.Errorf("%s date received = %v, want %v", want.RefID, got.DateReceived, want.DateReceived)
	}
	switch {
	case want.DateCompleted == nil && got.DateCompleted != nil:
		t.Errorf("%s date completed = %v, want nil", want.RefID, *got.DateCompleted)
	case want.DateCompleted != nil && got.DateCompleted == nil:
		t.Errorf("%s date completed = nil, want %v", want.RefID, *want.DateCompleted)
	case want.DateCompleted != nil && !got.DateCompleted.Equal(*want.DateCompleted):
		t.Errorf("%s date completed = %v, want %v", want.RefID, *got.DateCompleted, *want.DateCompleted)
	}
}
