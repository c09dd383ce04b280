package repository

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestHistoryRepo() *ImportHistoryRepository {
	r := NewImportHistoryRepository(nil)
	log := logrus.New()
	log.SetOutput(io.Discard)
	r.log = log
	return r
}

func TestFilterUpdatableFieldsDropsUnknownKeys(t *testing.T) {
	r := newTestHistoryRepo()

	fields := map[string]interface{}{
		"state":         "completed",
		"success_count": 10,
		"user_id":       99,         // fixed at creation
		"filename":      "evil.xlsx", // fixed at creation
		"id":            1,
		"import_id":     "other",
	}

	filtered := r.filterUpdatableFields("abc-123", fields)
	if len(filtered) != 2 {
		t.Fatalf("filtered = %v, want only the 2 whitelisted keys", filtered)
	}
	if filtered["state"] != "completed" || filtered["success_count"] != 10 {
		t.Errorf("filtered = %v, whitelisted values were altered", filtered)
	}
}

func TestUpdateByImportIDEmptyAfterFilterIsNoOp(t *testing.T) {
	// db is nil; touching it would panic, so success proves no query ran.
	r := newTestHistoryRepo()

	if err := r.UpdateByImportID("abc-123", map[string]interface{}{}); err != nil {
		t.Errorf("empty update returned error: %v", err)
	}
	if err := r.UpdateByImportID("abc-123", map[string]interface{}{"user_id": 1, "id": 2}); err != nil {
		t.Errorf("fully-filtered update returned error: %v", err)
	}
}

func TestIsUpdatableHistoryColumn(t *testing.T) {
	for _, col := range historyUpdatableColumns {
		if !isUpdatableHistoryColumn(col) {
			t.Errorf("whitelisted column %q not recognized", col)
		}
	}
	for _, col := range []string{"user_id", "filename", "total_rows", "created_at", "updated_at", "import_id", ""} {
		if isUpdatableHistoryColumn(col) {
			t.Errorf("column %q must not be updatable", col)
		}
	}
}
