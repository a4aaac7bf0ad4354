package db

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsDuplicateEntryErr(t *testing.T) {
	if IsDuplicateEntryErr(nil) {
		t.Errorf("nil is not a duplicate error")
	}
	if IsDuplicateEntryErr(errors.New("connection refused")) {
		t.Errorf("unrelated error misdetected as duplicate")
	}
	if !IsDuplicateEntryErr(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'abc' for key 'idx_verification_image_hash'"}) {
		t.Errorf("mysql duplicate entry code not detected")
	}
	if !IsDuplicateEntryErr(errors.New("UNIQUE constraint failed: verification.image_hash")) {
		t.Errorf("sqlite unique constraint violation not detected")
	}
}
