package migrations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"trustrank/internal/platform/store/storetest"
)

func TestNames_Ordered(t *testing.T) {
	got := Names()
	if len(got) != 4 || got[0] != "0001_posts.sql" || got[2] != "0003_moderation_verdicts.sql" || got[3] != "0004_verdicts_pending_posts.sql" {
		t.Fatalf("names=%v", got)
	}
}

func TestApply(t *testing.T) {
	db := &storetest.DB{}
	if err := Apply(context.Background(), db); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	calls := db.Calls()
	if len(calls) != 4 || !strings.Contains(calls[2].SQL, "moderation_verdicts") {
		t.Fatalf("calls=%d", len(calls))
	}
	if !strings.Contains(calls[3].SQL, "drop constraint if exists moderation_verdicts_post_id_fkey") {
		t.Fatalf("post fk kept: %s", calls[3].SQL)
	}
}

func TestApply_StopsOnError(t *testing.T) {
	db := &storetest.DB{ExecErr: errors.New("syntax")}
	err := Apply(context.Background(), db)
	if err == nil || !strings.Contains(err.Error(), "0001_posts.sql") {
		t.Fatalf("err=%v", err)
	}
	if len(db.Calls()) != 1 {
		t.Fatalf("calls=%d", len(db.Calls()))
	}
}
