package promotion

import (
	"testing"
	"time"
)

func TestActiveWindow(t *testing.T) {
	now := time.Now()

	fresh := &Promotion{CreatedAt: now.Add(-23*time.Hour - 59*time.Minute)}
	if !fresh.Active(now) {
		t.Fatal("promotion inside 24h must be active")
	}

	stale := &Promotion{CreatedAt: now.Add(-24*time.Hour - time.Minute)}
	if stale.Active(now) {
		t.Fatal("promotion past 24h must be expired")
	}

	boundary := &Promotion{CreatedAt: now.Add(-VisibilityWindow)}
	if boundary.Active(now) {
		t.Fatal("promotion exactly at 24h must be expired")
	}
}
