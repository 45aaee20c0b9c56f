package registry

import (
	"sync"
	"testing"
	"time"

	"groupgate/entity"
)

func TestIssueAddsOutstandingCode(t *testing.T) {
	r := New(FormatNumeric, 6)

	code, err := r.Issue(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}
	for _, ch := range code {
		if ch < '0' || ch > '9' {
			t.Fatalf("expected numeric code, got %q", code)
		}
	}
	if r.Outstanding() != 1 {
		t.Fatalf("expected 1 outstanding code, got %d", r.Outstanding())
	}
}

func TestIssueTokenFormat(t *testing.T) {
	r := New(FormatToken, 8)

	code, err := r.Issue(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 8 {
		t.Fatalf("expected 8-char token, got %q", code)
	}
}

func TestRedeemConsumesCode(t *testing.T) {
	r := New(FormatNumeric, 6)
	code, _ := r.Issue(1)

	if !r.Redeem(code) {
		t.Fatal("expected first redemption to succeed")
	}
	if r.Redeem(code) {
		t.Fatal("expected second redemption to fail")
	}
	if r.Outstanding() != 0 {
		t.Fatalf("expected empty registry, got %d codes", r.Outstanding())
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	r := New(FormatNumeric, 6)
	if r.Redeem("000000") {
		t.Fatal("expected redemption of unknown code to fail")
	}
}

func TestRedeemIsCaseSensitive(t *testing.T) {
	r := New(FormatToken, 8)
	r.Restore([]entity.ActivationCode{{Code: "AbCd1234"}})

	if r.Redeem("abcd1234") {
		t.Fatal("expected case mismatch to fail")
	}
	if !r.Redeem("AbCd1234") {
		t.Fatal("expected exact match to succeed")
	}
}

// Two callers racing on the same code must yield exactly one success.
func TestConcurrentRedeemSingleSuccess(t *testing.T) {
	for i := 0; i < 50; i++ {
		r := New(FormatNumeric, 6)
		code, _ := r.Issue(1)

		const callers = 16
		results := make(chan bool, callers)
		var start sync.WaitGroup
		start.Add(1)

		for j := 0; j < callers; j++ {
			go func() {
				start.Wait()
				results <- r.Redeem(code)
			}()
		}
		start.Done()

		successes := 0
		for j := 0; j < callers; j++ {
			if <-results {
				successes++
			}
		}
		if successes != 1 {
			t.Fatalf("expected exactly 1 successful redemption, got %d", successes)
		}
		if r.Outstanding() != 0 {
			t.Fatalf("expected code absent after redemption, got %d outstanding", r.Outstanding())
		}
	}
}

func TestMultipleOutstandingCodes(t *testing.T) {
	r := New(FormatNumeric, 6)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := r.Issue(1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate outstanding code issued: %q", code)
		}
		seen[code] = true
	}
	if r.Outstanding() != 20 {
		t.Fatalf("expected 20 outstanding codes, got %d", r.Outstanding())
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	r := New(FormatNumeric, 6)
	codes := []entity.ActivationCode{
		{Code: "111111", CreatedBy: 1, CreatedAt: time.Now().UTC()},
		{Code: "222222", CreatedBy: 1, CreatedAt: time.Now().UTC()},
	}
	r.Restore(codes)

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 codes in snapshot, got %d", len(snap))
	}

	other := New(FormatNumeric, 6)
	other.Restore(snap)
	if !other.Redeem("111111") || !other.Redeem("222222") {
		t.Fatal("expected restored codes to be redeemable")
	}
}
