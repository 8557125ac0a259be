package refnum

import (
	"context"
	"regexp"
	"testing"
)

func TestGenerate_Format(t *testing.T) {
	polPattern := regexp.MustCompile(`^POL\d{10}$`)
	clmPattern := regexp.MustCompile(`^CLM\d{10}$`)

	for i := 0; i < 50; i++ {
		n, err := Generate(PolicyPrefix)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if !polPattern.MatchString(n) {
			t.Errorf("Invalid policy number format: %s", n)
		}

		n, err = Generate(ClaimPrefix)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if !clmPattern.MatchString(n) {
			t.Errorf("Invalid claim number format: %s", n)
		}
	}
}

func TestUnique_RetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(ctx context.Context, number string) (bool, error) {
		calls++
		return calls < 3, nil
	}

	n, err := Unique(context.Background(), PolicyPrefix, exists)
	if err != nil {
		t.Fatalf("Unique failed: %v", err)
	}
	if n == "" {
		t.Error("Expected a number after retries")
	}
	if calls != 3 {
		t.Errorf("Expected 3 existence checks, got %d", calls)
	}
}

func TestUnique_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	exists := func(ctx context.Context, number string) (bool, error) {
		calls++
		return true, nil
	}

	if _, err := Unique(context.Background(), ClaimPrefix, exists); err == nil {
		t.Fatal("Expected error when every candidate collides")
	}
	if calls != maxAttempts {
		t.Errorf("Expected %d attempts, got %d", maxAttempts, calls)
	}
}
