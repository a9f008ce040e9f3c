package ids

import (
	"regexp"
	"testing"
	"time"
)

func TestNewAssignmentID(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 42*int(time.Millisecond), time.UTC)
	pattern := regexp.MustCompile(`^ss-20240305140709042-[0-9a-z]{6}$`)

	tests := []struct {
		name       string
		iterations int
	}{
		{name: "matches format", iterations: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(map[string]bool)
			for i := 0; i < tt.iterations; i++ {
				id, err := NewAssignmentID(now)
				if err != nil {
					t.Fatalf("NewAssignmentID() error = %v", err)
				}
				if !pattern.MatchString(id) {
					t.Errorf("NewAssignmentID() = %q, does not match %s", id, pattern)
				}
				seen[id] = true
			}
			if len(seen) < tt.iterations/2 {
				t.Errorf("expected mostly unique ids, got %d distinct of %d", len(seen), tt.iterations)
			}
		})
	}
}

func TestNewAssignmentIDUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 3, 5, 16, 7, 9, 0, loc)

	id, err := NewAssignmentID(now)
	if err != nil {
		t.Fatalf("NewAssignmentID() error = %v", err)
	}
	if id[:20] != "ss-20240305140709000" {
		t.Errorf("NewAssignmentID() = %q, want UTC timestamp", id)
	}
}

func TestNewSeed(t *testing.T) {
	a, b := NewSeed(), NewSeed()
	if len(a) != 12 {
		t.Errorf("NewSeed() length = %d, want 12", len(a))
	}
	if a == b {
		t.Errorf("NewSeed() returned the same seed twice: %q", a)
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{id: "ss-20240305140709042-k3x9qa", want: "20240305140709042"},
		{id: "plain", want: "plain"},
		{id: "trailing-", want: "trailing-"},
		{id: "a-b", want: "b"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := ShortID(tt.id); got != tt.want {
				t.Errorf("ShortID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}
