package models

import (
	"encoding/json"
	"testing"
)

func TestParseAttempts(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Attempts
		wantErr bool
	}{
		{name: "number", input: "3", want: 3},
		{name: "padded number", input: " 5 ", want: 5},
		{name: "unlimited", input: "unlimited", want: UnlimitedAttempts},
		{name: "unlimited any case", input: "Unlimited", want: UnlimitedAttempts},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-2", wantErr: true},
		{name: "word", input: "lots", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAttempts(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAttempts(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAttempts(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAttemptsJSON(t *testing.T) {
	tests := []struct {
		attempts Attempts
		json     string
	}{
		{3, `3`},
		{UnlimitedAttempts, `"unlimited"`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.attempts)
		if err != nil {
			t.Fatalf("Marshal(%v) failed: %v", tt.attempts, err)
		}
		if string(data) != tt.json {
			t.Errorf("Marshal(%v) = %s, want %s", tt.attempts, data, tt.json)
		}
	}

	inputs := map[string]Attempts{
		`4`:           4,
		`"7"`:         7,
		`"unlimited"`: UnlimitedAttempts,
		`"UNLIMITED"`: UnlimitedAttempts,
	}
	for input, want := range inputs {
		var got Attempts
		if err := json.Unmarshal([]byte(input), &got); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", input, err)
		}
		if got != want {
			t.Errorf("Unmarshal(%s) = %v, want %v", input, got, want)
		}
	}

	var bad Attempts
	if err := json.Unmarshal([]byte(`"many"`), &bad); err == nil {
		t.Error("expected error for non-numeric attempts")
	}
}

func TestAttemptsLimit(t *testing.T) {
	if got := Attempts(3).Limit(); got != 3 {
		t.Errorf("Limit() = %d, want 3", got)
	}
	if got := UnlimitedAttempts.Limit(); got != 0 {
		t.Errorf("unlimited Limit() = %d, want 0", got)
	}
	if !Attempts(0).IsUnlimited() {
		t.Error("expected zero attempts to mean unlimited")
	}
	if got := UnlimitedAttempts.String(); got != "unlimited" {
		t.Errorf("String() = %q, want unlimited", got)
	}
}

func TestAssignmentOptions(t *testing.T) {
	options := DefaultOptions()
	if options.MaxAttempts() != 0 {
		t.Errorf("default MaxAttempts() = %d, want 0", options.MaxAttempts())
	}
	if options.RevealsAfterMax() {
		t.Error("expected no reveal by default")
	}

	options.RevealAnswerAfterMaxAttempts = BoolPtr(true)
	if !options.RevealsAfterMax() {
		t.Error("expected the older reveal flag to be honored")
	}

	options.RevealAfterMax = BoolPtr(false)
	if options.RevealsAfterMax() {
		t.Error("expected revealAfterMax to take precedence")
	}

	options.AttemptsPerItem = AttemptsPtr(4)
	if options.MaxAttempts() != 4 {
		t.Errorf("MaxAttempts() = %d, want 4", options.MaxAttempts())
	}
}

func TestSummaryUnmarshalLegacy(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Summary
	}{
		{
			name:  "current",
			input: `{"total":3,"solvedWithinMax":2,"firstTry":1,"reveals":1,"avgAttempts":1.5}`,
			want:  Summary{Total: 3, SolvedWithinMax: 2, FirstTry: 1, Reveals: 1, AvgAttempts: 1.5},
		},
		{
			name:  "legacy correct",
			input: `{"correct":2,"total":3,"reveals":1}`,
			want:  Summary{Total: 3, SolvedWithinMax: 2, Reveals: 1},
		},
		{
			name:  "both prefers solvedWithinMax",
			input: `{"correct":1,"solvedWithinMax":2}`,
			want:  Summary{SolvedWithinMax: 2},
		},
		{
			name:  "empty",
			input: `{}`,
			want:  Summary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Summary
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProgressKey(t *testing.T) {
	p := StudentProgress{AssignmentID: "ss-1", Student: Student{Name: "Ann Lee"}}
	if got := p.StorageKey(); got != "ss::ss-1::Ann Lee" {
		t.Errorf("StorageKey() = %q", got)
	}
	if got := p.NextIndex(); got != 0 {
		t.Errorf("NextIndex() = %d, want 0", got)
	}

	p.Results = []Result{{Index: 0, OK: true, Attempts: 1}}
	if got := p.NextIndex(); got != 1 {
		t.Errorf("NextIndex() = %d, want 1", got)
	}
}

func TestNewUnit(t *testing.T) {
	u := NewUnit(2, "pick up")
	if u.ID != "2-pick up" || u.Text != "pick up" {
		t.Errorf("NewUnit() = %+v", u)
	}
}
