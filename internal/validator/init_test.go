package validator

import "testing"

func TestPlayerNameTag(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"plain", "Alice", true},
		{"inner space", "Player One", true},
		{"comma", "Smith, Jo", false},
		{"newline", "Bob\nby", false},
		{"carriage return", "Bob\r", false},
		{"leading space", " Bob", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GetValidator().Var(tt.input, "required,playername")
			if (err == nil) != tt.valid {
				t.Errorf("Var(%q) error = %v, want valid=%v", tt.input, err, tt.valid)
			}
		})
	}
}
