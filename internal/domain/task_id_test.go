package domain

import (
	"strings"
	"testing"
)

func TestNewTaskID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid dotted numeric", "1.0", false},
		{"valid deep dotted numeric", "2.3.1", false},
		{"valid single number", "7", false},
		{"valid slug", "setup-db", false},
		{"valid slug with numbers", "task-001", false},
		{"valid single letter", "a", false},
		{"empty", "", true},
		{"uppercase slug", "Setup-DB", true},
		{"starts with hyphen", "-task", true},
		{"consecutive hyphens", "task--one", true},
		{"trailing hyphen", "task-", true},
		{"trailing dot", "1.", true},
		{"leading dot", ".1", true},
		{"spaces", "task one", true},
		{"too long", strings.Repeat("a", 101), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewTaskID(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewTaskID(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && id.String() != tt.value {
				t.Errorf("NewTaskID(%q).String() = %q", tt.value, id.String())
			}
		})
	}
}

func TestTaskIDLess(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"numeric segments compare as numbers", "2.0", "10.0", true},
		{"numeric reverse", "10.0", "2.0", false},
		{"equal ids", "1.0", "1.0", false},
		{"prefix sorts first", "1", "1.0", true},
		{"deep dotted", "2.3.1", "2.10.0", true},
		{"slugs use string order", "parser", "store", true},
		{"numeric before slug falls back to string order", "1.0", "setup-db", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TaskID(tt.a).Less(TaskID(tt.b)); got != tt.want {
				t.Errorf("TaskID(%q).Less(%q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTaskIDEquals(t *testing.T) {
	a := TaskID("1.0")
	b := TaskID("1.0")
	c := TaskID("2.0")

	if !a.Equals(b) {
		t.Error("expected 1.0 to equal 1.0")
	}
	if a.Equals(c) {
		t.Error("expected 1.0 to not equal 2.0")
	}
}
