// ABOUTME: Tests for Fact model creation and normalization
// ABOUTME: Verifies NewFact constructor and error conditions
package models

import (
	"strings"
	"testing"
)

func TestNewFact(t *testing.T) {
	tests := []struct {
		name        string
		subject     string
		key         string
		value       string
		wantSubject string
		wantKey     string
		wantValue   string
		wantErr     bool
		errMsg      string
	}{
		{
			name:        "valid fact",
			subject:     "Mom",
			key:         "birthday",
			value:       "June 5",
			wantSubject: "mom",
			wantKey:     "birthday",
			wantValue:   "June 5",
		},
		{
			name:        "empty subject defaults to me",
			subject:     "  ",
			key:         "Name",
			value:       " Keerthi ",
			wantSubject: "me",
			wantKey:     "name",
			wantValue:   "Keerthi",
		},
		{
			name:    "key with spaces",
			subject: "me",
			key:     "favorite color",
			value:   "blue",
			wantErr: true,
			errMsg:  "key must match",
		},
		{
			name:    "empty key",
			subject: "me",
			key:     "",
			value:   "x",
			wantErr: true,
			errMsg:  "key must match",
		},
		{
			name:    "empty value",
			subject: "me",
			key:     "name",
			value:   "   ",
			wantErr: true,
			errMsg:  "value cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fact, err := NewFact(tt.subject, tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewFact() expected error containing %q", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("NewFact() error = %v, want containing %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFact() unexpected error = %v", err)
			}
			if fact.Subject != tt.wantSubject {
				t.Errorf("Subject = %v, want %v", fact.Subject, tt.wantSubject)
			}
			if fact.Key != tt.wantKey {
				t.Errorf("Key = %v, want %v", fact.Key, tt.wantKey)
			}
			if fact.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", fact.Value, tt.wantValue)
			}
			if fact.CreatedAt.IsZero() {
				t.Error("CreatedAt should be set")
			}
		})
	}
}

func TestFactString(t *testing.T) {
	f := Fact{Key: "name", Value: "Keerthi"}
	if got := f.String(); got != "name=Keerthi" {
		t.Errorf("String() = %v, want name=Keerthi", got)
	}
}

func TestValidKey(t *testing.T) {
	for _, key := range []string{"name", "favorite_color", "phone2"} {
		if !ValidKey(key) {
			t.Errorf("ValidKey(%q) = false, want true", key)
		}
	}
	for _, key := range []string{"", "Name", "e-mail", "favorite color", "naïve"} {
		if ValidKey(key) {
			t.Errorf("ValidKey(%q) = true, want false", key)
		}
	}
}
