// ABOUTME: Fact represents a durable (subject, key, value) assertion about a person
// ABOUTME: Facts are append-only; the newest row for a (subject, key) is authoritative
package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// DefaultSubject is the subject used for facts about the primary user
const DefaultSubject = "me"

// Fact represents a stored assertion about a subject
type Fact struct {
	ID        int64     `json:"id" yaml:"id"`
	Subject   string    `json:"subject" yaml:"subject"`
	Key       string    `json:"key" yaml:"key"`
	Value     string    `json:"value" yaml:"value"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewFact creates a normalized Fact, rejecting keys outside [a-z0-9_]+
func NewFact(subject, key, value string) (*Fact, error) {
	key = NormalizeKey(key)
	if !ValidKey(key) {
		return nil, errors.New("key must match [a-z0-9_]+")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errors.New("value cannot be empty")
	}
	return &Fact{
		Subject:   NormalizeSubject(subject),
		Key:       key,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NormalizeSubject lowercases and trims a subject, defaulting to "me"
func NormalizeSubject(subject string) string {
	s := strings.ToLower(strings.TrimSpace(subject))
	if s == "" {
		return DefaultSubject
	}
	return s
}

// ValidKey reports whether an already normalized key matches [a-z0-9_]+
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// NormalizeKey lowercases and trims a fact key
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// String renders the fact as key=value
func (f Fact) String() string {
	return f.Key + "=" + f.Value
}
