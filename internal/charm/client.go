// ABOUTME: Charm KV mirror of the latest remembered facts
// ABOUTME: Pushes one key per (subject, key) so linked devices share what Nova knows
package charm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"go.uber.org/zap"

	"github.com/harper/nova/internal/config"
	"github.com/harper/nova/internal/logging"
	"github.com/harper/nova/internal/models"
)

// FactPrefix namespaces mirrored facts
const FactPrefix = "fact:"

// Config holds charm connection settings
type Config struct {
	Host   string
	DBName string
}

// ConfigFrom takes the charm settings out of the app config
func ConfigFrom(cfg *config.Config) *Config {
	c := &Config{Host: "cloud.charm.sh", DBName: "nova"}
	if cfg == nil {
		return c
	}
	if cfg.CharmHost != "" {
		c.Host = cfg.CharmHost
	}
	if cfg.CharmDBName != "" {
		c.DBName = cfg.CharmDBName
	}
	return c
}

// KV is the part of the charm key-value store the mirror needs
type KV interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Keys() ([][]byte, error)
	Sync() error
	Close() error
}

// FactSource supplies the newest value per (subject, key)
type FactSource interface {
	LatestFacts() []models.Fact
}

// MirroredFact is the JSON document stored under a fact key
type MirroredFact struct {
	Subject   string    `json:"subject"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Mirror wraps a charm KV database holding mirrored facts
type Mirror struct {
	kv     KV
	config *Config
	logger *zap.Logger
	mu     sync.Mutex
}

// Open connects to charm KV. CHARM_HOST is exported first because the
// charm client reads it from the environment.
func Open(cfg *Config, logger *zap.Logger) (*Mirror, error) {
	if cfg == nil {
		cfg = ConfigFrom(nil)
	}
	if err := os.Setenv("CHARM_HOST", cfg.Host); err != nil {
		return nil, fmt.Errorf("failed to set CHARM_HOST: %w", err)
	}

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}
	return NewMirror(db, cfg, logger), nil
}

// NewMirror wraps an already open KV
func NewMirror(db KV, cfg *Config, logger *zap.Logger) *Mirror {
	if cfg == nil {
		cfg = ConfigFrom(nil)
	}
	return &Mirror{
		kv:     db,
		config: cfg,
		logger: logging.OrNop(logger).Named("charm"),
	}
}

// Host returns the charm server this mirror talks to
func (m *Mirror) Host() string {
	return m.config.Host
}

// Close closes the KV database
func (m *Mirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.kv == nil {
		return nil
	}
	err := m.kv.Close()
	m.kv = nil
	return err
}

// FactKey is the KV key for a (subject, key) pair
func FactKey(subject, key string) string {
	return FactPrefix + models.NormalizeSubject(subject) + ":" + models.NormalizeKey(key)
}

// PushFacts writes every fact from src whose value changed since the last
// push, then syncs once. It returns how many keys were written.
func (m *Mirror) PushFacts(src FactSource) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.kv == nil {
		return 0, fmt.Errorf("charm kv is closed")
	}

	written := 0
	for _, f := range src.LatestFacts() {
		key := []byte(FactKey(f.Subject, f.Key))
		doc, err := json.Marshal(MirroredFact{
			Subject:   f.Subject,
			Key:       f.Key,
			Value:     f.Value,
			UpdatedAt: f.CreatedAt,
		})
		if err != nil {
			return written, fmt.Errorf("failed to marshal fact %s: %w", key, err)
		}

		if current, err := m.kv.Get(key); err == nil && bytes.Equal(current, doc) {
			continue
		}
		if err := m.kv.Set(key, doc); err != nil {
			return written, fmt.Errorf("failed to set key %s: %w", key, err)
		}
		written++
	}

	if written > 0 {
		if err := m.kv.Sync(); err != nil {
			return written, fmt.Errorf("failed to sync: %w", err)
		}
	}
	m.logger.Debug("pushed facts", zap.Int("written", written))
	return written, nil
}

// Facts lists the mirrored facts currently in the KV
func (m *Mirror) Facts() ([]MirroredFact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.kv == nil {
		return nil, fmt.Errorf("charm kv is closed")
	}

	keys, err := m.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var out []MirroredFact
	for _, key := range keys {
		if !strings.HasPrefix(string(key), FactPrefix) {
			continue
		}
		data, err := m.kv.Get(key)
		if err != nil || data == nil {
			continue
		}
		var f MirroredFact
		if err := json.Unmarshal(data, &f); err != nil {
			m.logger.Warn("skipping malformed mirrored fact", zap.String("key", string(key)), zap.Error(err))
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// Sync manually triggers a sync with the charm server
func (m *Mirror) Sync() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.kv == nil {
		return fmt.Errorf("charm kv is closed")
	}
	return m.kv.Sync()
}

// ID returns the charm user ID for the local SSH key
func ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}
