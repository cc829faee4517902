package config

import (
	"context"
	"os"

	"flightcode-go/bus"
	"flightcode-go/errcode"
	"flightcode-go/services/boardinit"
	"flightcode-go/types"
	"flightcode-go/x/ctxlog"
	"flightcode-go/x/strx"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"

	KeyBoard     = "board"
	KeyHeartbeat = "heartbeat"
	KeyLog       = "log"
	KeyBridge    = "bridge"
)

// Document is one variant's startup configuration.
type Document struct {
	Board     boardinit.Plan `yaml:"board"`
	Heartbeat Heartbeat      `yaml:"heartbeat"`
	Log       Log            `yaml:"log"`
	Bridge    Bridge         `yaml:"bridge"`
}

type Heartbeat struct {
	IntervalMs uint32 `yaml:"interval_ms"` // 0 => service default
}

// Bridge relays one com role to another; zero roles use vcp -> bridge.
type Bridge struct {
	Enabled bool       `yaml:"enabled"`
	From    types.Role `yaml:"from,omitempty"`
	To      types.Role `yaml:"to,omitempty"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(v types.Variant) ([]byte, bool) {
	b, ok := embeddedConfigs[v]
	return b, ok
}

// Decode parses and validates a configuration document.
func Decode(raw []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, &errcode.E{C: errcode.InvalidParams, Op: "config", Msg: err.Error(), Err: err}
	}
	if err := doc.Board.Validate(); err != nil {
		return Document{}, err
	}
	doc.Log.Level = strx.Coalesce(doc.Log.Level, "info")
	doc.Log.Format = strx.Coalesce(doc.Log.Format, "text")
	return doc, nil
}

// Load returns the embedded configuration for variant v.
func Load(v types.Variant) (Document, error) {
	raw, ok := EmbeddedConfigLookup(v)
	if !ok || len(raw) == 0 {
		return Document{}, errcode.Wrap(errcode.InvalidParams, "config", "no embedded config for "+v.String())
	}
	doc, err := Decode(raw)
	if err != nil {
		return Document{}, err
	}
	if doc.Board.Variant != v {
		return Document{}, errcode.Wrap(errcode.InvalidParams, "config",
			"embedded config for "+v.String()+" names "+doc.Board.Variant.String())
	}
	return doc, nil
}

// LoadFile reads a configuration document from path.
func LoadFile(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return Decode(raw)
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
	doc  Document
}

func NewConfigService(doc Document) *ConfigService {
	return &ConfigService{Name: serviceName, doc: doc}
}

// Publish places each section on config/<key> as a retained message.
func (s *ConfigService) Publish(conn *bus.Connection) {
	sections := []struct {
		key string
		val any
	}{
		{KeyBoard, s.doc.Board},
		{KeyHeartbeat, s.doc.Heartbeat},
		{KeyLog, s.doc.Log},
		{KeyBridge, s.doc.Bridge},
	}
	for _, sec := range sections {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, sec.key), sec.val, true))
	}
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		s.Publish(conn)
		ctxlog.FromContext(ctx).Debug("config published", "service", s.Name, "variant", s.doc.Board.Variant.String())
	}()
}
