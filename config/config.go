// Package config loads the indexer configuration: a YAML file over defaults,
// then TALENTGRAPH_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/0xAtelerix/talentgraph/library"
	"github.com/0xAtelerix/talentgraph/mapping"
)

const (
	EnvRPCURL      = "TALENTGRAPH_RPC_URL"
	EnvPostgresDSN = "TALENTGRAPH_POSTGRES_DSN"
	EnvLogLevel    = "TALENTGRAPH_LOG_LEVEL"
)

const (
	DriverMDBX     = "mdbx"
	DriverPostgres = "postgres"
)

type Config struct {
	ChainID       uint64        `yaml:"chainId"`
	RPCURL        string        `yaml:"rpcUrl"`
	StartBlock    uint64        `yaml:"startBlock"`
	Confirmations uint64        `yaml:"confirmations"`
	BatchSize     uint64        `yaml:"batchSize"`
	PollInterval  time.Duration `yaml:"pollInterval"`

	Contracts ContractsConfig `yaml:"contracts"`
	Store     StoreConfig     `yaml:"store"`
	IPFS      IPFSConfig      `yaml:"ipfs"`
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
}

type ContractsConfig struct {
	ServiceRegistry string `yaml:"serviceRegistry"`
	PlatformID      string `yaml:"platformId"`
	UserID          string `yaml:"userId"`
	Review          string `yaml:"review"`
	Escrow          string `yaml:"escrow"`
}

type StoreConfig struct {
	Driver      string `yaml:"driver"`
	Path        string `yaml:"path"`
	PostgresDSN string `yaml:"postgresDsn"`
}

type IPFSConfig struct {
	Gateway         string        `yaml:"gateway"`
	Dir             string        `yaml:"dir"` // read documents from disk instead of a gateway
	DirWait         time.Duration `yaml:"dirWait"`
	DirSettle       time.Duration `yaml:"dirSettle"` // quiet period before a written file is read
	RPS             float64       `yaml:"rps"`
	Burst           int           `yaml:"burst"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxDocumentSize int64         `yaml:"maxDocumentSize"`
	BatchSize       int           `yaml:"batchSize"`
	PollInterval    time.Duration `yaml:"pollInterval"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

func Default() *Config {
	return &Config{
		ChainID:       uint64(library.PolygonChainID),
		Confirmations: 12,
		BatchSize:     500,
		PollInterval:  5 * time.Second,
		Store: StoreConfig{
			Driver: DriverMDBX,
			Path:   "./data/talentgraph",
		},
		IPFS: IPFSConfig{
			Gateway:         "https://ipfs.io",
			DirWait:         10 * time.Second,
			DirSettle:       500 * time.Millisecond,
			RPS:             5,
			Burst:           5,
			Timeout:         30 * time.Second,
			MaxDocumentSize: 1 << 20,
			BatchSize:       50,
			PollInterval:    2 * time.Second,
		},
		HTTP: HTTPConfig{
			Addr: ":9090",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path (optional) over Default, applies env overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}

		if err = cfg.decode(raw); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) decode(raw []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvRPCURL); ok && v != "" {
		c.RPCURL = v
	}

	if v, ok := lookup(EnvPostgresDSN); ok && v != "" {
		c.Store.PostgresDSN = v
		c.Store.Driver = DriverPostgres
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

func (c *Config) Validate() error {
	if !library.IsEvmChain(library.ChainType(c.ChainID)) {
		return fmt.Errorf("%w: %d", library.ErrUnknownChain, c.ChainID)
	}

	if c.RPCURL == "" {
		return fmt.Errorf("%w: rpcUrl is required (or %s)", library.ErrInvalidConfig, EnvRPCURL)
	}

	if c.BatchSize == 0 {
		return fmt.Errorf("%w: batchSize must be positive", library.ErrInvalidConfig)
	}

	if err := c.Contracts.validate(); err != nil {
		return err
	}

	switch c.Store.Driver {
	case DriverMDBX:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for mdbx", library.ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("%w: store.postgresDsn is required (or %s)", library.ErrInvalidConfig, EnvPostgresDSN)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", library.ErrInvalidConfig, c.Store.Driver)
	}

	if c.IPFS.Gateway == "" && c.IPFS.Dir == "" {
		return fmt.Errorf("%w: ipfs.gateway or ipfs.dir is required", library.ErrInvalidConfig)
	}

	if c.IPFS.BatchSize <= 0 || c.IPFS.RPS <= 0 || c.IPFS.Burst <= 0 {
		return fmt.Errorf("%w: ipfs batchSize, rps and burst must be positive", library.ErrInvalidConfig)
	}

	return nil
}

func (c ContractsConfig) validate() error {
	set := 0

	for name, addr := range c.byName() {
		if addr == "" {
			continue
		}

		if !common.IsHexAddress(addr) {
			return fmt.Errorf("%w: contracts.%s %q is not a hex address", library.ErrInvalidConfig, name, addr)
		}

		set++
	}

	if set == 0 {
		return fmt.Errorf("%w: no contracts configured", library.ErrInvalidConfig)
	}

	return nil
}

func (c ContractsConfig) byName() map[string]string {
	return map[string]string{
		"serviceRegistry": c.ServiceRegistry,
		"platformId":      c.PlatformID,
		"userId":          c.UserID,
		"review":          c.Review,
		"escrow":          c.Escrow,
	}
}

// Addresses converts the configured contracts; empty entries stay zero and are skipped by the mapper.
func (c ContractsConfig) Addresses() mapping.Contracts {
	addr := func(s string) common.Address {
		if strings.TrimSpace(s) == "" {
			return common.Address{}
		}

		return common.HexToAddress(s)
	}

	return mapping.Contracts{
		ServiceRegistry: addr(c.ServiceRegistry),
		PlatformID:      addr(c.PlatformID),
		UserID:          addr(c.UserID),
		Review:          addr(c.Review),
		Escrow:          addr(c.Escrow),
	}
}
