package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/0xAtelerix/talentgraph/library"
)

const sample = `
chainId: 80002
rpcUrl: https://rpc-amoy.polygon.technology
startBlock: 5000000
batchSize: 1000
pollInterval: 3s
contracts:
  serviceRegistry: "0x27ED516dC1df64b4c1517A64aa2Bb72a434a5A6D"
  escrow: "0x0000000000000000000000000000000000000e5c"
ipfs:
  gateway: https://gateway.pinata.cloud
  rps: 2
log:
  level: debug
  console: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "talentgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	require.Equal(t, uint64(library.PolygonAmoyChainID), cfg.ChainID)
	require.Equal(t, uint64(5_000_000), cfg.StartBlock)
	require.Equal(t, uint64(1000), cfg.BatchSize)
	require.Equal(t, 3*time.Second, cfg.PollInterval)
	require.InDelta(t, 2.0, cfg.IPFS.RPS, 0)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Log.Console)

	// untouched defaults
	require.Equal(t, uint64(12), cfg.Confirmations)
	require.Equal(t, DriverMDBX, cfg.Store.Driver)
	require.Equal(t, 50, cfg.IPFS.BatchSize)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvRPCURL, "http://localhost:8545")
	t.Setenv(EnvPostgresDSN, "postgres://indexer@localhost/talentgraph")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8545", cfg.RPCURL)
	require.Equal(t, DriverPostgres, cfg.Store.Driver)
	require.Equal(t, "postgres://indexer@localhost/talentgraph", cfg.Store.PostgresDSN)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, sample+"rpcURLs: nope\n"))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := Default()
		cfg.RPCURL = "http://localhost:8545"
		cfg.Contracts.UserID = "0x0000000000000000000000000000000000000001"

		return cfg
	}

	require.NoError(t, valid().Validate())

	cases := map[string]struct {
		mutate func(*Config)
		err    error
	}{
		"unknown chain": {
			mutate: func(c *Config) { c.ChainID = 424242 },
			err:    library.ErrUnknownChain,
		},
		"no rpc": {
			mutate: func(c *Config) { c.RPCURL = "" },
			err:    library.ErrInvalidConfig,
		},
		"zero batch": {
			mutate: func(c *Config) { c.BatchSize = 0 },
			err:    library.ErrInvalidConfig,
		},
		"no contracts": {
			mutate: func(c *Config) { c.Contracts = ContractsConfig{} },
			err:    library.ErrInvalidConfig,
		},
		"bad address": {
			mutate: func(c *Config) { c.Contracts.Review = "0x1234" },
			err:    library.ErrInvalidConfig,
		},
		"postgres without dsn": {
			mutate: func(c *Config) { c.Store.Driver = DriverPostgres },
			err:    library.ErrInvalidConfig,
		},
		"unknown driver": {
			mutate: func(c *Config) { c.Store.Driver = "bolt" },
			err:    library.ErrInvalidConfig,
		},
		"no document source": {
			mutate: func(c *Config) { c.IPFS.Gateway = "" },
			err:    library.ErrInvalidConfig,
		},
		"zero rps": {
			mutate: func(c *Config) { c.IPFS.RPS = 0 },
			err:    library.ErrInvalidConfig,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tc.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tc.err)
		})
	}
}

func TestApplyEnvIgnoresEmpty(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.applyEnv(func(string) (string, bool) { return "", true })

	require.Equal(t, DriverMDBX, cfg.Store.Driver)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestAddresses(t *testing.T) {
	t.Parallel()

	c := ContractsConfig{
		ServiceRegistry: "0x27ED516dC1df64b4c1517A64aa2Bb72a434a5A6D",
		Escrow:          " ",
	}

	got := c.Addresses()
	require.Equal(t, common.HexToAddress("0x27ed516dc1df64b4c1517a64aa2bb72a434a5a6d"), got.ServiceRegistry)
	require.Equal(t, common.Address{}, got.Escrow)
	require.Equal(t, common.Address{}, got.UserID)
}
