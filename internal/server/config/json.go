package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/storefront/internal/flagx"
	"github.com/dmitrijs2005/storefront/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations use timex.Duration so
// both "10s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP  string          `json:"endpoint_addr_http"`
	DatabaseDSN       string          `json:"database_dsn"`
	ShutdownTimeout   timex.Duration  `json:"shutdown_timeout"`
	ReadHeaderTimeout timex.Duration  `json:"read_header_timeout"`
	MaxOpenConns      *int            `json:"max_open_conns"`
	LogLevel          string          `json:"log_level"`
	DBPingInterval    *timex.Duration `json:"db_ping_interval"`
	DBMaxPingFailures *int            `json:"db_max_ping_failures"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// Keys missing from the file keep their current values. An unreadable file
// or invalid JSON panics.
func parseJson(config *Config) {

	path := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.ReadHeaderTimeout.Duration != 0 {
		config.ReadHeaderTimeout = c.ReadHeaderTimeout.Duration
	}
	if c.MaxOpenConns != nil {
		config.MaxOpenConns = *c.MaxOpenConns
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.DBPingInterval != nil {
		config.DBPingInterval = c.DBPingInterval.Duration
	}
	if c.DBMaxPingFailures != nil {
		config.DBMaxPingFailures = *c.DBMaxPingFailures
	}
}
