package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/storefront/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-d string     PostgreSQL DSN
//	-t duration   graceful shutdown timeout (e.g. "10s")
//	-r duration   read header timeout
//	-m int        database pool size
//	-l string     log level
//	-p duration   database health check interval
//	-f int        failed health checks before exit
//
// Only these flags are picked from os.Args, so -c/-config and flags owned
// by other components do not break parsing. A malformed value panics.
func parseFlags(config *Config) {
	args := flagx.Pick(os.Args[1:], "a", "d", "t", "r", "m", "l", "p", "f")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage of %s:\n", os.Args[0])
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), envUsage())
	}

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.DurationVar(&config.ShutdownTimeout, "t", config.ShutdownTimeout, "graceful shutdown timeout")
	fs.DurationVar(&config.ReadHeaderTimeout, "r", config.ReadHeaderTimeout, "read header timeout")
	fs.IntVar(&config.MaxOpenConns, "m", config.MaxOpenConns, "max open database connections")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")
	fs.DurationVar(&config.DBPingInterval, "p", config.DBPingInterval, "database health check interval, 0 disables")
	fs.IntVar(&config.DBMaxPingFailures, "f", config.DBMaxPingFailures, "failed health checks before exit, 0 never exits")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
