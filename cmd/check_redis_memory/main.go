package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	memcheck "github.com/nrmn2492/redis-memory-check"
)

const infoText = `
Redis Memory Usage Checker
--------------------------

Connects to a Redis instance and checks memory usage (used_memory_rss, or
used_memory when RSS is unavailable) against the configured maxmemory. The
percentage used decides the result: OK, WARNING or CRITICAL.

Options:

  -s, -server        Redis hostname or IP address (default: 127.0.0.1)
  -p, -port          Redis TCP port (default: 6379)
  -a, -username      Redis ACL username (optional, requires a password)
  -P, -password      Redis password (if required)
  -w, -warn          Warning threshold in percentage of maxmemory (e.g. 80)
  -c, -critical      Critical threshold in percentage of maxmemory (e.g. 90)
  -timeout           Connect and read timeout (default: 2s)
  -config            YAML file with any of the options above; flags win
  -blank-line-framing
                     End the INFO reply at the first blank line instead of
                     reading the advertised length
  -textfile          Also write the result as Prometheus gauges to this file
  -debug=yes         Enable debug output
  -info              Show this help and exit

Exit codes: 0 = OK, 1 = WARNING, 2 = CRITICAL

Expected output examples:

  OK: Redis memory usage is 18MB / 1956MB (0.92%)
  WARNING: Redis memory usage is 1700MB / 1956MB (86.91%)
  CRITICAL: Redis memory usage is 1945MB / 1956MB (99.47%)
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the check and returns the process exit code. Exactly one
// status line is printed to stdout unless -info or -h ends the run first.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := memcheck.DefaultConfig()

	fs := flag.NewFlagSet("check_redis_memory", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.Host, "server", cfg.Host, "Redis hostname or IP address")
	fs.StringVar(&cfg.Host, "s", cfg.Host, "shorthand for -server")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Redis TCP port")
	fs.IntVar(&cfg.Port, "p", cfg.Port, "shorthand for -port")
	fs.StringVar(&cfg.Username, "username", "", "Redis ACL username")
	fs.StringVar(&cfg.Username, "a", "", "shorthand for -username")
	fs.StringVar(&cfg.Password, "password", "", "Redis password")
	fs.StringVar(&cfg.Password, "P", "", "shorthand for -password")
	fs.Var(percentFlag{&cfg.Warn}, "warn", "warning threshold (percent)")
	fs.Var(percentFlag{&cfg.Warn}, "w", "shorthand for -warn")
	fs.Var(percentFlag{&cfg.Critical}, "critical", "critical threshold (percent)")
	fs.Var(percentFlag{&cfg.Critical}, "c", "shorthand for -critical")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "connect and read timeout")
	fs.BoolVar(&cfg.BlankLineFraming, "blank-line-framing", false, "end INFO reply at the first blank line")
	fs.StringVar(&cfg.Textfile, "textfile", "", "write Prometheus gauges to this file")

	configPath := fs.String("config", "", "YAML config file")
	debug := fs.String("debug", "no", "enable debug output (yes/no)")
	info := fs.Bool("info", false, "show usage information and exit")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			fmt.Fprint(stdout, infoText)
			return memcheck.LevelOK.ExitCode()
		}
		fmt.Fprintf(stdout, "%s: %v\n", memcheck.LevelCritical, err)
		return memcheck.LevelCritical.ExitCode()
	}

	if *info {
		fmt.Fprint(stdout, infoText)
		return memcheck.LevelOK.ExitCode()
	}

	if *configPath != "" {
		if err := loadConfig(fs, *configPath, &cfg); err != nil {
			fmt.Fprintf(stdout, "%s: %v\n", memcheck.LevelCritical, err)
			return memcheck.LevelCritical.ExitCode()
		}
	}

	if isEnabled(*debug) {
		cfg.Logger = slog.New(slog.NewTextHandler(stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stdout, memcheck.FailureMessage(cfg.Addr(), err))
		return memcheck.LevelCritical.ExitCode()
	}

	verdict := memcheck.NewProbe(cfg).Run(ctx)

	if cfg.Textfile != "" {
		if err := memcheck.WriteTextfile(cfg.Textfile, cfg.Addr(), verdict); err != nil {
			fmt.Fprintf(stderr, "failed to write textfile: %v\n", err)
		}
	}

	fmt.Fprintln(stdout, verdict.Message)
	return verdict.ExitCode()
}

// loadConfig merges the file into cfg, keeping values of flags given on the
// command line.
func loadConfig(fs *flag.FlagSet, path string, cfg *memcheck.Config) error {
	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	if err := memcheck.LoadConfigFile(path, cfg); err != nil {
		return err
	}

	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

func isEnabled(v string) bool {
	switch strings.ToLower(v) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}

// percentFlag sets a threshold that stays nil until given.
type percentFlag struct {
	p **float64
}

func (f percentFlag) String() string {
	if f.p == nil || *f.p == nil {
		return ""
	}
	return strconv.FormatFloat(**f.p, 'f', -1, 64)
}

func (f percentFlag) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f.p = &v
	return nil
}
