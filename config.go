package memcheck

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHost    = "127.0.0.1"
	DefaultPort    = 6379
	DefaultTimeout = 2 * time.Second
)

// Config describes one probe run.
// Warn and Critical are pointers so an unset threshold can be told apart
// from an explicit 0.
type Config struct {
	Host     string        `yaml:"server" validate:"required"`
	Port     int           `yaml:"port" validate:"min=1,max=65535"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password" validate:"required_with=Username"`
	Warn     *float64      `yaml:"warn" validate:"required,min=0"`
	Critical *float64      `yaml:"critical" validate:"required,min=0"`
	Timeout  time.Duration `yaml:"timeout" validate:"gt=0"`

	// BlankLineFraming ends the INFO reply at the first blank line instead
	// of reading exactly the advertised bulk length.
	BlankLineFraming bool `yaml:"blank_line_framing"`

	// Textfile, when set, receives the memory gauges in Prometheus text format.
	Textfile string `yaml:"textfile"`

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger `yaml:"-" validate:"-"`
}

// DefaultConfig returns a config targeting the local default port.
// Thresholds are left unset.
func DefaultConfig() Config {
	return Config{
		Host:    DefaultHost,
		Port:    DefaultPort,
		Timeout: DefaultTimeout,
	}
}

// LoadConfigFile merges the YAML file at path into cfg.
// Keys absent from the file keep their current value.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config file name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks ranges and required fields.
func (c *Config) Validate() error {
	cfgErr := &ConfigError{}

	err := validate.Struct(c)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			cfgErr.Problems = append(cfgErr.Problems, formatFieldError(fe))
		}
	} else if err != nil {
		return err
	}

	if c.Warn != nil && c.Critical != nil && *c.Warn > *c.Critical {
		cfgErr.Problems = append(cfgErr.Problems, "warn must not exceed critical")
	}

	if len(cfgErr.Problems) > 0 {
		return cfgErr
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "required_with":
		return fe.Field() + " is required when username is set"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// Addr returns host:port.
func (c Config) Addr() string {
	return c.Target().Addr()
}

// Target returns the connection parameters.
func (c Config) Target() Target {
	return Target{Host: c.Host, Port: c.Port, Timeout: c.Timeout}
}

// Credentials returns the AUTH credentials, or nil when no password is set.
func (c Config) Credentials() *Credentials {
	if c.Password == "" {
		return nil
	}
	return &Credentials{Username: c.Username, Password: c.Password}
}

// Thresholds returns the configured thresholds; unset ones are 0.
func (c Config) Thresholds() Thresholds {
	var t Thresholds
	if c.Warn != nil {
		t.Warn = *c.Warn
	}
	if c.Critical != nil {
		t.Critical = *c.Critical
	}
	return t
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Target is the server a probe connects to.
type Target struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// Addr returns host:port.
func (t Target) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// Credentials authenticate the connection. Username is optional (ACL user).
type Credentials struct {
	Username string
	Password string
}
