// Package config loads server settings from YAML and SKIRMISH_* environment
// variables through Viper.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds top-level server settings.
type ServerConfig struct {
	// Mode is the server operation mode: "standalone", "frontend", or "backend".
	// standalone runs the telnet frontend against an in-process battle service;
	// frontend dials a remote backend over gRPC; backend serves gRPC and HTTP only.
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the connection URL for pgx and golang-migrate. Credentials are
// URL-escaped.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     hostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// StorageConfig selects the character persistence backend.
type StorageConfig struct {
	// Driver is "postgres" or "memory".
	Driver string `mapstructure:"driver"`
}

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the listen address.
func (t TelnetConfig) Addr() string {
	return hostPort(t.Host, t.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameServerConfig holds the battle backend's network settings.
type GameServerConfig struct {
	// GRPCHost is the bind/connect address for the battle gRPC service.
	GRPCHost string `mapstructure:"grpc_host"`
	// GRPCPort is the TCP port for the battle gRPC service.
	GRPCPort int `mapstructure:"grpc_port"`
	// HTTPHost is the bind address for the HTTP bridge used by chat-platform bots.
	HTTPHost string `mapstructure:"http_host"`
	// HTTPPort is the TCP port for the HTTP bridge; 0 disables it.
	HTTPPort int `mapstructure:"http_port"`
}

// Addr returns the gRPC address.
func (g GameServerConfig) Addr() string {
	return hostPort(g.GRPCHost, g.GRPCPort)
}

// HTTPAddr returns the HTTP bridge address.
func (g GameServerConfig) HTTPAddr() string {
	return hostPort(g.HTTPHost, g.HTTPPort)
}

func hostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// BattleConfig holds battle session table settings.
type BattleConfig struct {
	// IdleTimeout is how long a battle may go without an action before it is evicted.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// SweepInterval is how often idle battles are swept.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// ContentConfig holds the locations of static catalog data.
type ContentConfig struct {
	SkillsDir       string `mapstructure:"skills_dir"`
	ItemsDir        string `mapstructure:"items_dir"`
	MobsDir         string `mapstructure:"mobs_dir"`
	ZonesDir        string `mapstructure:"zones_dir"`
	StatCapsFile    string `mapstructure:"stat_caps_file"`
	StartingKitFile string `mapstructure:"starting_kit_file"`
	// ScriptsDir is the root of per-zone Lua scripts; empty disables scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Telnet     TelnetConfig     `mapstructure:"telnet"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	GameServer GameServerConfig `mapstructure:"gameserver"`
	Battle     BattleConfig     `mapstructure:"battle"`
	Content    ContentConfig    `mapstructure:"content"`
}

// problems collects validation failures so every one is reported at once.
type problems []error

func (p *problems) check(ok bool, format string, args ...interface{}) {
	if !ok {
		*p = append(*p, fmt.Errorf(format, args...))
	}
}

func (p *problems) oneOf(key, got string, allowed ...string) {
	p.check(slices.Contains(allowed, got), "%s must be one of [%s], got %q", key, strings.Join(allowed, ", "), got)
}

func (p *problems) port(key string, got, lowest int) {
	p.check(got >= lowest && got <= 65535, "%s must be %d-65535, got %d", key, lowest, got)
}

// Validate reports every violated setting in one error. The database section
// is only checked when storage.driver is postgres; content.scripts_dir is
// optional.
func (c Config) Validate() error {
	var p problems

	p.oneOf("server.mode", c.Server.Mode, "standalone", "frontend", "backend")
	p.oneOf("storage.driver", c.Storage.Driver, "postgres", "memory")

	if c.Storage.Driver == "postgres" {
		d := c.Database
		p.check(d.Host != "", "database.host must not be empty")
		p.port("database.port", d.Port, 1)
		p.check(d.User != "", "database.user must not be empty")
		p.check(d.Name != "", "database.name must not be empty")
		p.oneOf("database.sslmode", d.SSLMode, "disable", "require", "verify-ca", "verify-full")
		p.check(d.MaxConns >= 1, "database.max_conns must be >= 1, got %d", d.MaxConns)
		p.check(d.MinConns >= 0, "database.min_conns must be >= 0, got %d", d.MinConns)
		p.check(d.MinConns <= d.MaxConns, "database.min_conns (%d) exceeds database.max_conns (%d)", d.MinConns, d.MaxConns)
	}

	p.port("telnet.port", c.Telnet.Port, 0)
	p.check(c.Telnet.ReadTimeout >= 0, "telnet.read_timeout must not be negative")
	p.check(c.Telnet.WriteTimeout >= 0, "telnet.write_timeout must not be negative")

	p.oneOf("logging.level", c.Logging.Level, "debug", "info", "warn", "error")
	p.oneOf("logging.format", c.Logging.Format, "json", "console")

	p.check(c.GameServer.GRPCHost != "", "gameserver.grpc_host must not be empty")
	p.port("gameserver.grpc_port", c.GameServer.GRPCPort, 1)
	p.port("gameserver.http_port", c.GameServer.HTTPPort, 0)

	p.check(c.Battle.IdleTimeout > 0, "battle.idle_timeout must be > 0, got %s", c.Battle.IdleTimeout)
	p.check(c.Battle.SweepInterval > 0, "battle.sweep_interval must be > 0, got %s", c.Battle.SweepInterval)

	for key, val := range map[string]string{
		"content.skills_dir":        c.Content.SkillsDir,
		"content.items_dir":         c.Content.ItemsDir,
		"content.mobs_dir":          c.Content.MobsDir,
		"content.zones_dir":         c.Content.ZonesDir,
		"content.stat_caps_file":    c.Content.StatCapsFile,
		"content.starting_kit_file": c.Content.StartingKitFile,
	} {
		p.check(val != "", "%s must not be empty", key)
	}

	if len(p) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(p...))
	}
	return nil
}

// Load reads the YAML file at path over the defaults, applies SKIRMISH_*
// environment overrides (SKIRMISH_LOGGING_LEVEL sets logging.level) and
// validates the result.
func Load(path string) (Config, error) {
	v := Defaults()
	v.SetConfigFile(path)
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper decodes and validates the settings held by v.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaults describes a runnable single-process server with in-memory storage.
var defaults = map[string]map[string]interface{}{
	"server":  {"mode": "standalone"},
	"storage": {"driver": "memory"},
	"database": {
		"host": "localhost", "port": 5432, "user": "skirmish", "password": "skirmish",
		"name": "skirmish", "sslmode": "disable",
		"max_conns": 10, "min_conns": 2, "max_conn_lifetime": "1h",
	},
	"telnet":  {"host": "0.0.0.0", "port": 4000, "read_timeout": "5m", "write_timeout": "30s"},
	"logging": {"level": "info", "format": "json"},
	"gameserver": {
		"grpc_host": "127.0.0.1", "grpc_port": 50051,
		"http_host": "0.0.0.0", "http_port": 8080,
	},
	"battle": {"idle_timeout": "10m", "sweep_interval": "30s"},
	"content": {
		"skills_dir":        "content/skills",
		"items_dir":         "content/items",
		"mobs_dir":          "content/mobs",
		"zones_dir":         "content/zones",
		"stat_caps_file":    "content/stat_caps.yaml",
		"starting_kit_file": "content/starting_kit.yaml",
		"scripts_dir":       "content/scripts",
	},
}

// Defaults returns a Viper instance holding only the default settings.
//
// Postcondition: LoadFromViper(Defaults()) succeeds.
func Defaults() *viper.Viper {
	v := viper.New()
	for section, keys := range defaults {
		for key, val := range keys {
			v.SetDefault(section+"."+key, val)
		}
	}
	return v
}
