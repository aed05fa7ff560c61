package config

import (
	"os"
	"path"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Server         Server   `yaml:"server"`
	SweepInterval  int      `yaml:"sweep_interval"` // seconds between expiry sweeps
	MaxImageBytes  int64    `yaml:"max_image_bytes"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
	RecentLimit    int      `yaml:"recent_limit"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	LogLevel       string   `yaml:"log_level"`
	LogJSON        bool     `yaml:"log_json"`
}

type Server struct {
	Port            int `yaml:"port"`
	ShutdownTimeout int `yaml:"shutdown_timeout"` // seconds
}

type Private struct {
	Pg Pg `yaml:"pg"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Public.SweepInterval) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Public.Server.ShutdownTimeout) * time.Second
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyEnv()
	cfg.applyDefaults()
	cfg.mustValidate()
	return cfg
}

// applyEnv lets deployment environments override connection settings
// without editing the yaml files.
func (c *Config) applyEnv() {
	if v := os.Getenv("PG_HOST"); v != "" {
		c.Private.Pg.Host = v
	}
	if v := os.Getenv("PG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Private.Pg.Port = port
		}
	}
	if v := os.Getenv("PG_USER"); v != "" {
		c.Private.Pg.User = v
	}
	if v := os.Getenv("PG_PASSWORD"); v != "" {
		c.Private.Pg.Password = v
	}
	if v := os.Getenv("PG_DBNAME"); v != "" {
		c.Private.Pg.Dbname = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Public.Server.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Public.Server.Port == 0 {
		c.Public.Server.Port = 8080
	}
	if c.Public.Server.ShutdownTimeout == 0 {
		c.Public.Server.ShutdownTimeout = 10
	}
	if c.Public.SweepInterval == 0 {
		c.Public.SweepInterval = 60
	}
	if c.Public.MaxImageBytes == 0 {
		c.Public.MaxImageBytes = 10 << 20
	}
	if c.Public.MaxBodyBytes == 0 {
		c.Public.MaxBodyBytes = 50 << 20
	}
	if c.Public.RecentLimit == 0 {
		c.Public.RecentLimit = 50
	}
	if c.Public.LogLevel == "" {
		c.Public.LogLevel = "info"
	}
	if c.Private.Pg.Port == 0 {
		c.Private.Pg.Port = 5432
	}
}

func (c *Config) mustValidate() {
	if c.Private.Pg.Host == "" {
		panic("pg host is required")
	}
	if c.Private.Pg.User == "" {
		panic("pg user is required")
	}
	if c.Private.Pg.Dbname == "" {
		panic("pg dbname is required")
	}
}
