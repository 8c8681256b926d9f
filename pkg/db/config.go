package db

import (
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

const defaultListPageSize = 256

// DefaultConfig returns a configuration with sensible pool and driver defaults.
// Connection settings (host, database, credentials) are left for the caller.
func DefaultConfig() *Config {
	return &Config{
		Port:            3306,
		Charset:         "utf8mb4",
		Collation:       "utf8mb4_unicode_ci",
		TimeZone:        "UTC",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		PrepareStmt:     true,
		ListPageSize:    defaultListPageSize,
		Logging: LoggingConfig{
			Level:              "error",
			SlowQueryThreshold: 200 * time.Millisecond,
		},
	}
}

// Validate checks if the database configuration is valid
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("database port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Username == "" {
		return fmt.Errorf("database username is required")
	}
	if err := c.validatePool(); err != nil {
		return err
	}

	if c.SSL.Enabled && !c.SSL.SkipVerify {
		if err := c.validateTLSFiles(); err != nil {
			return fmt.Errorf("TLS configuration error: %w", err)
		}
	}

	return nil
}

// validatePool checks the settings that apply to every dialect
func (c *Config) validatePool() error {
	if c.MaxOpenConns < 1 {
		return fmt.Errorf("max_open_conns must be at least 1")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns cannot be greater than max_open_conns")
	}
	if c.ListPageSize < 0 {
		return fmt.Errorf("list_page_size must not be negative")
	}
	if _, err := tlsVersion(c.SSL.MinVersion); err != nil {
		return err
	}
	return nil
}

func (c *Config) listPageSize() int {
	if c.ListPageSize <= 0 {
		return defaultListPageSize
	}
	return c.ListPageSize
}

// validateTLSFiles validates that TLS certificate files exist and are readable
func (c *Config) validateTLSFiles() error {
	if c.SSL.CAFile != "" {
		if _, err := os.Stat(c.SSL.CAFile); err != nil {
			return fmt.Errorf("CA file not accessible: %w", err)
		}
	}

	// Both cert and key must be provided together
	if c.SSL.CertFile != "" || c.SSL.KeyFile != "" {
		if c.SSL.CertFile == "" || c.SSL.KeyFile == "" {
			return fmt.Errorf("both CertFile and KeyFile must be provided together")
		}
		if _, err := os.Stat(c.SSL.CertFile); err != nil {
			return fmt.Errorf("client certificate file not accessible: %w", err)
		}
		if _, err := os.Stat(c.SSL.KeyFile); err != nil {
			return fmt.Errorf("client key file not accessible: %w", err)
		}
	}

	return nil
}

// DSN returns the MySQL Data Source Name built with the driver's config builder.
// When TLS verification is enabled the TLS config is registered with the driver
// under a name derived from the certificate settings.
func (c *Config) DSN() (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = c.Username
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	cfg.DBName = c.Database
	cfg.Collation = c.Collation
	cfg.Loc = parseLocation(c.TimeZone)
	cfg.ParseTime = true
	cfg.AllowNativePasswords = true
	if c.Charset != "" {
		cfg.Params = map[string]string{"charset": c.Charset}
	}

	if c.SSL.Enabled {
		name, err := c.registerTLS()
		if err != nil {
			return "", err
		}
		cfg.TLSConfig = name
	}

	return cfg.FormatDSN(), nil
}

func (c *Config) registerTLS() (string, error) {
	if c.SSL.SkipVerify {
		return "skip-verify", nil
	}

	minVersion, err := tlsVersion(c.SSL.MinVersion)
	if err != nil {
		return "", err
	}
	tlsConfig := &tls.Config{
		ServerName: c.SSL.ServerName,
		MinVersion: minVersion,
	}

	if c.SSL.CAFile != "" {
		caCert, err := os.ReadFile(c.SSL.CAFile)
		if err != nil {
			return "", fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return "", fmt.Errorf("CA file %s contains no valid certificate", c.SSL.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	if c.SSL.CertFile != "" && c.SSL.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(c.SSL.CertFile, c.SSL.KeyFile)
		if err != nil {
			return "", fmt.Errorf("load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	name := c.tlsConfigName()
	if err := mysql.RegisterTLSConfig(name, tlsConfig); err != nil {
		return "", fmt.Errorf("register TLS config: %w", err)
	}
	return name, nil
}

// tlsConfigName hashes the SSL settings so distinct configs never share a registration
func (c *Config) tlsConfigName() string {
	h := sha256.New()
	h.Write([]byte(c.SSL.CAFile))
	h.Write([]byte(c.SSL.CertFile))
	h.Write([]byte(c.SSL.KeyFile))
	h.Write([]byte(c.SSL.ServerName))
	h.Write([]byte(c.SSL.MinVersion))
	return "raritycache_tls_" + hex.EncodeToString(h.Sum(nil))[:16]
}

func tlsVersion(v string) (uint16, error) {
	switch strings.ToUpper(strings.ReplaceAll(v, " ", "")) {
	case "":
		return 0, nil
	case "TLS1.2":
		return tls.VersionTLS12, nil
	case "TLS1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS min_version %q", v)
	}
}

// parseLocation parses timezone string to *time.Location, falling back to UTC
func parseLocation(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
