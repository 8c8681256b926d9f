package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config holds MySQL/GORM configuration for the SQL backend
type Config struct {
	// Connection Settings
	Host     string `json:"host" yaml:"host" env:"HOST"`
	Port     int    `json:"port" yaml:"port" env:"PORT"`
	Database string `json:"database" yaml:"database" env:"NAME"`
	Username string `json:"username" yaml:"username" env:"USERNAME"`
	Password string `json:"password" yaml:"password" env:"PASSWORD"`

	// Connection Pool Settings
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" yaml:"conn_max_idle_time" env:"CONN_MAX_IDLE_TIME"`

	// MySQL Specific Settings
	Charset   string `json:"charset" yaml:"charset" env:"CHARSET"`       // Default: utf8mb4
	Collation string `json:"collation" yaml:"collation" env:"COLLATION"` // Default: utf8mb4_unicode_ci
	TimeZone  string `json:"timezone" yaml:"timezone" env:"TIMEZONE"`    // Default: UTC

	// GORM Settings
	SkipDefaultTransaction bool `json:"skip_default_transaction" yaml:"skip_default_transaction" env:"SKIP_DEFAULT_TRANSACTION"`
	PrepareStmt            bool `json:"prepare_stmt" yaml:"prepare_stmt" env:"PREPARE_STMT"`

	// ListPageSize is the number of rows read per query while listing. Zero uses the default.
	ListPageSize int `json:"list_page_size" yaml:"list_page_size" env:"LIST_PAGE_SIZE"`

	// SSL Configuration
	SSL SSLConfig `json:"ssl" yaml:"ssl" envPrefix:"SSL_"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging" yaml:"logging" envPrefix:"LOG_"`
}

// SSLConfig holds SSL/TLS configuration for MySQL
type SSLConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled" env:"ENABLED"`
	CertFile   string `json:"cert_file" yaml:"cert_file" env:"CERT_FILE"`
	KeyFile    string `json:"key_file" yaml:"key_file" env:"KEY_FILE"`
	CAFile     string `json:"ca_file" yaml:"ca_file" env:"CA_FILE"`
	SkipVerify bool   `json:"skip_verify" yaml:"skip_verify" env:"SKIP_VERIFY"` // Skip certificate verification (not recommended for production)
	ServerName string `json:"server_name" yaml:"server_name" env:"SERVER_NAME"`
	MinVersion string `json:"min_version" yaml:"min_version" env:"MIN_VERSION"` // TLS1.2, TLS1.3
}

// LoggingConfig controls GORM statement logging. Statements are written
// through the zap logger handed to the manager.
type LoggingConfig struct {
	Level              string        `json:"level" yaml:"level" env:"LEVEL"` // silent, error, warn, info
	SlowQueryThreshold time.Duration `json:"slow_query_threshold" yaml:"slow_query_threshold" env:"SLOW_QUERY_THRESHOLD"`
	LogQueryParameters bool          `json:"log_query_parameters" yaml:"log_query_parameters" env:"QUERY_PARAMETERS"`
}

// Manager manages database connections
type Manager struct {
	config *Config
	db     *gorm.DB
	log    *zap.Logger
}
