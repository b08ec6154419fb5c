package database

// Config holds storage connection settings.
type Config struct {
	// Driver selects the backend: "postgres" (default) or "sqlite".
	Driver string `yaml:"driver" envconfig:"DB_DRIVER"`

	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`

	// Path is the database file location for the sqlite driver.
	Path string `yaml:"path" envconfig:"DB_PATH"`
}

const (
	// DriverPostgres selects the lib/pq backend.
	DriverPostgres = "postgres"
	// DriverSQLite selects the modernc.org/sqlite backend.
	DriverSQLite = "sqlite"
)

// ResolvedDriver returns the configured driver, defaulting to postgres.
func (c Config) ResolvedDriver() string {
	if c.Driver == DriverSQLite {
		return DriverSQLite
	}
	return DriverPostgres
}
