package models

// Config is the top-level configuration for the warehouse ETL tool
type Config struct {
	Source    Database  `yaml:"source"`
	Warehouse Database  `yaml:"warehouse"`
	Schema    Schema    `yaml:"schema"`
	Cache     Cache     `yaml:"cache"`
	Benchmark Benchmark `yaml:"benchmark"`
}

// Database holds the connection settings for one MySQL endpoint
type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"database"`
	Charset  string `yaml:"charset"`
}

// Schema holds the warehouse DDL settings
type Schema struct {
	DDLFile string `yaml:"ddl_file"`
}

// Cache configures the report query-result cache
type Cache struct {
	Enabled    bool `yaml:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds"`
}

// Benchmark configures the query benchmarking command
type Benchmark struct {
	Iterations int `yaml:"iterations"`
}

// Defaults fills in zero-valued fields that have sensible defaults
func (c *Config) Defaults() {
	if c.Source.Port == 0 {
		c.Source.Port = 3306
	}
	if c.Warehouse.Port == 0 {
		c.Warehouse.Port = 3307
	}
	if c.Source.Charset == "" {
		c.Source.Charset = "utf8mb4"
	}
	if c.Warehouse.Charset == "" {
		c.Warehouse.Charset = "utf8mb4"
	}
	if c.Schema.DDLFile == "" {
		c.Schema.DDLFile = "sql/setup_dw.sql"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
	if c.Benchmark.Iterations == 0 {
		c.Benchmark.Iterations = 10
	}
}
