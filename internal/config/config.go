// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"estoque/internal/core/paging"
	"estoque/internal/domain/reports"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	AppPort string `envconfig:"APP_PORT" default:"8080"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	HTTPReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"60s"`

	DataSources      DataSources   `envconfig:"DATASOURCES" required:"true"`
	ReportDataSource string        `envconfig:"REPORT_DATASOURCE" default:"protheus"`
	TableSuffix      string        `envconfig:"TABLE_SUFFIX" default:"010"`
	QueryTimeout     time.Duration `envconfig:"QUERY_TIMEOUT" default:"5s"`
	DBMaxConns       int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns       int32         `envconfig:"DB_MIN_CONNS" default:"1"`

	PageSizeDefault    int `envconfig:"PAGE_SIZE_DEFAULT" default:"50"`
	PageSizeMax        int `envconfig:"PAGE_SIZE_MAX" default:"1000"`
	SalesMonthsDefault int `envconfig:"SALES_MONTHS_DEFAULT" default:"4"`
}

// DataSources maps a data source name to its connection string.
// The environment form is "name=dsn;name=dsn"; a DSN may contain '=' and ':'.
type DataSources map[string]string

// Decode implements envconfig.Decoder.
func (d *DataSources) Decode(value string) error {
	out := make(DataSources)
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, dsn, ok := strings.Cut(entry, "=")
		name, dsn = strings.TrimSpace(name), strings.TrimSpace(dsn)
		if !ok || name == "" || dsn == "" {
			return fmt.Errorf("invalid data source %q, want name=dsn", entry)
		}
		if _, dup := out[name]; dup {
			return fmt.Errorf("data source %q defined twice", name)
		}
		out[name] = dsn
	}
	*d = out
	return nil
}

// Names returns the data source names in sorted order.
func (d DataSources) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if len(c.DataSources) == 0 {
		return errors.New("at least one data source must be configured")
	}
	if _, ok := c.DataSources[c.ReportDataSource]; !ok {
		return fmt.Errorf("report data source %q is not configured (have %s)",
			c.ReportDataSource, strings.Join(c.DataSources.Names(), ", "))
	}
	if c.QueryTimeout <= 0 {
		return errors.New("query timeout must be positive")
	}
	if c.DBMinConns < 0 || c.DBMaxConns < 1 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid pool size: min %d, max %d", c.DBMinConns, c.DBMaxConns)
	}
	if c.PageSizeDefault < 1 || c.PageSizeMax < 1 {
		return errors.New("page sizes must be positive")
	}
	if c.PageSizeDefault > c.PageSizeMax {
		return fmt.Errorf("default page size %d exceeds max %d", c.PageSizeDefault, c.PageSizeMax)
	}
	if c.SalesMonthsDefault < 1 || c.SalesMonthsDefault > reports.MaxSalesMonths {
		return fmt.Errorf("default sales window must be between 1 and %d months", reports.MaxSalesMonths)
	}
	return nil
}

// Paging returns the page size policy.
func (c *Config) Paging() paging.Config {
	return paging.Config{DefaultPageSize: c.PageSizeDefault, MaxPageSize: c.PageSizeMax}
}

// IsDevelopment returns true when the application runs in development.
func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}
