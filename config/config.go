// backend/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// ManConfig holds everything about the upstream MAN dataset and the local
// working directories the pipeline uses.
type ManConfig struct {
	// ArchiveURL is the fixed URL of the gzip-compressed tarball
	// (All_MAN_Data_V3.tar.gz).
	ArchiveURL string `yaml:"archive_url"`
	// PageURL is the human download page, scraped by the source checker.
	PageURL string `yaml:"page_url"`
	// SrcDir receives the extracted raw files (and the policy documents
	// shipped inside the archive).
	SrcDir string `yaml:"src_dir"`
	// WorkDir receives per-run artifacts: sites.csv and the run logs.
	WorkDir string `yaml:"work_dir"`
	// TempDir is where export working directories and archives are built;
	// everything under it is transient.
	TempDir string `yaml:"temp_dir"`
}

type IngestConfig struct {
	// Workers is the size of the parse/normalize worker pool.
	Workers int `yaml:"workers"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Man      ManConfig      `yaml:"man"`
	Ingest   IngestConfig   `yaml:"ingest"`
}

var AppConfig Config

// LoadConfig reads the YAML configuration and applies environment
// overrides for the database credentials (so secrets can live in .env
// rather than the config file).
func LoadConfig(configPath string) error {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(file, &AppConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if v := os.Getenv("MAN_DB_USER"); v != "" {
		AppConfig.Database.User = v
	}
	if v := os.Getenv("MAN_DB_PASSWORD"); v != "" {
		AppConfig.Database.Password = v
	}
	if v := os.Getenv("MAN_DB_HOST"); v != "" {
		AppConfig.Database.Host = v
	}
	if v := os.Getenv("MAN_DB_NAME"); v != "" {
		AppConfig.Database.DBName = v
	}

	if AppConfig.Ingest.Workers <= 0 {
		AppConfig.Ingest.Workers = 4
	}
	if AppConfig.Man.SrcDir == "" {
		AppConfig.Man.SrcDir = "./src"
	}
	if AppConfig.Man.WorkDir == "" {
		AppConfig.Man.WorkDir = "."
	}
	if AppConfig.Man.TempDir == "" {
		AppConfig.Man.TempDir = "./temp"
	}

	for _, dir := range []string{AppConfig.Man.SrcDir, AppConfig.Man.WorkDir, AppConfig.Man.TempDir} {
		if err := os.MkdirAll(filepath.Clean(dir), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
