package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tmp := t.TempDir()

	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid config",
			config: Config{
				DBPath:    filepath.Join(tmp, "data", "fintrack.db"),
				BackupDir: tmp,
				LogLevel:  "info",
			},
			wantErr: false,
		},
		{
			name: "empty database path",
			config: Config{
				DBPath:    "",
				BackupDir: tmp,
				LogLevel:  "info",
			},
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name: "empty backup dir",
			config: Config{
				DBPath:    filepath.Join(tmp, "fintrack.db"),
				BackupDir: "",
				LogLevel:  "info",
			},
			wantErr:     true,
			errorString: "backup directory cannot be empty",
		},
		{
			name: "invalid log level",
			config: Config{
				DBPath:    filepath.Join(tmp, "fintrack.db"),
				BackupDir: tmp,
				LogLevel:  "verbose",
			},
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("expected error containing %q, got %q", tt.errorString, err.Error())
				}
			} else if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestConfig_ValidateHasNoSideEffects(t *testing.T) {
	tmp := t.TempDir()
	cfg := Config{
		DBPath:    filepath.Join(tmp, "nested", "db", "fintrack.db"),
		BackupDir: filepath.Join(tmp, "backups"),
		LogLevel:  "debug",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Missing directories pass validation untouched; they belong to the
	// components that write there.
	if _, err := os.Stat(filepath.Join(tmp, "nested")); !os.IsNotExist(err) {
		t.Fatalf("db directory should not be created by Validate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "backups")); !os.IsNotExist(err) {
		t.Fatalf("backup directory should not be created by Validate: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"FINTRACK_DB_PATH", "FINTRACK_BACKUP_DIR", "FINTRACK_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	cfg := Load()
	if cfg.DBPath != "./data/fintrack.db" {
		t.Fatalf("unexpected default db path %q", cfg.DBPath)
	}
	if cfg.BackupDir != "." {
		t.Fatalf("unexpected default backup dir %q", cfg.BackupDir)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected default log level %q", cfg.LogLevel)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("FINTRACK_DB_PATH", "/tmp/other.db")
	t.Setenv("FINTRACK_LOG_LEVEL", "warn")
	cfg := Load()
	if cfg.DBPath != "/tmp/other.db" {
		t.Fatalf("env db path not honored, got %q", cfg.DBPath)
	}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelWarn {
		t.Fatalf("expected warn level, got %v (%v)", level, err)
	}
}
