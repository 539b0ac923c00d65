package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
)

const (
	FileName = "config.json"

	// FolderName is the per-user folder holding the config and the database.
	FolderName = "SRPrimeAttendance"
)

var defaultValues = AppConfig{
	SchoolName:   "SR PRIME SCHOOL ATTENDANCE",
	SchoolPlace:  "GOPALAPURAM, KHAMMAM",
	DatabaseFile: "application.db",
	StorageKey:   "schoolAttendanceData",
}

type AppConfig struct {
	dataDir      string
	configPath   string
	AppID        uuid.UUID `json:"appId"`
	SchoolName   string    `json:"schoolName"`
	SchoolPlace  string    `json:"schoolPlace"`
	ExportDir    string    `json:"exportDir"`
	DatabaseFile string    `json:"databaseFile"`
	StorageKey   string    `json:"storageKey"`
}

// DataDir is the folder holding the config file and the database.
func (a *AppConfig) DataDir() string { return a.dataDir }

// DatabasePath is the absolute path of the sqlite file.
func (a *AppConfig) DatabasePath() string {
	if filepath.IsAbs(a.DatabaseFile) {
		return a.DatabaseFile
	}
	return filepath.Join(a.dataDir, a.DatabaseFile)
}

// Save writes the config back to its file.
func (a *AppConfig) Save() error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(a.configPath, data, 0644)
}

// Load reads the config in dataDir. A missing file yields the defaults with a
// fresh AppID, already written to disk; the bool reports whether the file
// existed.
func Load(dataDir string) (*AppConfig, bool, error) {
	if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
		return nil, false, fmt.Errorf("create data folder: %w", err)
	}
	configPath := filepath.Join(dataDir, FileName)

	cfg := defaultValues
	cfg.dataDir = dataDir
	cfg.configPath = configPath

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		cfg.AppID = uuid.New()
		cfg.ExportDir = defaultExportDir(dataDir)
		if err := cfg.Save(); err != nil {
			return &cfg, false, fmt.Errorf("write %s: %w", FileName, err)
		}
		return &cfg, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", FileName, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", FileName, err)
	}

	backfilled := false
	if cfg.AppID == uuid.Nil {
		cfg.AppID = uuid.New()
		backfilled = true
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = defaultExportDir(dataDir)
		backfilled = true
	}
	if backfilled {
		if err := cfg.Save(); err != nil {
			return &cfg, true, fmt.Errorf("write %s: %w", FileName, err)
		}
	}
	return &cfg, true, nil
}

// Defaults returns the built-in config rooted at dataDir without touching disk.
func Defaults(dataDir string) *AppConfig {
	cfg := defaultValues
	cfg.dataDir = dataDir
	cfg.configPath = filepath.Join(dataDir, FileName)
	cfg.AppID = uuid.New()
	cfg.ExportDir = defaultExportDir(dataDir)
	return &cfg
}

// AppDataFolder resolves the per-user application data folder for appName.
func AppDataFolder(appName string) string {
	var base string

	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support")
	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			base = filepath.Join(os.Getenv("HOME"), ".local", "share")
		}
	}

	return filepath.Join(base, appName)
}

func defaultExportDir(dataDir string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dataDir
	}
	downloads := filepath.Join(home, "Downloads")
	if st, err := os.Stat(downloads); err == nil && st.IsDir() {
		return downloads
	}
	return dataDir
}
