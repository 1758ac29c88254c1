package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the form field server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Storage configuration
	StorageDirectory string // uploaded and generated documents
	FontDirectory    string // decorative signature fonts, optional

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:             ModeStdio, // Default to stdio mode for MCP compatibility
		Host:             DefaultHost,
		Port:             DefaultPort,
		StorageDirectory: filepath.Join(currentDir, "formdata"),
		FontDirectory:    "",
		Version:          "1.0.0",
		ServerName:       "formfield-mcp",
		LogLevel:         DefaultLogLevel,
		MaxFileSize:      DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.StorageDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.StorageDirectory); err == nil {
			cfg.StorageDirectory = expandedPath
		}
	}
	if cfg.FontDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.FontDirectory); err == nil {
			cfg.FontDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("FORMFIELD")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("storage", cfg.StorageDirectory)
	viper.SetDefault("fonts", cfg.FontDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("storage", cfg.StorageDirectory, "Directory for uploaded and generated documents")
	pflag.String("fonts", cfg.FontDirectory, "Directory with signature fonts (.ttf/.otf), optional")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("storage", pflag.Lookup("storage"))
	_ = viper.BindPFlag("fonts", pflag.Lookup("fonts"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFormField MCP - a Model Context Protocol server for building and filling PDF forms\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# stdio mode, ./formdata storage (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --storage=/var/lib/formfield             "+
			"# stdio mode with custom storage\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --fonts=/usr/share/formfield/fonts       # with signature fonts\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081 # server on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FORMFIELD_MODE        Server mode\n")
		fmt.Fprintf(os.Stderr, "  FORMFIELD_HOST        Server host\n")
		fmt.Fprintf(os.Stderr, "  FORMFIELD_PORT        Server port\n")
		fmt.Fprintf(os.Stderr, "  FORMFIELD_STORAGE     Storage directory\n")
		fmt.Fprintf(os.Stderr, "  FORMFIELD_FONTS       Signature font directory\n")
		fmt.Fprintf(os.Stderr, "  FORMFIELD_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  FORMFIELD_MAXFILESIZE Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.StorageDirectory = viper.GetString("storage")
	cfg.FontDirectory = viper.GetString("fonts")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate storage directory
	if c.StorageDirectory == "" {
		return errors.New("storage directory cannot be empty")
	}

	// Check if storage directory exists, create if it doesn't
	if _, err := os.Stat(c.StorageDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.StorageDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create storage directory %s: %w", c.StorageDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access storage directory %s: %w", c.StorageDirectory, err)
	}

	// Font directory is optional but must be readable when set
	if c.FontDirectory != "" {
		if info, err := os.Stat(c.FontDirectory); err != nil {
			return fmt.Errorf("cannot access font directory %s: %w", c.FontDirectory, err)
		} else if !info.IsDir() {
			return fmt.Errorf("font directory %s is not a directory", c.FontDirectory)
		}
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// FontRegistry maps signature font keys to font file paths by scanning
// the font directory for .ttf and .otf files. The key is the lowercased
// file name without its extension. An unset directory yields an empty
// registry.
func (c *Config) FontRegistry() map[string]string {
	registry := make(map[string]string)
	if c.FontDirectory == "" {
		return registry
	}

	entries, err := os.ReadDir(c.FontDirectory)
	if err != nil {
		return registry
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		key := strings.ToLower(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		registry[key] = filepath.Join(c.FontDirectory, entry.Name())
	}
	return registry
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, StorageDirectory: %s, FontDirectory: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.StorageDirectory, c.FontDirectory, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
