package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultMaxFileSize  = 100 * 1024 * 1024 // 100MB
	DefaultImageTimeout = 30 * time.Second

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the inspection report server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Report configuration
	TemplatePath  string // TREC template PDF
	OutputDir     string // filled reports are written here
	ImageCacheDir string // downloaded inspection photos
	CachePhotos   bool   // prefetch photos of deficient items

	// Application configuration
	Version      string
	ServerName   string
	LogLevel     string
	MaxFileSize  int64 // Maximum template file size in bytes
	ImageTimeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:          ModeStdio, // Default to stdio mode for MCP compatibility
		Host:          DefaultHost,
		Port:          DefaultPort,
		TemplatePath:  filepath.Join(currentDir, "trec_template.pdf"),
		OutputDir:     filepath.Join(currentDir, "reports"),
		ImageCacheDir: filepath.Join(currentDir, "image_cache"),
		CachePhotos:   false,
		Version:       "1.0.0",
		ServerName:    "inspection-report-server",
		LogLevel:      DefaultLogLevel,
		MaxFileSize:   DefaultMaxFileSize,
		ImageTimeout:  DefaultImageTimeout,
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
	expandPath(&cfg.TemplatePath)
	expandPath(&cfg.OutputDir)
	expandPath(&cfg.ImageCacheDir)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func expandPath(p *string) {
	if *p == "" {
		return
	}
	if abs, err := filepath.Abs(*p); err == nil {
		*p = abs
	}
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("BINSR")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("template", cfg.TemplatePath)
	viper.SetDefault("outdir", cfg.OutputDir)
	viper.SetDefault("imagecache", cfg.ImageCacheDir)
	viper.SetDefault("cachephotos", cfg.CachePhotos)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("imagetimeout", cfg.ImageTimeout)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("template", cfg.TemplatePath, "Path to the TREC template PDF")
	pflag.String("outdir", cfg.OutputDir, "Directory for generated reports")
	pflag.String("imagecache", cfg.ImageCacheDir, "Directory for cached inspection photos")
	pflag.Bool("cachephotos", cfg.CachePhotos, "Prefetch photos of deficient items during generation")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum template file size in bytes")
	pflag.Duration("imagetimeout", cfg.ImageTimeout, "Timeout for a single photo download")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("template", pflag.Lookup("template"))
	_ = viper.BindPFlag("outdir", pflag.Lookup("outdir"))
	_ = viper.BindPFlag("imagecache", pflag.Lookup("imagecache"))
	_ = viper.BindPFlag("cachephotos", pflag.Lookup("cachephotos"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("imagetimeout", pflag.Lookup("imagetimeout"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nInspection Report Server - fills TREC inspection report PDFs "+
			"from inspection records\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# stdio mode with defaults\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --template=/path/to/trec.pdf             "+
			"# stdio mode with custom template\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --outdir=/srv/reports      # server mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081 # server on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  BINSR_MODE         Server mode\n")
		fmt.Fprintf(os.Stderr, "  BINSR_HOST         Server host\n")
		fmt.Fprintf(os.Stderr, "  BINSR_PORT         Server port\n")
		fmt.Fprintf(os.Stderr, "  BINSR_TEMPLATE     Template PDF path\n")
		fmt.Fprintf(os.Stderr, "  BINSR_OUTDIR       Output directory\n")
		fmt.Fprintf(os.Stderr, "  BINSR_IMAGECACHE   Photo cache directory\n")
		fmt.Fprintf(os.Stderr, "  BINSR_CACHEPHOTOS  Prefetch deficient item photos\n")
		fmt.Fprintf(os.Stderr, "  BINSR_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  BINSR_MAXFILESIZE  Maximum template file size\n")
		fmt.Fprintf(os.Stderr, "  BINSR_IMAGETIMEOUT Photo download timeout\n")
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
	cfg.TemplatePath = viper.GetString("template")
	cfg.OutputDir = viper.GetString("outdir")
	cfg.ImageCacheDir = viper.GetString("imagecache")
	cfg.CachePhotos = viper.GetBool("cachephotos")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.ImageTimeout = viper.GetDuration("imagetimeout")
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

	// Validate template path
	if c.TemplatePath == "" {
		return errors.New("template path cannot be empty")
	}

	// Validate output directory, create if it doesn't exist
	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if err := ensureDir(c.OutputDir); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}

	// Validate image cache directory when photo caching is on
	if c.CachePhotos {
		if c.ImageCacheDir == "" {
			return errors.New("image cache directory cannot be empty when photo caching is enabled")
		}
		if err := ensureDir(c.ImageCacheDir); err != nil {
			return fmt.Errorf("image cache directory: %w", err)
		}
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate image timeout
	if c.ImageTimeout <= 0 {
		return errors.New("image timeout must be positive")
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

func ensureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create %s: %w", dir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access %s: %w", dir, err)
	}
	return nil
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
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, Template: %s, OutputDir: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.TemplatePath, c.OutputDir, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
