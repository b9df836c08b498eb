package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config represents the main configuration for mailorg.
type Config struct {
	// Account is the account reference used when ingest is not given one.
	Account    string           `toml:"account" validate:"required"`
	BaseDir    string           `toml:"base_dir" validate:"required"`
	LogDir     string           `toml:"log_dir" validate:"required"`
	Store      StoreConfig      `toml:"store"`
	Database   DatabaseConfig   `toml:"database"`
	Encryption EncryptionConfig `toml:"encryption"`
	Notify     NotifyConfig     `toml:"notify"`
	Ingest     IngestConfig     `toml:"ingest"`
}

// StoreConfig selects the content store backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type string `toml:"type" validate:"oneof=memory filesystem s3"`

	// Filesystem-specific fields (only used when Type == "filesystem")
	Root string `toml:"root,omitempty" validate:"required_if=Type filesystem"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty" validate:"required_if=Type s3"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty" validate:"omitempty,url"`

	// Static credentials. When empty the default AWS credential chain is used.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty" validate:"required_with=S3SecretAccessKey"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty" validate:"required_with=S3AccessKeyID"`
}

// DatabaseConfig represents configuration for the entity database.
type DatabaseConfig struct {
	Type    string `toml:"type" validate:"oneof=sqlite memory"`
	DataDir string `toml:"data_dir,omitempty" validate:"required_if=Type sqlite"`
}

// EncryptionConfig holds paths to the age key pair used to encrypt stored
// content. An empty Type or "none" stores content in plaintext.
type EncryptionConfig struct {
	Type           string `toml:"type" validate:"omitempty,oneof=none age test"`
	PublicKeyPath  string `toml:"public_key_path" validate:"required_if=Type age"`
	PrivateKeyPath string `toml:"private_key_path" validate:"required_if=Type age"`
}

// NotifyConfig selects where ingestion events are published.
type NotifyConfig struct {
	Type     string `toml:"type" validate:"omitempty,oneof=none amqp"`
	AMQPURL  string `toml:"amqp_url,omitempty" validate:"required_if=Type amqp"`
	Exchange string `toml:"exchange,omitempty"`
}

// IngestConfig tunes the ingestion pipeline.
type IngestConfig struct {
	ThreadWindowDays int      `toml:"thread_window_days" validate:"gte=0"`
	MaxMessageSize   int64    `toml:"max_message_size" validate:"gte=0"`
	Ignore           []string `toml:"ignore"`
}

// NewConfig creates a new Config for an account with defaults under baseDir.
func NewConfig(account, baseDir string) *Config {
	return &Config{
		Account: account,
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Store: StoreConfig{
			Type: "filesystem",
			Root: filepath.Join(baseDir, "content"),
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Encryption: EncryptionConfig{
			Type:           "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "mailorg.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "mailorg.key"),
		},
		Notify: NotifyConfig{Type: "none"},
		Ingest: IngestConfig{
			ThreadWindowDays: 7,
			MaxMessageSize:   50 << 20,
			Ignore:           []string{".*", "*.tmp", "tmp/"},
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of cfg.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes and validates a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init validates cfg and writes it to a new config file at path.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := Validate(cfg); err != nil {
		return err
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
