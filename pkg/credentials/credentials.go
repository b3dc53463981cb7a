// Package credentials reads and writes the imgup credentials file.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"
	"gopkg.in/ini.v1"
)

const (
	appName = "imgup"

	// LocalFile is picked up from the working directory when present. It
	// keeps the INI layout older imgup releases wrote (unquoted values).
	LocalFile = ".client_secrets"

	credentialsFile = "client_secrets.toml"

	section = "credentials"
)

// Manager manages reading and writing the credentials file.
type Manager struct {
	targetPath string
}

// legacy reports whether the target uses the INI layout.
func (m *Manager) legacy() bool {
	return filepath.Base(m.targetPath) == LocalFile
}

// NewManager creates a new credentials Manager. If override is non-empty it is
// used as the credentials file path. Otherwise ./.client_secrets is used when
// it exists, falling back to client_secrets.toml in the user config directory,
// which is created if missing.
func NewManager(override string) (*Manager, error) {
	if override != "" {
		return &Manager{targetPath: override}, nil
	}

	if _, err := os.Stat(LocalFile); err == nil {
		return &Manager{targetPath: LocalFile}, nil
	}

	dir := configdir.LocalConfig(appName)
	if err := configdir.MakePath(dir); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	return &Manager{targetPath: filepath.Join(dir, credentialsFile)}, nil
}

// Load reads the credentials file, as INI for .client_secrets and as TOML
// otherwise. Returns empty Credentials if the file does not exist.
func (m *Manager) Load() (*Credentials, error) {
	data, err := os.ReadFile(m.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	if m.legacy() {
		return loadINI(data)
	}

	file := &File{}
	if err := toml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	return &file.Credentials, nil
}

func loadINI(data []byte) (*Credentials, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	creds := &Credentials{}
	if err := cfg.Section(section).MapTo(creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	return creds, nil
}

func encodeINI(creds *Credentials) ([]byte, error) {
	cfg := ini.Empty()
	sec, err := cfg.NewSection(section)
	if err != nil {
		return nil, err
	}
	if err := sec.ReflectFrom(creds); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeTOML(creds *Credentials) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(File{Credentials: *creds}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes credentials to the target file with 0600 permissions, keeping
// the file's layout.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	encode := encodeTOML
	if m.legacy() {
		encode = encodeINI
	}
	data, err := encode(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if dir := filepath.Dir(m.targetPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating credentials dir: %w", err)
		}
	}

	if err := os.WriteFile(m.targetPath, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	return nil
}

// GetTarget returns the resolved path to the credentials file.
func (m *Manager) GetTarget() string {
	return m.targetPath
}
