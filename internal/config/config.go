package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load reads configuration from the optional YAML file at path, then
// overlays the process environment. It does not validate; call Validate
// once the features in use are known.
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	cfg := DefaultSettings()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// Unset and empty variables both leave the file/default value in place.
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		mapped, ok := envKeys[key]
		if !ok || value == "" {
			return "", nil
		}
		return mapped, value
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads the first of each existing candidate file into the
// process environment. Variables already set are never overridden, so
// earlier candidates win over later ones and the real environment wins
// over all of them. It returns the files that were loaded.
func LoadDotEnv(candidates ...string) ([]string, error) {
	var loaded []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		if c == "" {
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			abs = c
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true

		if _, err := os.Stat(abs); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return loaded, fmt.Errorf("accessing env file %s: %w", c, err)
		}
		if err := godotenv.Load(abs); err != nil {
			return loaded, fmt.Errorf("reading env file %s: %w", c, err)
		}
		loaded = append(loaded, abs)
	}
	return loaded, nil
}

// ProjectEnvFile returns the .env path one directory above the running
// executable, the conventional project-root location. It returns "" when
// the executable path cannot be resolved.
func ProjectEnvFile() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(filepath.Dir(exe)), ".env")
}

// validDrivers is the set of recognized knowledge store drivers.
var validDrivers = map[Driver]bool{
	DriverPostgres: true,
	DriverSQLite:   true,
}

// Validate checks that every required key for the enabled features is
// present. Missing keys are reported together in a *MissingError.
func (s *Settings) Validate() error {
	var missing []string
	if s.LLM.APIKey == "" {
		missing = append(missing, "OPENAI_KEY")
	}

	if s.Knowledge.Enabled() {
		if !validDrivers[s.Knowledge.Driver] {
			return fmt.Errorf("invalid DB_DRIVER %q: must be one of postgres, sqlite", s.Knowledge.Driver)
		}
		missing = append(missing, s.Knowledge.missing()...)
	}

	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	return nil
}

// missing returns the unset connection variables required by the driver.
// SQLite only needs a database path.
func (k KnowledgeConfig) missing() []string {
	fields := []struct {
		env   string
		value string
	}{
		{"DB_HOST", k.Host},
		{"DB_PORT", k.Port},
		{"DB_NAME", k.Name},
		{"DB_USER", k.User},
		{"DB_PASSWORD", k.Password},
	}
	if k.Driver == DriverSQLite {
		fields = fields[2:3]
	}

	var out []string
	for _, f := range fields {
		if f.value == "" {
			out = append(out, f.env)
		}
	}
	return out
}

// Redacted returns a copy of the settings with secrets masked, suitable
// for printing.
func (s *Settings) Redacted() Settings {
	r := *s
	if r.LLM.APIKey != "" {
		r.LLM.APIKey = mask(r.LLM.APIKey)
	}
	if r.Knowledge.Password != "" {
		r.Knowledge.Password = "********"
	}
	return r
}

func mask(secret string) string {
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "…" + secret[len(secret)-4:]
}
