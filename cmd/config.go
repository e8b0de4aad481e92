package cmd

import (
	"fmt"
	"io"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/gpt-bridge/internal/config"
)

// settingsView is the printable form of config.Settings; durations are
// rendered as strings rather than nanosecond counts.
type settingsView struct {
	LLM struct {
		APIKey      string  `yaml:"api_key"`
		BaseURL     string  `yaml:"base_url,omitempty"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
		Timeout     string  `yaml:"timeout"`
	} `yaml:"llm"`
	Knowledge struct {
		Enabled  bool   `yaml:"enabled"`
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host,omitempty"`
		Port     string `yaml:"port,omitempty"`
		Name     string `yaml:"name,omitempty"`
		User     string `yaml:"user,omitempty"`
		Password string `yaml:"password,omitempty"`
		SSLMode  string `yaml:"sslmode,omitempty"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"knowledge"`
	Log config.LogConfig `yaml:"log"`
}

// printSettings writes the effective settings as YAML with secrets masked.
func printSettings(w io.Writer, s *config.Settings) error {
	r := s.Redacted()

	var v settingsView
	v.LLM.APIKey = r.LLM.APIKey
	v.LLM.BaseURL = r.LLM.BaseURL
	v.LLM.Model = r.LLM.Model
	v.LLM.MaxTokens = r.LLM.MaxTokens
	v.LLM.Temperature = r.LLM.Temperature
	v.LLM.Timeout = r.LLM.Timeout.String()

	v.Knowledge.Enabled = r.Knowledge.Enabled()
	v.Knowledge.Driver = string(r.Knowledge.Driver)
	v.Knowledge.Host = r.Knowledge.Host
	v.Knowledge.Port = r.Knowledge.Port
	v.Knowledge.Name = r.Knowledge.Name
	v.Knowledge.User = r.Knowledge.User
	v.Knowledge.Password = r.Knowledge.Password
	v.Knowledge.SSLMode = r.Knowledge.SSLMode
	v.Knowledge.Timeout = r.Knowledge.Timeout.String()

	v.Log = r.Log

	data, err := yamlv3.Marshal(&v)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	_, err = w.Write(data)
	return err
}
