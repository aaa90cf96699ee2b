package config

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// fileView is the on-disk shape of Config, with durations as strings so the
// output can be pasted back into hbmon.yaml.
type fileView struct {
	Port       int       `yaml:"port"`
	Interval   string    `yaml:"interval"`
	BufferSize int       `yaml:"buffer_size"`
	MaxDrain   int       `yaml:"max_drain"`
	StaleAfter string    `yaml:"stale_after"`
	Log        LogConfig `yaml:"log"`
}

// Marshal renders cfg as YAML in the config file format.
func Marshal(cfg *Config) ([]byte, error) {
	view := fileView{
		Port:       cfg.Port,
		Interval:   cfg.Interval.String(),
		BufferSize: cfg.BufferSize,
		MaxDrain:   cfg.MaxDrain,
		StaleAfter: cfg.StaleAfter.String(),
		Log:        cfg.Log,
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
