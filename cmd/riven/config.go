package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Core       CoreConfig       `toml:"core"`
	CleanTable CleanTableConfig `toml:"cleantable"`
	CleanSpace CleanSpaceConfig `toml:"cleanspace"`
}

type CoreConfig struct {
	LogLevel string `toml:"log_level"`
	// Site is a YAML site description to render against.
	Site    string `toml:"site"`
	Title   string `toml:"title"`
	Skin    string `toml:"skin"`
	Preview bool   `toml:"preview"`
	Seed    uint64 `toml:"seed"`
}

type CleanTableConfig struct {
	ProtectRows int  `toml:"protect_rows"`
	CleanImages bool `toml:"clean_images"`
}

type CleanSpaceConfig struct {
	Mode string `toml:"mode"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			LogLevel: "info",
			Site:     "",
			Title:    "Main Page",
			Skin:     "",
			Preview:  false,
			Seed:     0,
		},
		CleanTable: CleanTableConfig{
			ProtectRows: 1,
			CleanImages: true,
		},
		CleanSpace: CleanSpaceConfig{
			Mode: "original",
		},
	}
}

func LoadConfigFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode TOML config: %w", err)
	}

	return config, nil
}
