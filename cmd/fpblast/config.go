package main

import (
	"os"

	"github.com/borzacchiello/fpblast"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel     string `yaml:"log_level"`
	EBits        uint   `yaml:"ebits"`
	SBits        uint   `yaml:"sbits"`
	RoundingMode string `yaml:"rounding_mode"`
}

// DefaultConfig describes binary32 with round to nearest even.
func DefaultConfig() Config {
	return Config{
		LogLevel:     "info",
		EBits:        8,
		SBits:        24,
		RoundingMode: "RNE",
	}
}

func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	if c.EBits < 2 || c.SBits < 2 {
		return errors.Errorf("invalid format ebits=%d sbits=%d", c.EBits, c.SBits)
	}
	if _, err := fpblast.ParseRoundingMode(c.RoundingMode); err != nil {
		return errors.Wrap(err, "rounding_mode")
	}
	return nil
}

// loadConfig reads path over the defaults. An empty path gives the defaults.
func loadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "failed to read the config file")
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrapf(err, "failed to parse %s", path)
	}
	if err := c.Validate(); err != nil {
		return c, errors.Wrap(err, path)
	}
	return c, nil
}
