// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the hello_bdev configuration.
//
// Values come from a toml file, which may be absent, and are overridden by
// HELLO_BDEV_* environment variables. Defaults apply to anything left unset.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"code.hybscloud.com/spdk/bdev"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"
)

// DefaultPath is read when no path is given. It does not need to exist.
const DefaultPath = "/etc/spdk/hello_bdev.toml"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Config holds the hello_bdev settings.
type Config struct {
	Name     string `toml:"name" env:"HELLO_BDEV_NAME" env-default:"hello_bdev" env-description:"Application name. Reactors are named after it."`
	Reactors int    `toml:"reactors" env:"HELLO_BDEV_REACTORS" env-default:"1" env-description:"Number of independent reactors, each with its own device."`
	Blocks   uint64 `toml:"blocks" env:"HELLO_BDEV_BLOCKS" env-default:"1" env-description:"Blocks written and read back on each reactor."`

	Bdev struct {
		Name      string `toml:"name" env:"HELLO_BDEV_BDEV_NAME" env-default:"Malloc0" env-description:"Device name."`
		Kind      string `toml:"kind" env:"HELLO_BDEV_BDEV_KIND" env-default:"malloc" env-description:"Device backend, malloc or null."`
		NumBlocks uint64 `toml:"num_blocks" env:"HELLO_BDEV_BDEV_NUM_BLOCKS" env-default:"16384" env-description:"Device size in blocks."`
		BlockSize uint32 `toml:"block_size" env:"HELLO_BDEV_BDEV_BLOCK_SIZE" env-default:"512" env-description:"Block size in bytes."`
	} `toml:"bdev"`

	// Defaults here are either non-empty strings or zero values, so a value
	// set in the file is never replaced by its default.
	Log struct {
		Level string `toml:"level" env:"HELLO_BDEV_LOG_LEVEL" env-default:"info" env-description:"Log level: trace, debug, info, warn, error, fatal, panic or disabled."`
		JSON  bool   `toml:"json" env:"HELLO_BDEV_LOG_JSON" env-description:"Log JSON lines instead of pretty console output."`
	} `toml:"log"`
}

// Load reads path, falling back to the environment alone when the file
// does not exist, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Description returns the environment variable help text.
func Description() string {
	header := "Environment variables:"
	desc, err := cleanenv.GetDescription(&Config{}, &header)
	if err != nil {
		return ""
	}
	return desc
}

// BdevConfig returns the device configuration.
func (c *Config) BdevConfig() bdev.Config {
	return bdev.Config{
		Name:      c.Bdev.Name,
		Kind:      bdev.Kind(c.Bdev.Kind),
		NumBlocks: c.Bdev.NumBlocks,
		BlockSize: c.Bdev.BlockSize,
	}
}

// LogLevel returns the parsed log level. Load has already validated it.
func (c *Config) LogLevel() zerolog.Level {
	l, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

func (c *Config) validate() error {
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level: %w", ErrInvalid, err)
	}
	switch {
	case c.Reactors < 1:
		return fmt.Errorf("%w: reactors must be positive, got %d", ErrInvalid, c.Reactors)
	case c.Blocks < 1:
		return fmt.Errorf("%w: blocks must be positive", ErrInvalid)
	case c.Blocks > c.Bdev.NumBlocks:
		return fmt.Errorf("%w: %d blocks exceed device size of %d", ErrInvalid, c.Blocks, c.Bdev.NumBlocks)
	}
	return nil
}
