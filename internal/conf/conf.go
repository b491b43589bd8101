// Package conf contains the configuration of pngmsg.
package conf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/trivernis/pngmsg/internal/logger"
	"github.com/trivernis/pngmsg/internal/png"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "pngmsg.yml"

// Conf is the configuration.
type Conf struct {
	LogLevel      LogLevel `yaml:"logLevel"`
	SealChunk     string   `yaml:"sealChunk"`
	SaltChunk     string   `yaml:"saltChunk"`
	SealChunkSize int      `yaml:"sealChunkSize"`
	Compress      bool     `yaml:"compress"`
	ScryptN       int      `yaml:"scryptN"`
	ScryptR       int      `yaml:"scryptR"`
	ScryptP       int      `yaml:"scryptP"`

	SealChunkType png.ChunkType `yaml:"-"`
	SaltChunkType png.ChunkType `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Conf {
	return &Conf{
		LogLevel:      LogLevel(logger.Info),
		SealChunk:     "crPt",
		SaltChunk:     "saLt",
		SealChunkSize: 0x100000,
		ScryptN:       32768,
		ScryptR:       8,
		ScryptP:       1,
	}
}

// Load reads the configuration from fpath.
// The default path is optional, any other path must exist.
func Load(fpath string) (*Conf, error) {
	conf := Default()

	err := func() error {
		explicit := fpath != ""
		if !explicit {
			fpath = DefaultPath
			if _, err := os.Stat(fpath); err != nil {
				return nil
			}
		}

		f, err := os.Open(fpath)
		if err != nil {
			return err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.SetStrict(true)

		err = dec.Decode(conf)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		return nil
	}()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", fpath, err)
	}

	err = conf.Validate()
	if err != nil {
		return nil, err
	}

	return conf, nil
}

// Validate checks the configuration and fills in parsed fields.
func (conf *Conf) Validate() error {
	var err error

	conf.SealChunkType, err = png.ParseChunkType(conf.SealChunk)
	if err != nil {
		return fmt.Errorf("sealChunk: %w", err)
	}

	conf.SaltChunkType, err = png.ParseChunkType(conf.SaltChunk)
	if err != nil {
		return fmt.Errorf("saltChunk: %w", err)
	}

	if conf.SealChunkType == conf.SaltChunkType {
		return fmt.Errorf("sealChunk and saltChunk must differ")
	}

	if conf.SealChunkSize <= 0 {
		return fmt.Errorf("sealChunkSize must be positive")
	}

	if conf.ScryptN <= 1 || conf.ScryptN&(conf.ScryptN-1) != 0 {
		return fmt.Errorf("scryptN must be a power of two greater than 1")
	}

	if conf.ScryptR <= 0 || conf.ScryptP <= 0 {
		return fmt.Errorf("scryptR and scryptP must be positive")
	}

	return nil
}
