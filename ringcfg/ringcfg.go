// Package ringcfg loads RingConfig values from YAML, the on-disk
// configuration format for a deployable ring binary, using
// gopkg.in/yaml.v3.
package ringcfg

import (
	"fmt"
	"os"

	"github.com/nandring/go-nandring/nand"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk representation of a RingConfig, plus the
// ambient fields (device selector, log level) the ring engine itself has
// no opinion on but a deployable binary needs.
type FileConfig struct {
	Device        string `yaml:"device"`
	StartBlock    uint32 `yaml:"start_block"`
	Length        uint32 `yaml:"length"`
	UTCCorrection uint32 `yaml:"utc_correction"`
	LogLevel      string `yaml:"log_level"`
}

// Load reads and parses a FileConfig from path.
func Load(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("ringcfg: reading %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("ringcfg: parsing %s: %w", path, err)
	}
	return fc, nil
}

// RingConfig projects the parts of FileConfig that the nand package
// itself understands. Validate, not this conversion, is responsible for
// range-checking: Ring.Start performs that check again redundantly, a
// deliberately layered validation (config checked once at load time, and
// again in Ring.Start against the actual device).
func (fc FileConfig) RingConfig() nand.RingConfig {
	return nand.RingConfig{
		StartBlk:      fc.StartBlock,
		Len:           fc.Length,
		UTCCorrection: fc.UTCCorrection,
	}
}

// Validate checks the fields ringcfg itself is responsible for, ahead of
// nand.Ring.Start's own (stricter, device-aware) validation.
func (fc FileConfig) Validate() error {
	if fc.Device == "" {
		return fmt.Errorf("ringcfg: device must be set")
	}
	if fc.Length < nand.MinRingSize {
		return fmt.Errorf("ringcfg: length %d below nand.MinRingSize %d", fc.Length, nand.MinRingSize)
	}
	return nil
}
