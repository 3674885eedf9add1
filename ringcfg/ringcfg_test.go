package ringcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nandring/go-nandring/nand"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ring.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadParsesAllFields(t *testing.T) {
	path := writeTempConfig(t, `
device: /dev/nand0
start_block: 4
length: 128
utc_correction: 1700000000
log_level: debug
`)
	fc, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/dev/nand0", fc.Device)
	require.Equal(t, uint32(4), fc.StartBlock)
	require.Equal(t, uint32(128), fc.Length)
	require.Equal(t, uint32(1700000000), fc.UTCCorrection)
	require.Equal(t, "debug", fc.LogLevel)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAMLReturnsError(t *testing.T) {
	path := writeTempConfig(t, "device: [this is not: valid")
	_, err := Load(path)
	require.Error(t, err)
}

func TestRingConfigProjection(t *testing.T) {
	fc := FileConfig{StartBlock: 2, Length: 64, UTCCorrection: 9}
	rc := fc.RingConfig()
	require.Equal(t, nand.RingConfig{StartBlk: 2, Len: 64, UTCCorrection: 9}, rc)
}

func TestValidateRejectsEmptyDevice(t *testing.T) {
	fc := FileConfig{Length: nand.MinRingSize}
	require.Error(t, fc.Validate())
}

func TestValidateRejectsUndersizedRing(t *testing.T) {
	fc := FileConfig{Device: "/dev/nand0", Length: nand.MinRingSize - 1}
	require.Error(t, fc.Validate())
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	fc := FileConfig{Device: "/dev/nand0", Length: nand.MinRingSize}
	require.NoError(t, fc.Validate())
}
