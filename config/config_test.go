package config

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFilename = "testDefault"
)

func TestConfig(t *testing.T) {
	_ = os.Remove(testFilename + ".yaml")

	confDef := DefaultConfig()
	require.NoError(t, confDef.WriteToFile(testFilename+".yaml"))
	confRead, err := ParseConfigFrom(testFilename)
	require.NoError(t, err)
	require.True(t, reflect.DeepEqual(confDef, confRead))
	_ = os.Remove(testFilename + ".yaml")
}

func TestConfigRoundTripNonDefault(t *testing.T) {
	_ = os.Remove(testFilename + ".yaml")

	conf := DefaultConfig()
	conf.BindAddress = "tcp://0.0.0.0:9545"
	conf.LogLevel = "debug"
	conf.LogDestination = "file://-"
	conf.EnableWebSocket = false
	conf.MaxOpenConnections = 200
	conf.Cache.CachingEnabled = false
	conf.Cache.MaxKeys = 64
	conf.Limiter.Limit = 3
	require.NoError(t, conf.WriteToFile(testFilename+".yaml"))

	confRead, err := ParseConfigFrom(testFilename)
	require.NoError(t, err)
	require.True(t, reflect.DeepEqual(conf, confRead))
	_ = os.Remove(testFilename + ".yaml")
}

func TestParseConfigMissingFileFallsBackToDefaults(t *testing.T) {
	conf, err := ParseConfigFrom("noSuchConfigFile")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), conf)
}

func TestClone(t *testing.T) {
	conf := DefaultConfig()
	clone := conf.Clone()
	require.True(t, reflect.DeepEqual(conf, clone))

	clone.Cache.MaxKeys = 1
	clone.Limiter.Period = 1
	assert.Equal(t, 10000, conf.Cache.MaxKeys, "clone must not share sub-configs")
	assert.Equal(t, int64(60), conf.Limiter.Period)

	var nilConf *Config
	assert.Nil(t, nilConf.Clone())
}
