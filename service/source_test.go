package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/moontv/moonProxy/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSource(t *testing.T) {
	viper.Set("sources", []map[string]interface{}{
		{"key": "cctv", "name": "央视", "ua": "CustomUA/1.0"},
		{"key": "demo", "name": "演示源", "ua": ""},
	})
	defer viper.Set("sources", nil)

	var resolver = NewConfigSource()

	s, err := resolver.Resolve("cctv")
	require.NoError(t, err)
	assert.Equal(t, "CustomUA/1.0", s.Ua)

	// ua为空回退默认UA
	s, err = resolver.Resolve("demo")
	require.NoError(t, err)
	assert.Equal(t, util.ProxyConfig.DefaultUserAgent, s.Ua)

	_, err = resolver.Resolve("doesnotexist")
	assert.ErrorIs(t, err, ErrSourceNotFound)

	assert.Len(t, resolver.List(), 2)
}

func TestFileSource(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "config.json")
	var content = `{"LiveConfig":[{"key":"live1","name":"源一","url":"http://example.com/live.m3u8","ua":"MyUA/2.0"},{"key":"live2","name":"源二"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var resolver = &FileSource{Path: path}

	s, err := resolver.Resolve("live1")
	require.NoError(t, err)
	assert.Equal(t, "MyUA/2.0", s.Ua)
	assert.Equal(t, "源一", s.Name)

	s, err = resolver.Resolve("live2")
	require.NoError(t, err)
	assert.Equal(t, util.ProxyConfig.DefaultUserAgent, s.Ua)

	_, err = resolver.Resolve("nope")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestFileSourceMissingFile(t *testing.T) {
	var resolver = &FileSource{Path: "/does/not/exist.json"}
	_, err := resolver.Resolve("any")
	assert.ErrorIs(t, err, ErrSourceNotFound)
	assert.Empty(t, resolver.List())
}

func TestNewSourceResolver(t *testing.T) {
	viper.Set("source.store", "file")
	viper.Set("source.file", "./config.json")
	defer viper.Set("source.store", "")

	_, ok := NewSourceResolver().(*FileSource)
	assert.True(t, ok)

	viper.Set("source.store", "config")
	_, ok = NewSourceResolver().(*ConfigSource)
	assert.True(t, ok)
}
