package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	// Read config without setting config file
	{
		err := ReadInConfig()
		require.NoError(t, err)
		assert.Equal(t, 0, len(config))
	}

	// Read config from file
	{
		SetConfigFile("tstdata/ok.json")
		err := ReadInConfig()
		require.NoError(t, err)
		assert.Equal(t, 2, len(config))
	}

	// Missing file
	{
		SetConfigFile("tstdata/missing.json")
		err := ReadInConfig()
		require.Error(t, err)
	}

	// Not valid json
	{
		r := strings.NewReader(`{"capabilities":{"mode":"dum`)
		err := ReadConfig(r)
		require.Error(t, err)
	}
}

func TestGet(t *testing.T) {
	config = map[string]interface{}{}

	//Empty config
	v := Get("key")
	assert.Nil(t, v)

	config = map[string]interface{}{
		"port": 8080,
		"video": map[string]interface{}{
			"base_url": "https://video.example.com",
			"premium":  true,
		},
	}
	// Check scalar key
	vInt, isInt := Get("port").(int)
	require.True(t, isInt)
	assert.Equal(t, 8080, vInt)

	// Subpath missing
	v = Get("port.sub")
	assert.Nil(t, v)

	// Subpath OK
	vBool, isBool := Get("video.premium").(bool)
	require.True(t, isBool)
	assert.True(t, vBool)
}

type s struct {
	BaseURL string `json:"base_url" mapstructure:"base_url"`
	Premium bool   `json:"premium"`
	APIKey  string `json:"api_key" env:"TEST_API_KEY"`
}

func TestUnmarshal(t *testing.T) {
	config = map[string]interface{}{
		"port": 8080,
		"video": map[string]interface{}{
			"base_url": "https://video.example.com",
			"premium":  true,
		},
	}

	var v1 s
	err := Unmarshal("port", &v1)
	require.Error(t, err)

	var v2 s
	os.Setenv("TEST_API_KEY", "secret")
	err = Unmarshal("video", &v2)
	require.NoError(t, err)
	assert.True(t, v2.Premium)
	assert.Equal(t, "https://video.example.com", v2.BaseURL)
	assert.Equal(t, "secret", v2.APIKey)
}
