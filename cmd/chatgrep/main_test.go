package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/chatgrep/chatgrep/config"
)

func newLoggerContext(t *testing.T, level string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", level, "")
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSetupLogger(t *testing.T) {
	t.Run("accepts known levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			assert.NoError(t, setupLogger(newLoggerContext(t, level)), "level %q", level)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := setupLogger(newLoggerContext(t, "verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestCommonFlags_DefaultsFromConfig(t *testing.T) {
	cfg := &config.AppConfig{
		Storage:   config.StorageConfig{Path: "/data/db"},
		Embedding: config.EmbeddingConfig{Host: "http://embed:8080/v1", Model: "test-model"},
	}

	flags := commonFlags(cfg)
	require.Len(t, flags, 3)

	byName := map[string]*cli.StringFlag{}
	for _, f := range flags {
		sf, ok := f.(*cli.StringFlag)
		require.True(t, ok)
		byName[sf.Name] = sf
	}

	assert.Equal(t, "/data/db", byName["db"].Value)
	assert.Equal(t, "http://embed:8080/v1", byName["embedding-host"].Value)
	assert.Equal(t, "test-model", byName["embedding-model"].Value)
}

func TestModelsCommand(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(cli.NewApp(), set, nil)

	assert.NoError(t, modelsCommand(ctx))
}
