//go:build !tinygo

package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseBrightness(args ...string) (brightnessFlag, error) {
	var b brightnessFlag
	fs := flag.NewFlagSet("matrixloop", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&b, "brightness", "")
	return b, fs.Parse(args)
}

func TestBrightnessFlagRange(t *testing.T) {
	b, err := parseBrightness("-brightness=0")
	require.NoError(t, err)
	assert.Equal(t, brightnessFlag(0), b)

	b, err = parseBrightness("-brightness=255")
	require.NoError(t, err)
	assert.Equal(t, brightnessFlag(255), b)

	for _, bad := range []string{"-brightness=256", "-brightness=300", "-brightness=-1", "-brightness=dim"} {
		_, err := parseBrightness(bad)
		assert.Errorf(t, err, "%s must be rejected", bad)
	}
}
