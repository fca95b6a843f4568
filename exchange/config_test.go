package exchange

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Lafeng/dhlab/crypto"
	"github.com/Lafeng/dhlab/exception"
	"github.com/Lafeng/dhlab/prime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 8, c.DigitCount)
	assert.Equal(t, prime.DefaultIterations, c.Iterations)
	assert.Equal(t, prime.DefaultSearchLimit, c.SearchLimit)
	assert.Equal(t, METHOD_TEXTBOOK, c.Method)
	assert.True(t, c.StrictRoot)
	assert.Equal(t, 1, c.Verbose)
	assert.NoError(t, c.Validate())
}

func TestConfigTemplateRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConfigTemplate(&buf))
	assert.Contains(t, buf.String(), "["+CF_EXCHANGE+"]")

	c, err := ParseConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestParseConfig(t *testing.T) {
	text := `
[dhlab.Exchange]
DigitCount = 12
Iterations = 64
Method     = ecdhe-p256
StrictRoot = false
`
	c, err := ParseConfig(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, 12, c.DigitCount)
	assert.Equal(t, 64, c.Iterations)
	assert.Equal(t, "ECDHE-P256", c.Method)
	assert.False(t, c.StrictRoot)
	// untouched keys keep their defaults
	assert.Equal(t, prime.DefaultSearchLimit, c.SearchLimit)
}

func TestParseConfigErrors(t *testing.T) {
	cases := []struct {
		text string
		kind error
	}{
		{"[dhlab.Exchange]\nDigitCount = 19\n", prime.DigitsOutOfRange},
		{"[dhlab.Exchange]\nDigitCount = 1\n", prime.DigitsOutOfRange},
		{"[dhlab.Exchange]\nIterations = 0\n", CONF_ERROR},
		{"[dhlab.Exchange]\nSearchLimit = -3\n", CONF_ERROR},
		{"[dhlab.Exchange]\nMethod = RSA\n", crypto.NoSuchDHMethod},
		{"[other]\nDigitCount = 8\n", CONF_ERROR},
	}
	for _, c := range cases {
		_, err := ParseConfig(strings.NewReader(c.text))
		require.Error(t, err, c.text)
		assert.True(t, errors.Is(err, c.kind), "%q: %v", c.text, err)
		assert.Equal(t, exception.EX_CONFIG, exception.ExitCode(err))
	}
}

func TestLoadConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), CONFIG_NAME)
	require.NoError(t, CreateConfigTemplate(file))

	c, err := DetectConfig(file)
	require.NoError(t, err)
	assert.Equal(t, file, c.Source)
	assert.Equal(t, 8, c.DigitCount)

	_, err = DetectConfig(filepath.Join(t.TempDir(), "missing.ini"))
	assert.True(t, errors.Is(err, CONF_LOAD))
}

func TestDetectConfigDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)
	t.Setenv("HOME", dir)

	c, err := DetectConfig("")
	require.NoError(t, err)
	if c.Source == "" {
		assert.Equal(t, DefaultConfig(), c)
	}
}
