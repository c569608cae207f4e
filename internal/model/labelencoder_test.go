package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEncoder(t *testing.T) {
	path := writeFile(t, "label_encoder.json", `{"classes": ["drizzle", "fog", "rain", "sun"]}`)

	enc, err := LoadLabelEncoder(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"drizzle", "fog", "rain", "sun"}, enc.Classes())

	code, err := enc.Transform("rain")
	require.NoError(t, err)
	assert.Equal(t, 2, code)

	label, err := enc.InverseTransform(3)
	require.NoError(t, err)
	assert.Equal(t, "sun", label)

	_, err = enc.Transform("snow")
	assert.Error(t, err)
	_, err = enc.InverseTransform(4)
	assert.Error(t, err)
	_, err = enc.InverseTransform(-1)
	assert.Error(t, err)
}

func TestLoadLabelEncoderErrors(t *testing.T) {
	_, err := LoadLabelEncoder(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	_, err = LoadLabelEncoder(writeFile(t, "enc.json", `not json`))
	assert.Error(t, err)

	_, err = LoadLabelEncoder(writeFile(t, "enc.json", `{"classes": []}`))
	assert.Error(t, err)

	_, err = NewLabelEncoder([]string{"sun", "sun"})
	assert.Error(t, err)
}
