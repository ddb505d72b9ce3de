package util

import (
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUniqueFilename(t *testing.T) {
	a := GenerateUniqueFilename("photo.JPG")
	b := GenerateUniqueFilename("photo.JPG")

	assert.NotEqual(t, a, b)
	assert.Equal(t, ".jpg", filepath.Ext(a))
	assert.Len(t, a, 36+len(".jpg"))

	assert.Equal(t, "", filepath.Ext(GenerateUniqueFilename("../../etc/passwd")))
	assert.Equal(t, "", filepath.Ext(GenerateUniqueFilename("evil.p h p")))
	assert.Equal(t, ".png", filepath.Ext(GenerateUniqueFilename("dir/../x.png")))
}

type tweetForm struct {
	Text     string `validate:"notblank"`
	MediaIDs []int  `validate:"unique_ids"`
}

func TestValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidators(v))

	assert.NoError(t, v.Struct(tweetForm{Text: "hello", MediaIDs: []int{1, 2}}))
	assert.NoError(t, v.Struct(tweetForm{Text: "hello"}))
	assert.Error(t, v.Struct(tweetForm{Text: "   ", MediaIDs: []int{1}}))
	assert.Error(t, v.Struct(tweetForm{Text: "hello", MediaIDs: []int{3, 3}}))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, raw := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := ParseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestRegisterBindingValidators(t *testing.T) {
	assert.NoError(t, RegisterBindingValidators())
}
