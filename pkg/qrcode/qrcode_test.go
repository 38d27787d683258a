package qrcode_test

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactcard/pkg/qrcode"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("png of requested size", func(t *testing.T) {
		t.Parallel()

		data, err := qrcode.Generate("https://card.example.com", 128)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 128, img.Bounds().Dx())
	})

	t.Run("zero size uses default", func(t *testing.T) {
		t.Parallel()

		data, err := qrcode.Generate("hello", 0)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, qrcode.DefaultSize, img.Bounds().Dx())
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()

		_, err := qrcode.Generate("", 128)
		assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
	})

	t.Run("negative size", func(t *testing.T) {
		t.Parallel()

		_, err := qrcode.Generate("hello", -1)
		assert.ErrorIs(t, err, qrcode.ErrInvalidSize)
	})
}

func TestGenerateBase64Image(t *testing.T) {
	t.Parallel()

	uri, err := qrcode.GenerateBase64Image("https://card.example.com", 64)
	require.NoError(t, err)

	encoded, ok := strings.CutPrefix(uri, "data:image/png;base64,")
	require.True(t, ok)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)

	_, err = qrcode.GenerateBase64Image("", 64)
	assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
}
