package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectMIME(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg soi marker", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, "image/jpeg"},
		{"png signature", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, "image/png"},
		{"gif87a", []byte("GIF87a....."), "image/gif"},
		{"gif89a", []byte("GIF89a....."), "image/gif"},
		{"riff webp", []byte("RIFF\x24\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"riff without webp marker", []byte("RIFF\x24\x00\x00\x00WAVEfmt "), "image/jpeg"},
		{"arbitrary bytes default to jpeg", []byte("not an image at all"), "image/jpeg"},
		{"empty payload defaults to jpeg", nil, "image/jpeg"},
		{"truncated riff header", []byte("RIFF"), "image/jpeg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectMIME(tc.data))
		})
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "png", Extension("image/png"))
	assert.Equal(t, "gif", Extension("image/gif"))
	assert.Equal(t, "webp", Extension("image/webp"))
	assert.Equal(t, "jpg", Extension("image/jpeg"))
	assert.Equal(t, "jpg", Extension("application/octet-stream"))
}
