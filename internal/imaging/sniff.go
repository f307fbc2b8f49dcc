package imaging

import "bytes"

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	gif87a    = []byte("GIF87a")
	gif89a    = []byte("GIF89a")
	riffMagic = []byte("RIFF")
	webpMark  = []byte("WEBP")
)

// DetectMIME infers the image MIME type from leading magic bytes so the
// transport encoding matches the actual payload rather than the declared
// upload content type. Unrecognized content falls back to image/jpeg; the
// sniffer never fails.
func DetectMIME(data []byte) string {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return "image/jpeg"
	case bytes.HasPrefix(data, pngMagic):
		return "image/png"
	case bytes.HasPrefix(data, gif87a), bytes.HasPrefix(data, gif89a):
		return "image/gif"
	case bytes.HasPrefix(data, riffMagic) && len(data) >= 12 && bytes.Contains(data[:12], webpMark):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// Extension maps a sniffed MIME type to a filename extension for persisted
// artifacts.
func Extension(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
