package merge

import (
	"bouquet/internal/domain"
	"bouquet/internal/providers"
)

// Limits bounds an incoming image batch. MaxTotalSize of zero disables the
// aggregate check.
type Limits struct {
	MinCount     int
	MaxCount     int
	MaxFileSize  int64
	MaxTotalSize int64
}

// ValidateBatch enforces count and size bounds before any upstream call is
// made, so malformed requests never cost an AI invocation.
func ValidateBatch(images []providers.SourceImage, limits Limits) error {
	if len(images) < limits.MinCount {
		return domain.Validationf("need at least %d images, got %d", limits.MinCount, len(images))
	}
	if len(images) > limits.MaxCount {
		return domain.Validationf("too many images: maximum is %d, got %d", limits.MaxCount, len(images))
	}

	var total int64
	for i, img := range images {
		size := int64(len(img.Data))
		if limits.MaxFileSize > 0 && size > limits.MaxFileSize {
			name := img.Filename
			if name == "" {
				name = "unnamed"
			}
			return domain.Validationf("image %d (%s) is %d bytes, maximum size is %d bytes", i+1, name, size, limits.MaxFileSize)
		}
		total += size
	}
	if limits.MaxTotalSize > 0 && total > limits.MaxTotalSize {
		return domain.Validationf("total request size %.1fMB exceeds the %.1fMB limit",
			float64(total)/(1024*1024), float64(limits.MaxTotalSize)/(1024*1024))
	}
	return nil
}
