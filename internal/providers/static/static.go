// Package static provides a deterministic in-process backend used in
// development when no AI credential is configured. Responses are derived
// from the input bytes so the rest of the pipeline (prompt composition,
// hosting, response assembly) stays fully exercisable offline.
package static

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bouquet/internal/providers"
)

var flowerPalette = []string{
	"deep red roses with velvety petals",
	"soft pink peonies",
	"white baby's breath",
	"purple lavender stems",
	"golden sunflowers",
	"cream ranunculus",
	"blue delphinium spikes",
	"blush garden tulips",
}

type Backend struct{}

func NewBackend() *Backend {
	return &Backend{}
}

func (b *Backend) DescribeImages(_ context.Context, images []providers.SourceImage, _ string, _ int) (string, error) {
	var picks []string
	for i, img := range images {
		seed := deterministicSeed(img.Data, i)
		idx := int(seed[0]) % len(flowerPalette)
		picks = append(picks, flowerPalette[idx])
	}
	if len(picks) == 0 {
		picks = flowerPalette[:1]
	}
	return strings.Join(dedupe(picks), ", "), nil
}

func (b *Backend) GenerateText(_ context.Context, prompt string, _ int) (string, error) {
	c := cases.Title(language.Und)
	words := strings.Fields(prompt)
	// Pick the trailing flower words so the title reflects the description.
	start := len(words) - 3
	if start < 0 {
		start = 0
	}
	title := strings.Join(words[start:], " ")
	title = strings.Trim(title, ".,")
	return c.String(title + " bouquet"), nil
}

func (b *Backend) GenerateImage(_ context.Context, prompt, model string, _ providers.ImageParams) (*providers.Artifact, error) {
	seed := deterministicSeed([]byte(prompt), 0)
	return &providers.Artifact{
		Data:  renderImage(1024, 1024, hex.EncodeToString(seed[:8])),
		MIME:  "image/png",
		Model: model,
	}, nil
}

func (b *Backend) ComposeImage(_ context.Context, prompt string, images []providers.SourceImage) ([]providers.Artifact, error) {
	var material []byte
	material = append(material, prompt...)
	for _, img := range images {
		material = append(material, img.Data...)
	}
	seed := deterministicSeed(material, len(images))
	return []providers.Artifact{{
		Data:  renderImage(1024, 1024, hex.EncodeToString(seed[:8])),
		MIME:  "image/png",
		Model: "static",
	}}, nil
}

func deterministicSeed(data []byte, salt int) []byte {
	h := sha256.New()
	h.Write(data)
	fmt.Fprintf(h, "|%d", salt)
	return h.Sum(nil)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func renderImage(width, height int, seed string) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	stripe := height / 12
	if stripe < 32 {
		stripe = 32
	}
	for y := 0; y < height; y += stripe * 2 {
		end := y + stripe
		if end > height {
			end = height
		}
		draw.Draw(img, image.Rect(0, y, width, end), &image.Uniform{accent}, image.Point{}, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if len(seed) < 6 {
		seed = seed + strings.Repeat("0", 6)
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	return color.RGBA{
		R: parseHexByte(segment[0:2]),
		G: parseHexByte(segment[2:4]),
		B: parseHexByte(segment[4:6]),
		A: 255,
	}
}

func parseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

var (
	_ providers.Describer      = (*Backend)(nil)
	_ providers.TextGenerator  = (*Backend)(nil)
	_ providers.ImageGenerator = (*Backend)(nil)
	_ providers.ImageComposer  = (*Backend)(nil)
)
