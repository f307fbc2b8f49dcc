package merge

import (
	"fmt"
	"strings"
)

// MaxPromptChars is the hard prompt ceiling of the image-generation API,
// measured in characters.
const MaxPromptChars = 1000

const truncationMarker = "..."

// promptSkeleton carries the fixed photographic style cues, arrangement
// constraints and forbidden-elements list. It is a static asset, never user
// input; only the flower description is interpolated.
const promptSkeleton = "Generate flower bouquet with %s, tied with white ribbon, " +
	"professional photography with realistic flowers, soft natural lighting, " +
	"clean background. No text, no watermarks, no hands or people."

// Instruction templates for the vision calls.
const (
	describeInstruction = "Identify each flower type with exact colors and key characteristics. " +
		"Format: 'deep red roses with velvety petals, soft pink peonies, white baby's breath, " +
		"purple lavender stems'. Be specific about flower types and accurate color descriptions."

	compositionInstruction = "Suggest how to arrange these flowers into one bouquet: overall shape, " +
		"color balance, density, and which flowers should be focal versus supporting. " +
		"Answer in at most 150 words."
)

const (
	describeMaxTokens    = 300
	compositionMaxTokens = 200
	// CompositionImageCap bounds how many images feed the composition call.
	compositionImageCap = 3

	titleMaxTokens = 15
)

// ComposePrompt interpolates the flower description (optionally extended
// with a composition description) into the generation skeleton and enforces
// the character ceiling. Oversized output is truncated rune-safely to
// exactly MaxPromptChars, ending with the truncation marker. It never fails
// and is idempotent for identical inputs.
func ComposePrompt(descriptions ...string) string {
	var kept []string
	for _, d := range descriptions {
		if d = strings.TrimSpace(d); d != "" {
			kept = append(kept, d)
		}
	}
	prompt := fmt.Sprintf(promptSkeleton, strings.Join(kept, ". "))
	return truncatePrompt(prompt, MaxPromptChars)
}

func truncatePrompt(prompt string, limit int) string {
	runes := []rune(prompt)
	if len(runes) <= limit {
		return prompt
	}
	return string(runes[:limit-len(truncationMarker)]) + truncationMarker
}
