package merge

import (
	"context"
	"fmt"
	"strings"

	"bouquet/internal/domain"
	"bouquet/internal/providers"
)

const titleInstruction = "Create a short bouquet title (max 4 words) for: %s"

// ComposeTitle asks the text model for a short bouquet title and strips
// surrounding whitespace and quote characters. The result is returned
// as-is; there is no minimum-length check.
func ComposeTitle(ctx context.Context, gen providers.TextGenerator, description string) (string, error) {
	text, err := gen.GenerateText(ctx, fmt.Sprintf(titleInstruction, description), titleMaxTokens)
	if err != nil {
		return "", domain.WrapUpstream("generate title", err)
	}
	return strings.Trim(strings.TrimSpace(text), `"'`), nil
}
