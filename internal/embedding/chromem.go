package embedding

import (
	"context"

	chromem "github.com/philippgille/chromem-go"

	"secsentry/internal/errors"
)

// ChromemFunc adapts a Provider to the chromem-go embedding function
// signature, used by the response archive for semantic search over past
// answers.
func ChromemFunc(p Provider) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vector, err := p.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		if len(vector) == 0 {
			return nil, errors.NewEmbeddingError("provider returned an empty vector", nil)
		}
		return ToFloat32(vector), nil
	}
}
