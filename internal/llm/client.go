// Package llm provides text-generation clients for the configured provider.
package llm

import (
	"context"
)

type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
