// Package oracle asks a generative-language model about Hebrew palindromes:
// open-ended discovery in the Tanakh and source identification for a snippet
// found by the local scanner. Model output is untrusted; it is decoded into
// fixed record types and anything else is reported as ErrMalformedResponse.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/palindrom/palindrom/internal/types"
	"go.uber.org/zap"
)

var (
	// ErrGeneration wraps transport or service failures.
	ErrGeneration = errors.New("generation failed")
	// ErrMalformedResponse is returned when the model reply is not the expected JSON.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrMissingAPIKey is returned when no API key can be resolved.
	ErrMissingAPIKey = errors.New("missing api key")
)

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client turns Generator output into typed answers.
type Client struct {
	gen Generator
	log *zap.Logger
}

// New wraps gen. A nil logger is replaced with a no-op logger.
func New(gen Generator, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{gen: gen, log: log}
}

type discoverResponse struct {
	Palindromes []types.Discovery `json:"palindromes"`
}

// Discover asks the model for palindromic sequences. With empty text it asks
// about the Tanakh as a whole; otherwise it focuses on text.
func (c *Client) Discover(ctx context.Context, text string) ([]types.Discovery, error) {
	prompt := discoverPrompt(text)
	c.log.Debug("oracle discover", zap.Int("text_len", len(text)))
	var resp discoverResponse
	if err := c.ask(ctx, prompt, &resp); err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	out := make([]types.Discovery, 0, len(resp.Palindromes))
	for _, d := range resp.Palindromes {
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		out = append(out, d)
	}
	c.log.Debug("oracle discover done", zap.Int("palindromes", len(out)))
	return out, nil
}

// IdentifySource asks the model where original appears in the Tanakh.
// A well-formed "not found" answer is returned as Source{Found: false}, not an error.
func (c *Client) IdentifySource(ctx context.Context, original string) (types.Source, error) {
	var src types.Source
	if err := c.ask(ctx, sourcePrompt(original), &src); err != nil {
		return types.Source{}, fmt.Errorf("identify source: %w", err)
	}
	if !src.Found {
		return types.Source{}, nil
	}
	c.log.Debug("oracle source", zap.String("book", src.Book), zap.String("chapter", string(src.Chapter)), zap.String("verse", string(src.Verse)))
	return src, nil
}

func (c *Client) ask(ctx context.Context, prompt string, v any) error {
	raw, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		c.log.Warn("oracle request failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	body := StripFences(raw)
	if err := json.Unmarshal([]byte(body), v); err != nil {
		c.log.Warn("oracle reply not json", zap.Error(err), zap.Int("len", len(raw)))
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func discoverPrompt(text string) string {
	const shape = `Return JSON: {"palindromes": [{"text": string, "book": string, "chapter": string, "verse": string, "meaning": string (optional)}]}`
	if strings.TrimSpace(text) == "" {
		return "Discover interesting palindromic sequences in the Hebrew Tanakh. " + shape
	}
	return fmt.Sprintf("Find interesting palindromic sequences in this Hebrew text: %q. Focus on the Tanakh. %s", text, shape)
}

func sourcePrompt(original string) string {
	return fmt.Sprintf(`Identify the exact source in the Hebrew Tanakh for this text snippet: %q. Return JSON: {"found": boolean, "book": string, "chapter": string, "verse": string}`, original)
}

// StripFences removes markdown code fences (``` or ```json) that models often
// wrap around JSON, and surrounding whitespace.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
