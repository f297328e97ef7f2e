// Package websearch is the web-search fallback: it asks Gemini for an
// answer when the local pipeline cannot produce a confident one. Every
// failure, including timeouts, is absorbed as "no answer".
package websearch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"konsultabot/models"
)

// DefaultConfidence is reported when the service does not score its answer.
const DefaultConfidence = 0.8

// Client calls the Gemini API with a bounded timeout.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// New creates a search client. An empty API key yields a disabled client
// that always reports "no answer".
func New(apiKey, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return &Client{model: model, timeout: timeout}, nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{client: client, model: model, timeout: timeout}, nil
}

// Search asks the external service for an answer to the message.
// Returns (nil, false) on any failure; the router treats that as
// "this path produced nothing" and falls through.
func (c *Client) Search(ctx context.Context, message, language string) (*models.WebAnswer, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(buildPrompt(message, language)), nil)
	if err != nil {
		log.Printf("Web search failed: %v", err)
		return nil, false
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return nil, false
	}

	return &models.WebAnswer{Answer: answer, Confidence: DefaultConfidence}, true
}

// buildPrompt frames the question for a campus-assistant answer.
func buildPrompt(message, language string) string {
	var b strings.Builder
	b.WriteString("You are Konsultabot, an AI assistant for Eastern Visayas State University (EVSU) Dulag Campus. ")
	b.WriteString("Answer the following question accurately and concisely. ")
	b.WriteString("If it is a technical problem, give clear numbered troubleshooting steps. ")
	if language != "" && !strings.EqualFold(language, "english") {
		fmt.Fprintf(&b, "Respond in %s where possible. ", language)
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(message)
	return b.String()
}
