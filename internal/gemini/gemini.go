// Package gemini generates reader-curiosity questions for matched trends.
package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// QuestionCount is the fixed size of the enrichment output.
const QuestionCount = 3

// Placeholder fills question slots the model did not produce.
const Placeholder = "N/A"

type Client struct {
	client   *genai.Client
	model    string
	template string // prompt with {keyword} and {title} placeholders
}

func NewClient(apiKey, model, template string) (*Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client, model: model, template: template}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Questions asks the model for three questions a reader would have about the
// matched headline and returns exactly three strings, padded with
// placeholders if the response falls short.
func (c *Client) Questions(keyword, title string) ([]string, error) {
	ctx := context.Background()
	model := c.client.GenerativeModel(c.model)

	prompt := BuildPrompt(c.template, keyword, title)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	response := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	questions := ParseQuestions(response)
	log.Printf("Gemini generated %d question(s) for %q", countReal(questions), keyword)
	return questions, nil
}

// BuildPrompt substitutes the term phrase and matched headline into the
// configured template.
func BuildPrompt(template, keyword, title string) string {
	prompt := strings.ReplaceAll(template, "{keyword}", keyword)
	return strings.ReplaceAll(prompt, "{title}", title)
}

// ParseQuestions extracts the numbered lines of a model response. The prompt
// asks for "1. ...\n2. ...\n3. ..." but models pad with prose, so only lines
// carrying a "<n>. " marker count. Always returns exactly QuestionCount
// entries, placeholder-padded and truncated.
func ParseQuestions(response string) []string {
	var questions []string
	for _, raw := range strings.Split(strings.TrimSpace(response), "\n") {
		line := strings.TrimSpace(raw)
		if !strings.Contains(line, ". ") {
			continue
		}
		parts := strings.SplitN(line, ". ", 2)
		if q := strings.TrimSpace(parts[1]); q != "" {
			questions = append(questions, q)
		}
	}

	for len(questions) < QuestionCount {
		questions = append(questions, Placeholder)
	}
	return questions[:QuestionCount]
}

func countReal(questions []string) int {
	n := 0
	for _, q := range questions {
		if q != Placeholder {
			n++
		}
	}
	return n
}
