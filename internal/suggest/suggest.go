// Package suggest generates professional summary drafts from the rest of a
// resume document using Google Gemini.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

// defaultModel is the Gemini model used for summary drafting.
const defaultModel = "gemini-2.5-flash"

// Suggester produces a professional summary draft for a resume.
type Suggester interface {
	SuggestSummary(ctx context.Context, r *resume.Resume) (string, error)
	Close() error
}

// Gemini implements Suggester on the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

var _ Suggester = (*Gemini)(nil)

// NewGemini creates a Gemini-backed suggester.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{client: client, model: defaultModel}, nil
}

// SuggestSummary asks the model for a 2-3 sentence first-person summary
// grounded in the document's experience, education and skills.
func (g *Gemini) SuggestSummary(ctx context.Context, r *resume.Resume) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.4)

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(r)))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// BuildPrompt renders the suggestion prompt for a document. Exported so the
// prompt content can be tested without an API client.
func BuildPrompt(r *resume.Resume) string {
	var b strings.Builder

	b.WriteString("Write a professional summary for a resume. ")
	b.WriteString("Use 2-3 sentences, first person without pronouns, no markdown. ")
	b.WriteString("Base it only on the facts below.\n\n")

	if name := strings.TrimSpace(r.PersonalInfo.FirstName + " " + r.PersonalInfo.LastName); name != "" {
		fmt.Fprintf(&b, "Candidate: %s\n", name)
	}

	if len(r.WorkExperience) > 0 {
		b.WriteString("Experience:\n")
		for _, w := range r.WorkExperience {
			fmt.Fprintf(&b, "- %s at %s", w.JobTitle, w.Employer)
			if w.Description != "" {
				fmt.Fprintf(&b, ": %s", w.Description)
			}
			b.WriteString("\n")
		}
	}

	if len(r.Education) > 0 {
		b.WriteString("Education:\n")
		for _, e := range r.Education {
			fmt.Fprintf(&b, "- %s, %s\n", e.Degree, e.Institution)
		}
	}

	if len(r.Skills.Technical) > 0 {
		fmt.Fprintf(&b, "Technical skills: %s\n", strings.Join(r.Skills.Technical, ", "))
	}
	if len(r.Skills.Soft) > 0 {
		fmt.Fprintf(&b, "Soft skills: %s\n", strings.Join(r.Skills.Soft, ", "))
	}

	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
