package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiModel implements ChatModel using the Gemini API. System messages
// are folded into the system instruction; the rest become content turns.
type GeminiModel struct {
	client *genai.Client
	model  string
}

// NewGeminiModel creates a Gemini-backed chat model.
func NewGeminiModel(ctx context.Context, apiKey, modelName string) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiModel{client: client, model: modelName}, nil
}

// Complete sends the message sequence and returns the reply content.
func (m *GeminiModel) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	var system strings.Builder
	var contents []*genai.Content

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			if system.Len() > 0 {
				system.WriteString("\n\n")
			}
			system.WriteString(msg.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{}
	if system.Len() > 0 {
		config.SystemInstruction = genai.NewContentFromText(system.String(), genai.RoleUser)
	}

	// Gemini requires at least one content turn; the first interviewer turn
	// of a session has only system seeds.
	if len(contents) == 0 {
		contents = append(contents, genai.NewContentFromText("Please begin.", genai.RoleUser))
	}

	res, err := m.client.Models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned an empty candidate")
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}
