package stt

import (
	"context"
	"fmt"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/cicero-foco/cicero/pkg/config"
)

// AssemblyAIClient transcribes meeting videos via the official SDK
type AssemblyAIClient struct {
	client *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig) *AssemblyAIClient {
	return &AssemblyAIClient{
		client: aai.NewClient(cfg.APIKey),
	}
}

// Transcribe submits a publicly reachable media URL and blocks until the
// transcript completes. Returns the full transcript text.
func (c *AssemblyAIClient) Transcribe(ctx context.Context, mediaURL string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}

	transcript, err := c.client.Transcripts.TranscribeFromURL(ctx, mediaURL, params)
	if err != nil {
		return "", fmt.Errorf("assemblyai transcription failed: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "assemblyai reported error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("assemblyai transcription failed: %s", msg)
	}

	if transcript.Text == nil || *transcript.Text == "" {
		return "", fmt.Errorf("assemblyai returned empty transcript")
	}

	return *transcript.Text, nil
}
