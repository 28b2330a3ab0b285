package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"nac-advisor/internal/llm"
)

type responsesRequest struct {
	Model           string              `json:"model"`
	Input           string              `json:"input"`
	Reasoning       *responsesReasoning `json:"reasoning,omitempty"`
	Text            *responsesText      `json:"text,omitempty"`
	MaxOutputTokens *int                `json:"max_output_tokens,omitempty"`
}

type responsesReasoning struct {
	Effort string `json:"effort"`
}

type responsesText struct {
	Verbosity string `json:"verbosity"`
}

type responsesResponse struct {
	Model  string `json:"model"`
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// respond calls the Responses API. Reasoning models take a single input string,
// so the system instruction and prompt are concatenated.
func (a *Adapter) respond(ctx context.Context, model, system string, req llm.Request) (llm.Response, error) {
	body := responsesRequest{
		Model:           model,
		Input:           system + "\n\n" + req.Prompt,
		MaxOutputTokens: req.MaxTokens,
	}
	if effort := strings.TrimSpace(req.ReasoningEffort); effort != "" {
		body.Reasoning = &responsesReasoning{Effort: effort}
	}
	if verbosity := strings.TrimSpace(req.Verbosity); verbosity != "" {
		body.Text = &responsesText{Verbosity: verbosity}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return llm.Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/responses", bytes.NewReader(payload))
	if err != nil {
		return llm.Response{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return llm.Response{}, fmt.Errorf("openai responses request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Response{}, fmt.Errorf("openai responses read: %w", err)
	}

	var parsed responsesResponse
	parseErr := json.Unmarshal(raw, &parsed)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if parseErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return llm.Response{}, llm.NewProviderError(a.id, resp.StatusCode, msg)
	}
	if parseErr != nil {
		return llm.Response{}, &llm.ProviderError{Provider: a.id, StatusCode: resp.StatusCode, Message: "malformed response body", Err: parseErr}
	}

	var text strings.Builder
	for _, item := range parsed.Output {
		for _, part := range item.Content {
			if part.Type == "output_text" {
				text.WriteString(part.Text)
			}
		}
	}

	out := llm.Response{
		Content:       strings.TrimSpace(text.String()),
		Model:         parsed.Model,
		ResolvedModel: model,
	}
	if out.Model == "" {
		out.Model = model
	}
	if parsed.Usage != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		}
	}
	return out, nil
}
