package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"subsdesk/models"
)

// ErrMalformedResponse is returned when the model reply is not the expected JSON verdict
var ErrMalformedResponse = errors.New("malformed smart filter response")

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.0-flash"

// Completer sends a prompt to a language model and returns its raw text reply
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GenAICompleter calls the Gemini API
type GenAICompleter struct {
	client *genai.Client
	model  string
}

// NewGenAICompleter creates a Gemini client for the given model
func NewGenAICompleter(ctx context.Context, apiKey, model string) (*GenAICompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAICompleter{client: client, model: model}, nil
}

// Complete asks for a JSON reply at zero temperature
func (c *GenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0)
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError) {
			return "", Transient(fmt.Errorf("GenAI generate failed: %w", err))
		}
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return resp.Text(), nil
}

// Verdict lists the cancelled subscriptions the model decided to keep
type Verdict struct {
	IDs []string
}

// SmartFilter asks a language model which cancelled subscriptions still owe a shipment
type SmartFilter struct {
	completer Completer
	timeout   time.Duration
}

// NewSmartFilter creates a filter over a completer
func NewSmartFilter(completer Completer, timeout time.Duration) *SmartFilter {
	return &SmartFilter{completer: completer, timeout: timeout}
}

// Review sends the cancelled candidates to the model and parses its verdict.
// Failures come back as *models.ExternalCallError; a bad reply wraps ErrMalformedResponse.
func (f *SmartFilter) Review(ctx context.Context, candidates []models.SubscriptionRecord, cutoff time.Time) (*Verdict, error) {
	if len(candidates) == 0 {
		return &Verdict{}, nil
	}

	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c.ID] = true
	}
	prompt := BuildPrompt(candidates, cutoff)

	return Call(ctx, "smart filter", f.timeout, func(ctx context.Context) (*Verdict, error) {
		reply, err := f.completer.Complete(ctx, prompt)
		if err != nil {
			return nil, err
		}
		verdict, err := ParseVerdict(reply, known)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
				"reply": truncate(reply, 200),
			}).Warn("Smart filter returned an unusable reply")
			return nil, err
		}
		return verdict, nil
	})
}

type promptCandidate struct {
	ID            string `json:"id"`
	Customer      string `json:"customer"`
	NextOrderDate string `json:"next_order_date"`
	Note          string `json:"cancellation_note"`
}

// BuildPrompt describes the task and lists the candidates as JSON
func BuildPrompt(candidates []models.SubscriptionRecord, cutoff time.Time) string {
	list := make([]promptCandidate, len(candidates))
	for i, c := range candidates {
		next := ""
		if c.NextOrderDate != nil {
			next = c.NextOrderDate.Format("2006-01-02")
		}
		list[i] = promptCandidate{ID: c.ID, Customer: c.CustomerName, NextOrderDate: next, Note: c.CancellationNote}
	}
	data, _ := json.MarshalIndent(list, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "You review cancelled magazine subscriptions for the shipment cut off on %s.\n", cutoff.Format("2006-01-02"))
	b.WriteString("A cancelled subscription still receives this issue when the customer already paid for it, ")
	b.WriteString("usually because the next order date is after the cutoff and the note does not ask for a refund.\n")
	b.WriteString("Reply with a JSON object only, of the form {\"retain\": [\"<id>\", ...]}, listing the IDs to keep.\n")
	b.WriteString("Candidates:\n")
	b.Write(data)
	return b.String()
}

type verdictPayload struct {
	Retain []string `json:"retain"`
}

// ParseVerdict decodes a reply strictly: a single JSON object with a "retain"
// array of known IDs, optionally inside one ```json fence and nothing else
func ParseVerdict(reply string, known map[string]bool) (*Verdict, error) {
	body := stripFence(strings.TrimSpace(reply))
	if body == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedResponse)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()

	var payload verdictPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedResponse)
	}
	if payload.Retain == nil {
		return nil, fmt.Errorf("%w: missing \"retain\" list", ErrMalformedResponse)
	}

	seen := map[string]bool{}
	verdict := &Verdict{IDs: []string{}}
	for _, id := range payload.Retain {
		id = strings.TrimSpace(id)
		if !known[id] {
			return nil, fmt.Errorf("%w: unknown id %q", ErrMalformedResponse, id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		verdict.IDs = append(verdict.IDs, id)
	}
	return verdict, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if !strings.HasSuffix(s, "```") {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
