package verification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// FaceMatcher decides whether a captured selfie shows the same person as the
// reference profile photo.
type FaceMatcher interface {
	Match(ctx context.Context, selfie []byte, referenceURL string) (bool, error)
}

// GeminiMatcher implements FaceMatcher on the Gemini vision model.
type GeminiMatcher struct {
	model  *genai.GenerativeModel
	client *http.Client
}

// NewGeminiMatcher creates a Gemini-backed matcher.
func NewGeminiMatcher(apiKey string) *GeminiMatcher {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		panic(fmt.Sprintf("failed to create Gemini client: %v", err))
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiMatcher{
		model:  model,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

const matchPrompt = "Compare the two photos. Do they show the same person? " +
	"Answer with a single word: YES or NO."

// Match fetches the reference photo and asks the model whether both images
// show the same person.
func (m *GeminiMatcher) Match(ctx context.Context, selfie []byte, referenceURL string) (bool, error) {
	reference, err := m.fetchReference(ctx, referenceURL)
	if err != nil {
		return false, err
	}

	resp, err := m.model.GenerateContent(ctx,
		genai.Text(matchPrompt),
		genai.ImageData("jpeg", selfie),
		genai.ImageData("jpeg", reference),
	)
	if err != nil {
		return false, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return false, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	answer := strings.ToUpper(strings.TrimSpace(sb.String()))
	return strings.HasPrefix(answer, "YES"), nil
}

func (m *GeminiMatcher) fetchReference(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build reference request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reference photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reference photo fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// StaticMatcher always returns a fixed outcome. Used in tests and as a local
// development fallback when no Gemini API key is configured.
type StaticMatcher struct {
	Outcome bool
	Err     error
}

func (m StaticMatcher) Match(ctx context.Context, selfie []byte, referenceURL string) (bool, error) {
	return m.Outcome, m.Err
}
