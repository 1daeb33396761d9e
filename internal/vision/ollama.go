package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/disintegration/imaging"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2-vision:11b"

	// Fixed instruction prompt sent with every image
	describePrompt = "Describe the main subject of this photo in one short plain sentence. " +
		"No markdown, no lead-in phrases, no lists."

	// Images are downscaled before upload to cut inference time
	maxImageDimension = 800

	maxDescriptionLength = 200
)

// OllamaProvider sends photos to a local multimodal inference endpoint.
// Stored paths are resolved against the storage root and rejected unless they
// stay confined to it - the reference may be attacker-influenced.
type OllamaProvider struct {
	baseDir string
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaProvider creates a new OllamaProvider
func NewOllamaProvider(baseDir, baseURL, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaProvider{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama/" + p.model
}

// ollamaRequest represents a request to the Ollama chat API
type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"` // base64 encoded images
}

// ollamaResponse represents a response from the Ollama chat API
type ollamaResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

func (p *OllamaProvider) Describe(ctx context.Context, storedPath string) (string, error) {
	data, err := p.readImage(storedPath)
	if err != nil {
		return "", err
	}

	messages := []ollamaMessage{
		{
			Role:    "user",
			Content: describePrompt,
			Images:  []string{base64.StdEncoding.EncodeToString(downscale(data))},
		},
	}

	resp, err := p.sendRequest(ctx, messages)
	if err != nil {
		return "", err
	}

	description := CleanDescription(resp.Message.Content)
	if description == "" {
		return "", fmt.Errorf("%w: empty description from %s", ErrProvider, p.model)
	}

	return description, nil
}

// readImage resolves a stored path to bytes, confined to the storage root
func (p *OllamaProvider) readImage(storedPath string) ([]byte, error) {
	if filepath.IsAbs(storedPath) || strings.Contains(storedPath, "..") {
		return nil, fmt.Errorf("%w: reference %q escapes the storage root", ErrProvider, storedPath)
	}

	ext := strings.ToLower(filepath.Ext(storedPath))
	if ext != ".jpg" && ext != ".jpeg" {
		return nil, fmt.Errorf("%w: reference %q has unexpected extension", ErrProvider, storedPath)
	}

	fullPath := filepath.Join(p.baseDir, filepath.FromSlash(storedPath))
	absPath, err := filepath.Abs(fullPath)
	if err != nil || !strings.HasPrefix(absPath, p.baseDir) {
		return nil, fmt.Errorf("%w: reference %q escapes the storage root", ErrProvider, storedPath)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: source image %q not readable", ErrProvider, storedPath)
	}

	return data, nil
}

// downscale re-encodes the image at a bounded size before upload. Bytes that
// cannot be decoded are sent unchanged and left for the backend to judge.
func downscale(data []byte) []byte {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageDimension || bounds.Dy() > maxImageDimension {
		img = imaging.Fit(img, maxImageDimension, maxImageDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return data
	}
	return buf.Bytes()
}

func (p *OllamaProvider) sendRequest(ctx context.Context, messages []ollamaMessage) (*ollamaResponse, error) {
	reqBody := ollamaRequest{
		Model:    p.model,
		Messages: messages,
		Stream:   false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, p.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, string(body))
	}

	var ollamaResp ollamaResponse
	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrProvider, err)
	}

	return &ollamaResp, nil
}

// Lead-in phrases models tend to prepend despite instructions
var boilerplatePrefixes = []string{
	"the image shows",
	"the image depicts",
	"the image features",
	"this image shows",
	"this image depicts",
	"the photo shows",
	"the photo depicts",
	"this photo shows",
	"this photo depicts",
	"the picture shows",
	"this picture shows",
	"in this image,",
	"in this photo,",
}

// CleanDescription post-processes raw model output into a single short
// sentence: markdown markers and boilerplate lead-ins are stripped, the text
// is cut at the first sentence terminator or near 200 characters on a word
// boundary, and trailing punctuation is removed.
func CleanDescription(raw string) string {
	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#*-•> ")
		if line != "" {
			parts = append(parts, line)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, " "))

	lower := strings.ToLower(text)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
			text = strings.TrimLeft(text, ":, ")
			break
		}
	}

	if idx := strings.IndexAny(text, ".!?"); idx >= 0 {
		text = text[:idx+1]
	} else if len(text) > maxDescriptionLength {
		cut := strings.LastIndexFunc(text[:maxDescriptionLength], unicode.IsSpace)
		if cut <= 0 {
			cut = maxDescriptionLength
		}
		text = text[:cut]
	}

	return strings.TrimRight(text, ".!?,;: ")
}
