package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const diagnosePrompt = `You are an expert fish pathologist and aquaculture specialist.
Analyze this image of a fish and identify any visible diseases or abnormalities.

Provide the output in the following JSON format ONLY (no markdown):
{
    "disease_name": "Name of disease or 'Healthy'",
    "confidence": "Low/Medium/High",
    "reasoning": "Medical reasoning based on visual symptoms. Mention potential water quality causes (pH, Ammonia, etc.) if applicable.",
    "status": "Healthy/Infected"
}

If the image is not of a fish, return:
{
    "disease_name": "Unknown",
    "confidence": "0",
    "reasoning": "The image does not appear to contain a fish.",
    "status": "unknown"
}`

// ErrBadDiagnosis is returned when the model answer is not the expected JSON.
var ErrBadDiagnosis = errors.New("unparsable diagnosis")

// ErrEmptyImage is returned when Diagnose is called with no image bytes.
var ErrEmptyImage = errors.New("empty image")

// Diagnosis is the vision model's verdict on a fish image.
type Diagnosis struct {
	DiseaseName string     `json:"disease_name"`
	Confidence  Confidence `json:"confidence"`
	Reasoning   string     `json:"reasoning"`
	Status      string     `json:"status"`
}

// Confidence accepts either a string ("High") or a number (0) from the model.
type Confidence string

func (c *Confidence) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = Confidence(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = Confidence(n.String())
	return nil
}

// ImageDiagnoser identifies fish diseases from a photo.
type ImageDiagnoser interface {
	Diagnose(ctx context.Context, image []byte, mimeType string) (*Diagnosis, error)
}

// DefaultCacheSize is the number of diagnoses a Diagnoser keeps.
const DefaultCacheSize = 256

// Diagnoser is an ImageDiagnoser backed by a vision Generator. Successful
// results are cached by image hash; the oldest entry is evicted once the
// cache holds MaxCached results.
type Diagnoser struct {
	Gen       Generator
	Logger    *zap.Logger
	MaxCached int

	mu    sync.Mutex
	cache map[string]*Diagnosis
	order []string // insertion order, oldest first
}

// NewDiagnoser creates a Diagnoser.
func NewDiagnoser(gen Generator, logger *zap.Logger) *Diagnoser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Diagnoser{Gen: gen, Logger: logger, MaxCached: DefaultCacheSize, cache: make(map[string]*Diagnosis)}
}

// Diagnose implements ImageDiagnoser.
func (d *Diagnoser) Diagnose(ctx context.Context, image []byte, mimeType string) (*Diagnosis, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	sum := sha256.Sum256(image)
	key := hex.EncodeToString(sum[:])

	if cached := d.lookup(key); cached != nil {
		d.Logger.Debug("Diagnosis cache hit", zap.String("hash", key))
		return cached, nil
	}

	text, err := d.Gen.Generate(ctx, "", genai.NewPartFromText(diagnosePrompt), genai.NewPartFromBytes(image, mimeType))
	if err != nil {
		return nil, fmt.Errorf("diagnose: %w", err)
	}
	diag, err := parseDiagnosis(text)
	if err != nil {
		return nil, err
	}

	d.store(key, diag)
	d.Logger.Info("Diagnosis stored",
		zap.String("hash", key),
		zap.String("disease", diag.DiseaseName))
	return diag, nil
}

func (d *Diagnoser) store(key string, diag *Diagnosis) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		d.cache = make(map[string]*Diagnosis)
	}
	if _, ok := d.cache[key]; !ok {
		d.order = append(d.order, key)
	}
	d.cache[key] = diag

	limit := d.MaxCached
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	for len(d.order) > limit {
		delete(d.cache, d.order[0])
		d.order = d.order[1:]
	}
}

func (d *Diagnoser) lookup(key string) *Diagnosis {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cache[key]
}

// parseDiagnosis decodes the model answer, tolerating a markdown code fence.
func parseDiagnosis(text string) (*Diagnosis, error) {
	text = stripCodeFence(text)
	var diag Diagnosis
	if err := json.Unmarshal([]byte(text), &diag); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDiagnosis, err)
	}
	if diag.DiseaseName == "" {
		return nil, fmt.Errorf("%w: missing disease_name", ErrBadDiagnosis)
	}
	return &diag, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
