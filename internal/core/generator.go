package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"noteshub.in/noteshub/internal/utils"
)

const (
	defaultNotesModelName = "gemini-1.5-flash-latest"

	// Resource text beyond this is dropped from the prompt, matching the
	// cap the original teacher tool applied.
	maxResourceChars = 30000

	notesSystemInstruction = "You are an experienced CBSE teacher preparing study notes. " +
		"Always respond with a single JSON object and nothing else. " +
		"The object must have exactly these keys: \"theory\" (array of {\"heading\", \"text\"}), " +
		"\"learning_objectives\" (array of strings), \"quick_revision\" (array of strings), " +
		"\"mcqs\" (array of {\"question\", \"choices\", \"answer\"}). " +
		"Base the notes on the provided resource text; do not invent facts beyond it."
)

// NotesGenerator produces a structured notes document for one upload.
// There are two implementations: the Gemini-backed variant when an API key is
// configured, and the deterministic fallback template. The choice is made
// once at startup; the upload flow additionally falls back silently whenever
// the API variant errors.
type NotesGenerator interface {
	Generate(ctx context.Context, meta TopicMeta, resourceText string) (*NotesObject, error)
}

// GeminiGenerator calls the Gemini API with a fixed prompt template and
// parses the JSON response into a NotesObject. One attempt per upload, no
// retry, no caching.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiGenerator{client: client, model: defaultNotesModelName}, nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func (g *GeminiGenerator) Generate(ctx context.Context, meta TopicMeta, resourceText string) (*NotesObject, error) {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(notesSystemInstruction)},
	}

	temp := float32(0.0)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}

	prompt := buildNotesPrompt(meta, resourceText)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &GenerationError{Err: err}
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &GenerationError{Err: fmt.Errorf("empty response from model")}
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw.WriteString(string(txt))
		}
	}

	notes, err := ParseNotesResponse(raw.String())
	if err != nil {
		return nil, &GenerationError{Err: err}
	}
	notes.Topic = meta.Topic
	return notes, nil
}

func buildNotesPrompt(meta TopicMeta, resourceText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create study notes for Class %s, Subject %q", meta.Class, meta.Subject)
	if meta.Chapter != "" {
		fmt.Fprintf(&b, ", Chapter %q", meta.Chapter)
	}
	fmt.Fprintf(&b, ", Topic %q.\n", meta.Topic)
	b.WriteString("Include 2-4 theory sections, 3-5 learning objectives, 4-6 quick revision points and 3-5 multiple choice questions.\n")
	if resourceText != "" {
		b.WriteString("\nRESOURCE_TEXT:\n")
		b.WriteString(utils.Truncate(resourceText, maxResourceChars))
	}
	return b.String()
}

// ParseNotesResponse decodes a model response into a NotesObject and checks
// that all four sections are present. Markdown code fences around the JSON
// are tolerated.
func ParseNotesResponse(raw string) (*NotesObject, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var notes NotesObject
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		return nil, fmt.Errorf("response is not valid notes JSON: %w", err)
	}
	if len(notes.Theory) == 0 {
		return nil, fmt.Errorf("response is missing theory sections")
	}
	if len(notes.LearningObjectives) == 0 {
		return nil, fmt.Errorf("response is missing learning objectives")
	}
	if len(notes.QuickRevision) == 0 {
		return nil, fmt.Errorf("response is missing quick revision points")
	}
	if len(notes.MCQs) == 0 {
		return nil, fmt.Errorf("response is missing MCQs")
	}
	return &notes, nil
}

// FallbackGenerator derives a minimal NotesObject from the extracted text
// with no external calls. It never fails and is fully deterministic, which
// guarantees an upload never blocks on an unavailable generator API.
type FallbackGenerator struct{}

func (FallbackGenerator) Generate(_ context.Context, meta TopicMeta, resourceText string) (*NotesObject, error) {
	notes := &NotesObject{Topic: meta.Topic}

	resourceText = strings.TrimSpace(resourceText)
	if resourceText != "" {
		chunks := utils.ChunkText(resourceText, 1200)
		if len(chunks) > 3 {
			chunks = chunks[:3]
		}
		for i, chunk := range chunks {
			heading := "Overview"
			if i > 0 {
				heading = fmt.Sprintf("Section %d", i+1)
			}
			notes.Theory = append(notes.Theory, TheorySection{Heading: heading, Text: chunk})
		}
	} else {
		notes.Theory = []TheorySection{{
			Heading: "Overview",
			Text: fmt.Sprintf("These notes for %q (%s, Class %s) were created without extracted resource text. "+
				"Refer to the attached PDF for the full material.", meta.Topic, meta.Subject, meta.Class),
		}}
	}

	notes.LearningObjectives = []string{
		fmt.Sprintf("Define %s and explain its role within %s.", meta.Topic, meta.Subject),
		fmt.Sprintf("Describe the key ideas of %s in your own words.", meta.Topic),
		fmt.Sprintf("Apply %s to a simple worked example.", meta.Topic),
	}

	sentences := utils.SplitSentences(resourceText)
	if len(sentences) > 4 {
		sentences = sentences[:4]
	}
	for _, s := range sentences {
		notes.QuickRevision = append(notes.QuickRevision, utils.Truncate(s, 200))
	}
	if len(notes.QuickRevision) == 0 {
		notes.QuickRevision = []string{
			fmt.Sprintf("%s is part of the %s syllabus for Class %s.", meta.Topic, meta.Subject, meta.Class),
			fmt.Sprintf("Revise the definition and one example of %s.", meta.Topic),
		}
	}

	notes.MCQs = []MCQ{
		{
			Question: fmt.Sprintf("Which subject does the topic %q belong to?", meta.Topic),
			Choices:  []string{meta.Subject, "History", "Geography", "Economics"},
			Answer:   meta.Subject,
		},
		{
			Question: fmt.Sprintf("Where can the full study material for %q be found?", meta.Topic),
			Choices:  []string{"The attached PDF resource", "Nowhere", "A different chapter", "The index page"},
			Answer:   "The attached PDF resource",
		},
	}

	return notes, nil
}
