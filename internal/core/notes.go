package core

// TopicMeta carries the classification fields from the upload form into the
// generator prompt and the artifact key layout.
type TopicMeta struct {
	Class   string
	Subject string
	Chapter string
	Topic   string
}

// NotesObject is the structured notes document produced once per upload and
// stored as a JSON artifact. Field names follow the wire format the student
// viewer consumes.
type NotesObject struct {
	Topic              string          `json:"topic"`
	Theory             []TheorySection `json:"theory"`
	LearningObjectives []string        `json:"learning_objectives"`
	QuickRevision      []string        `json:"quick_revision"`
	MCQs               []MCQ           `json:"mcqs"`

	// Attached by the upload flow before the artifact is written.
	SourcePDF  string `json:"source_pdf,omitempty"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}

type TheorySection struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

type MCQ struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   string   `json:"answer"`
}

// Segment is one narration-sized snippet of a notes document, optionally
// paired with an audio artifact URL.
type Segment struct {
	SegmentID             string `json:"segment_id"`
	Text                  string `json:"text"`
	ApproxDurationSeconds int    `json:"approx_duration_seconds"`
	AudioURL              string `json:"url,omitempty"`
}

// SegmentsManifest is the ordered narration sequence derived from one
// NotesObject. Serialized as a bare JSON array, matching what the audio
// playlist on the student page expects.
type SegmentsManifest []Segment
