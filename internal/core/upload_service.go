package core

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"noteshub.in/noteshub/internal/store"
	"noteshub.in/noteshub/internal/utils"
)

// ArtifactStore uploads one immutable object and returns its public URL.
type ArtifactStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// CatalogStore is the slice of the catalog the workflows need.
type CatalogStore interface {
	Insert(ctx context.Context, t *store.Topic) error
	GetByID(ctx context.Context, id int64) (*store.Topic, error)
	List(ctx context.Context, f store.TopicFilter) ([]store.Topic, int64, error)
}

// A tiny silent MP3 used as narration audio until a real synthesizer is
// wired up. Keeps the student page's audio players functional.
const placeholderMP3B64 = "SUQzBAAAAAAAI1RTU0UAAAAPAAADTGF2ZjU2LjExLjEwMAAAAAAAAAAAAAAA//tQxAADB" +
	"AAAAAABP/7UMQAAEwAAAAAAAE8AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Upload step names, reported one by one to the teacher.
const (
	StepValidate       = "validate"
	StepExtractText    = "extract_text"
	StepGenerateNotes  = "generate_notes"
	StepSegmentNotes   = "segment_notes"
	StepUploadPDF      = "upload_pdf"
	StepUploadNotes    = "upload_notes"
	StepUploadAudio    = "upload_audio"
	StepUploadSegments = "upload_segments"
	StepInsertRow      = "insert_row"
)

// UploadInput is one teacher upload form submission.
type UploadInput struct {
	Class    string
	Subject  string
	Chapter  string
	Topic    string
	Summary  string
	Filename string
	PDF      []byte
}

// StepStatus records the outcome of one workflow step.
type StepStatus struct {
	Name   string
	OK     bool
	Detail string
}

// UploadResult is the per-step report for one upload attempt.
type UploadResult struct {
	AttemptID    string
	Topic        *store.Topic
	Notes        *NotesObject
	Segments     SegmentsManifest
	UsedFallback bool
	Steps        []StepStatus
}

func (r *UploadResult) addStep(name string, ok bool, detail string) {
	r.Steps = append(r.Steps, StepStatus{Name: name, OK: ok, Detail: detail})
}

// UploadService orchestrates the teacher upload flow: extract text, generate
// notes, segment them, store the artifacts, insert the catalog row. Every
// step runs exactly once; failures are recorded per step and never retried.
type UploadService struct {
	catalog   CatalogStore
	artifacts ArtifactStore
	generator NotesGenerator // nil when no generator credential is configured
	fallback  FallbackGenerator
	segmenter Segmenter
	log       *logrus.Logger

	placeholderAudio []byte
	now              func() time.Time
}

func NewUploadService(catalog CatalogStore, artifacts ArtifactStore, generator NotesGenerator, log *logrus.Logger) *UploadService {
	audio, err := base64.StdEncoding.DecodeString(placeholderMP3B64)
	if err != nil {
		// The constant is well-formed; this only trips if it is edited badly.
		panic(fmt.Sprintf("invalid placeholder audio constant: %v", err))
	}
	return &UploadService{
		catalog:          catalog,
		artifacts:        artifacts,
		generator:        generator,
		log:              log,
		placeholderAudio: audio,
		now:              time.Now,
	}
}

// Upload runs the whole flow for one form submission.
//
// Failure policy, step by step: validation failures abort immediately;
// extraction failures are absorbed (the fallback generator copes with empty
// text); generator failures silently switch to the fallback; each artifact
// upload fails independently and leaves its URL null; only a rejected row
// insert fails the attempt as a whole. Artifacts already stored when a later
// step fails are not deleted.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if err := validateUpload(in); err != nil {
		return nil, err
	}

	res := &UploadResult{AttemptID: uuid.NewString()}
	res.addStep(StepValidate, true, "")

	log := s.log.WithFields(logrus.Fields{"attempt": res.AttemptID, "topic": in.Topic})

	text, err := ExtractPDFText(in.PDF)
	if err != nil {
		// Lenient by design: proceed with empty text, fallback notes will
		// be generic.
		log.Warnf("pdf extraction failed, continuing with empty text: %v", err)
		res.addStep(StepExtractText, false, err.Error())
		text = ""
	} else {
		res.addStep(StepExtractText, true, fmt.Sprintf("extracted %d characters", len(text)))
	}

	meta := TopicMeta{Class: in.Class, Subject: in.Subject, Chapter: in.Chapter, Topic: in.Topic}
	notes := s.generateNotes(ctx, meta, text, res, log)

	segments := s.segmenter.Segment(notes)
	res.Segments = segments
	res.addStep(StepSegmentNotes, true, fmt.Sprintf("created %d segments", len(segments)))

	ts := s.now().UTC().Format("20060102150405")
	keyBase := fmt.Sprintf("%s/%s/%s_%s", utils.Slug(in.Class), utils.Slug(in.Subject), utils.Slug(in.Topic), ts)

	pdfURL := s.uploadArtifact(ctx, res, log, StepUploadPDF, "pdf",
		fmt.Sprintf("pdfs/%s.pdf", keyBase), "application/pdf", in.PDF)

	notes.SourcePDF = deref(pdfURL)
	notes.UploadedAt = ts

	notesURL := s.uploadJSON(ctx, res, log, StepUploadNotes, "notes",
		fmt.Sprintf("notes/%s.json", keyBase), notes)

	s.uploadSegmentAudio(ctx, segments, in, log)
	res.addStep(StepUploadAudio, true, fmt.Sprintf("uploaded audio for %d segments", countAudio(segments)))

	segmentsURL := s.uploadJSON(ctx, res, log, StepUploadSegments, "segments",
		fmt.Sprintf("audio/%s_segments.json", keyBase), segments)

	// The row is written with whatever URLs survived, null otherwise. There
	// is no rollback of stored artifacts when the insert is rejected.
	row := &store.Topic{
		Class:       in.Class,
		Subject:     in.Subject,
		Chapter:     in.Chapter,
		Topic:       in.Topic,
		Summary:     in.Summary,
		PDFURL:      pdfURL,
		NotesURL:    notesURL,
		SegmentsURL: segmentsURL,
	}
	if err := s.catalog.Insert(ctx, row); err != nil {
		catErr := &CatalogError{Err: err}
		log.Errorf("catalog insert rejected: %v", err)
		res.addStep(StepInsertRow, false, catErr.Error())
		return res, catErr
	}
	res.addStep(StepInsertRow, true, fmt.Sprintf("topic row %d created", row.ID))

	res.Topic = row
	res.Notes = notes
	log.Infof("upload complete: row=%d fallback=%v", row.ID, res.UsedFallback)
	return res, nil
}

func (s *UploadService) generateNotes(ctx context.Context, meta TopicMeta, text string, res *UploadResult, log *logrus.Entry) *NotesObject {
	if s.generator != nil {
		notes, err := s.generator.Generate(ctx, meta, text)
		if err == nil {
			res.addStep(StepGenerateNotes, true, "generated via model API")
			return notes
		}
		// Unconditional silent fallback; the teacher only sees the status
		// indicator on the report.
		log.Warnf("generator API failed, using fallback template: %v", err)
	}

	notes, _ := s.fallback.Generate(ctx, meta, text)
	res.UsedFallback = true
	res.addStep(StepGenerateNotes, true, "used fallback template")
	return notes
}

func (s *UploadService) uploadArtifact(ctx context.Context, res *UploadResult, log *logrus.Entry, step, artifact, key, contentType string, data []byte) *string {
	url, err := s.artifacts.Upload(ctx, key, contentType, data)
	if err != nil {
		stErr := &StorageError{Artifact: artifact, Err: err}
		log.Errorf("artifact upload failed: %v", stErr)
		res.addStep(step, false, stErr.Error())
		return nil
	}
	res.addStep(step, true, url)
	return &url
}

func (s *UploadService) uploadJSON(ctx context.Context, res *UploadResult, log *logrus.Entry, step, artifact, key string, v any) *string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Marshalling our own structs cannot realistically fail; treat it
		// like a storage failure so the row still gets written.
		stErr := &StorageError{Artifact: artifact, Err: err}
		res.addStep(step, false, stErr.Error())
		return nil
	}
	return s.uploadArtifact(ctx, res, log, step, artifact, key, "application/json", data)
}

// uploadSegmentAudio stores placeholder narration audio for each segment and
// records the URL in the manifest. Individual failures leave that segment
// without audio but never fail the upload.
func (s *UploadService) uploadSegmentAudio(ctx context.Context, segments SegmentsManifest, in UploadInput, log *logrus.Entry) {
	for i := range segments {
		key := fmt.Sprintf("audio/%s/%s/%s.mp3", utils.Slug(in.Class), utils.Slug(in.Subject), segments[i].SegmentID)
		url, err := s.artifacts.Upload(ctx, key, "audio/mpeg", s.placeholderAudio)
		if err != nil {
			log.Warnf("audio upload failed for segment %s: %v", segments[i].SegmentID, err)
			continue
		}
		segments[i].AudioURL = url
	}
}

func validateUpload(in UploadInput) error {
	if in.Class == "" {
		return &ValidationError{Field: "class", Reason: "required"}
	}
	if in.Subject == "" {
		return &ValidationError{Field: "subject", Reason: "required"}
	}
	if in.Topic == "" {
		return &ValidationError{Field: "topic", Reason: "required"}
	}
	if len(in.PDF) == 0 {
		return &ValidationError{Field: "pdf_file", Reason: "please select a PDF to upload"}
	}
	return nil
}

func countAudio(segments SegmentsManifest) int {
	n := 0
	for _, seg := range segments {
		if seg.AudioURL != "" {
			n++
		}
	}
	return n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
