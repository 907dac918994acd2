package core

import (
	"fmt"

	"noteshub.in/noteshub/internal/utils"
)

const (
	defaultMaxSegmentChars = 600
	maxRevisionSegments    = 3

	minSegmentSeconds = 20
	maxSegmentSeconds = 90
)

// Segmenter turns a notes document into an ordered narration manifest. It is
// a pure function of its input: no external calls, identical output for
// identical notes.
type Segmenter struct {
	// MaxChars bounds the length of each snippet. Zero means the default.
	MaxChars int
}

// Segment chunks every theory section into narration-sized snippets, then
// appends up to three quick-revision bullets as short closing segments.
// Segment IDs are stable and derived from the topic name.
func (s Segmenter) Segment(notes *NotesObject) SegmentsManifest {
	maxChars := s.MaxChars
	if maxChars <= 0 {
		maxChars = defaultMaxSegmentChars
	}

	slug := utils.Slug(notes.Topic)
	if slug == "" {
		slug = "topic"
	}

	var manifest SegmentsManifest
	n := 0
	for _, section := range notes.Theory {
		for _, chunk := range utils.ChunkText(section.Text, maxChars) {
			n++
			manifest = append(manifest, Segment{
				SegmentID:             fmt.Sprintf("%s_sec%d", slug, n),
				Text:                  chunk,
				ApproxDurationSeconds: approxDuration(chunk),
			})
		}
	}

	revision := notes.QuickRevision
	if len(revision) > maxRevisionSegments {
		revision = revision[:maxRevisionSegments]
	}
	base := len(manifest)
	for i, bullet := range revision {
		manifest = append(manifest, Segment{
			SegmentID:             fmt.Sprintf("%s_qr%d", slug, base+i+1),
			Text:                  utils.Truncate(bullet, maxChars),
			ApproxDurationSeconds: minSegmentSeconds,
		})
	}

	return manifest
}

// approxDuration estimates narration time at roughly five characters per
// second, clamped to a 20-90s window.
func approxDuration(text string) int {
	d := len(text) / 5
	if d < minSegmentSeconds {
		return minSegmentSeconds
	}
	if d > maxSegmentSeconds {
		return maxSegmentSeconds
	}
	return d
}
