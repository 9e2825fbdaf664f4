package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/clouddocs/server/internal/logger"
	"github.com/clouddocs/server/internal/model"
)

const maxTags = 3

const tagPromptTemplate = `You are an intelligent file organization assistant.
Suggest 2-3 short, relevant, lowercase tags for a file based on its name.
The file is named: %q

Provide ONLY a comma-separated list of tags with no extra text or explanation.

Examples:
- "Invoice_2025_Jan.pdf" -> finance, invoice, document
- "Team_Photo_Offsite.jpg" -> event, photo, media
- "ProjectProposal_2025.docx" -> project, proposal, document
- "Budget_Spreadsheet_Q4.xlsx" -> finance, budget, spreadsheet
- "Meeting_Notes_Nov.txt" -> notes, meeting, document

Now suggest tags for: %q`

const namePromptTemplate = `You are an expert file naming assistant. Clean up this messy filename into a readable one.

Rules:
- Use underscores (_) instead of spaces
- Use lowercase
- Remove special characters, timestamps, version numbers, or junk
- Keep it descriptive and concise
- MUST keep the file extension: .%s

Examples:
- "IMG_8821_v2 (copy).jpg" -> "img_8821.jpg"
- "final_presentation_v3_draft.pptx" -> "final_presentation.pptx"
- "2025-01-20_Invoice-CLIENT.pdf" -> "invoice_client.pdf"
- "Student Report card 2024.docx" -> "student_report_2024.docx"
- "screenshot 2025-11-12 at 11.30.45 AM.png" -> "screenshot.png"

Original filename: %q

Provide ONLY the cleaned filename with extension, nothing else.`

// TagSuggestion carries suggested tags. Fallback is set when the
// completion call failed or produced nothing usable, so callers can tell
// a model answer from the deterministic fallback without reading logs.
type TagSuggestion struct {
	Tags     []string `json:"tags"`
	Fallback bool     `json:"fallback"`
}

// NameSuggestion carries a cleaned-up filename, falling back to the
// original when the completion call fails.
type NameSuggestion struct {
	Name     string `json:"suggested_name"`
	Fallback bool   `json:"fallback"`
}

// Service suggests tags and filenames using a text-completion call. It
// only ever sees filenames, never object content.
type Service struct {
	completer model.Completer
	logger    *logger.Logger
}

// New creates an assist service on top of the given completer.
func New(completer model.Completer, logger *logger.Logger) *Service {
	return &Service{
		completer: completer,
		logger:    logger,
	}
}

// SuggestTags asks the model for up to three lowercase tags for a
// filename. Completion failure is not an error for the caller: the
// result is an empty tag set marked as fallback.
func (s *Service) SuggestTags(ctx context.Context, filename string) TagSuggestion {
	prompt := fmt.Sprintf(tagPromptTemplate, filename, filename)

	out, err := s.completer.Complete(ctx, prompt, 50, 0.1)
	if err != nil {
		s.logger.Warn("tag suggestion failed, using fallback", "filename", filename, "error", err)
		return TagSuggestion{Tags: []string{}, Fallback: true}
	}

	tags := parseTags(out)
	if len(tags) == 0 {
		s.logger.Warn("tag suggestion returned nothing usable, using fallback", "filename", filename)
		return TagSuggestion{Tags: []string{}, Fallback: true}
	}

	return TagSuggestion{Tags: tags}
}

// SuggestFilename asks the model for a cleaned-up version of the
// filename. The original extension always survives: if the model dropped
// or changed it, it is appended back onto the model's base name. Any
// failure returns the original name marked as fallback.
func (s *Service) SuggestFilename(ctx context.Context, original string) NameSuggestion {
	_, ext := splitExtension(original)

	prompt := fmt.Sprintf(namePromptTemplate, ext, original)

	out, err := s.completer.Complete(ctx, prompt, 100, 0.2)
	if err != nil {
		s.logger.Warn("filename suggestion failed, using fallback", "filename", original, "error", err)
		return NameSuggestion{Name: original, Fallback: true}
	}

	name := sanitizeLine(out)
	if name == "" {
		s.logger.Warn("filename suggestion returned nothing usable, using fallback", "filename", original)
		return NameSuggestion{Name: original, Fallback: true}
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(name), "."+strings.ToLower(ext)) {
		base, _ := splitExtension(name)
		name = strings.TrimSpace(base) + "." + ext
	}

	return NameSuggestion{Name: name}
}

// sanitizeLine strips surrounding whitespace and quotes and keeps only
// the first line of a possibly chatty model response.
func sanitizeLine(out string) string {
	out = strings.TrimSpace(out)
	if line, _, found := strings.Cut(out, "\n"); found {
		out = line
	}
	out = strings.Trim(out, `"'`)
	return strings.TrimSpace(out)
}

func parseTags(out string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, raw := range strings.Split(sanitizeLine(out), ",") {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// splitExtension splits a filename at its last dot. The extension is
// returned without the dot and is empty when the name has none.
func splitExtension(name string) (base, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}
