package assist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clouddocs/server/internal/logger"
)

// MockCompleter mocks the Completer interface
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	args := m.Called(ctx, prompt, maxTokens, temperature)
	return args.String(0), args.Error(1)
}

func TestService_SuggestTags(t *testing.T) {
	tests := []struct {
		name         string
		completion   string
		err          error
		wantTags     []string
		wantFallback bool
	}{
		{
			name:       "clean comma separated list",
			completion: "finance, invoice, document",
			wantTags:   []string{"finance", "invoice", "document"},
		},
		{
			name:       "uppercase and padding normalized",
			completion: "  Finance , INVOICE,document ",
			wantTags:   []string{"finance", "invoice", "document"},
		},
		{
			name:       "surrounding quotes and extra lines stripped",
			completion: "\"photo, media\"\nHere are some tags for you!",
			wantTags:   []string{"photo", "media"},
		},
		{
			name:       "duplicates removed case-insensitively",
			completion: "notes, Notes, meeting, notes",
			wantTags:   []string{"notes", "meeting"},
		},
		{
			name:       "capped at three entries",
			completion: "a, b, c, d, e",
			wantTags:   []string{"a", "b", "c"},
		},
		{
			name:         "completion failure falls back to empty set",
			err:          errors.New("timeout"),
			wantTags:     []string{},
			wantFallback: true,
		},
		{
			name:         "blank completion falls back",
			completion:   "   \n  ",
			wantTags:     []string{},
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &MockCompleter{}
			completer.On("Complete", mock.Anything, mock.Anything, 50, 0.1).Return(tt.completion, tt.err)

			s := New(completer, logger.New(0))
			got := s.SuggestTags(context.Background(), "report.pdf")

			assert.Equal(t, tt.wantTags, got.Tags)
			assert.Equal(t, tt.wantFallback, got.Fallback)
			assert.LessOrEqual(t, len(got.Tags), 3)
		})
	}
}

func TestService_SuggestTags_PromptContainsFilename(t *testing.T) {
	completer := &MockCompleter{}
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, `"Invoice_Jan.pdf"`)
	}), 50, 0.1).Return("finance", nil)

	s := New(completer, logger.New(0))
	s.SuggestTags(context.Background(), "Invoice_Jan.pdf")

	completer.AssertExpectations(t)
}

func TestService_SuggestFilename(t *testing.T) {
	tests := []struct {
		name         string
		original     string
		completion   string
		err          error
		wantName     string
		wantFallback bool
	}{
		{
			name:       "clean suggestion keeps extension",
			original:   "IMG_8821_v2 (copy).jpg",
			completion: "img_8821.jpg",
			wantName:   "img_8821.jpg",
		},
		{
			name:       "dropped extension appended back",
			original:   "Invoice Client 2025.pdf",
			completion: "invoice_client_2025",
			wantName:   "invoice_client_2025.pdf",
		},
		{
			name:       "changed extension corrected",
			original:   "screenshot at 11.30.45 AM.png",
			completion: "screenshot.jpg",
			wantName:   "screenshot.png",
		},
		{
			name:       "extension match is case-insensitive",
			original:   "photo.JPG",
			completion: "photo.jpg",
			wantName:   "photo.jpg",
		},
		{
			name:       "quotes and chatter stripped",
			original:   "Meeting Notes.txt",
			completion: "\"meeting_notes.txt\"\nI hope this helps!",
			wantName:   "meeting_notes.txt",
		},
		{
			name:       "no extension on original",
			original:   "README",
			completion: "readme",
			wantName:   "readme",
		},
		{
			name:         "completion failure returns original",
			original:     "final_presentation_v3.pptx",
			err:          errors.New("timeout"),
			wantName:     "final_presentation_v3.pptx",
			wantFallback: true,
		},
		{
			name:         "blank completion returns original",
			original:     "a.txt",
			completion:   "  ",
			wantName:     "a.txt",
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &MockCompleter{}
			completer.On("Complete", mock.Anything, mock.Anything, 100, 0.2).Return(tt.completion, tt.err)

			s := New(completer, logger.New(0))
			got := s.SuggestFilename(context.Background(), tt.original)

			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantFallback, got.Fallback)
		})
	}
}

func TestSplitExtension(t *testing.T) {
	base, ext := splitExtension("report.final.pdf")
	assert.Equal(t, "report.final", base)
	assert.Equal(t, "pdf", ext)

	base, ext = splitExtension("README")
	assert.Equal(t, "README", base)
	assert.Equal(t, "", ext)
}
