package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DocumentType classifies the format a chunk's source was ingested from.
type DocumentType string

// Supported document types.
const (
	// DocumentTypePDF is content extracted from a PDF file.
	DocumentTypePDF DocumentType = "pdf"

	// DocumentTypeDOCX is content extracted from a Word document.
	DocumentTypeDOCX DocumentType = "docx"

	// DocumentTypeMarkdown is Markdown source text.
	DocumentTypeMarkdown DocumentType = "markdown"

	// DocumentTypeText is plain text.
	DocumentTypeText DocumentType = "text"

	// DocumentTypeWeb is content captured from a web page.
	DocumentTypeWeb DocumentType = "web"

	// DocumentTypeUnknown is the fallback for unrecognised formats.
	DocumentTypeUnknown DocumentType = "unknown"
)

// ParseDocumentType maps a stored string onto a DocumentType.
// Unrecognised values are an error, never a silent default.
func ParseDocumentType(value string) (DocumentType, error) {
	t := DocumentType(value)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: document type %q", ErrInvalidValue, value)
	}
	return t, nil
}

// IsValid returns true if the document type is recognised.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypePDF, DocumentTypeDOCX, DocumentTypeMarkdown,
		DocumentTypeText, DocumentTypeWeb, DocumentTypeUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t DocumentType) String() string {
	return string(t)
}

// extensionTypes is the fixed extension table used for type inference.
var extensionTypes = map[string]DocumentType{
	".pdf":  DocumentTypePDF,
	".docx": DocumentTypeDOCX,
	".md":   DocumentTypeMarkdown,
	".txt":  DocumentTypeText,
	".html": DocumentTypeWeb,
	".htm":  DocumentTypeWeb,
}

// DetectDocumentType infers a document type from a file path's extension.
// Matching is case-insensitive. It is a pure function and never fails:
// unrecognised or missing extensions yield DocumentTypeUnknown.
func DetectDocumentType(path string) DocumentType {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return DocumentTypeUnknown
}

// ContentSource classifies where a piece of content originated.
type ContentSource string

// Supported content sources.
const (
	// ContentSourceLocalDocument is a file ingested from the local documents directory.
	ContentSourceLocalDocument ContentSource = "local_document"

	// ContentSourceWebScrape is content fetched by the web scraper.
	ContentSourceWebScrape ContentSource = "web_scrape"

	// ContentSourceForumPost is content captured from a community forum.
	ContentSourceForumPost ContentSource = "forum_post"

	// ContentSourceDocumentation is content from an official documentation site.
	ContentSourceDocumentation ContentSource = "documentation"

	// ContentSourceManual is content entered by hand.
	ContentSourceManual ContentSource = "manual"
)

// ParseContentSource maps a stored string onto a ContentSource.
// Unrecognised values are an error, never a silent default.
func ParseContentSource(value string) (ContentSource, error) {
	s := ContentSource(value)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: content source %q", ErrInvalidValue, value)
	}
	return s, nil
}

// IsValid returns true if the content source is recognised.
func (s ContentSource) IsValid() bool {
	switch s {
	case ContentSourceLocalDocument, ContentSourceWebScrape, ContentSourceForumPost,
		ContentSourceDocumentation, ContentSourceManual:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ContentSource) String() string {
	return string(s)
}
