package drive

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/sercha-unified/internal/connectors"
	"github.com/custodia-labs/sercha-unified/internal/connectors/markup"
	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

var kindLabels = map[string]string{
	MimeTypeGoogleDoc:    "Google Doc",
	MimeTypeGoogleSheet:  "Google Sheet",
	MimeTypeGoogleSlides: "Google Slides",
	MimeTypeFolder:       "Folder",
	"application/pdf":    "PDF document",
}

// kindLabel returns a short human label for a MIME type.
func kindLabel(mimeType string) string {
	if label, ok := kindLabels[mimeType]; ok {
		return label
	}
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "Image"
	case strings.HasPrefix(mimeType, "video/"):
		return "Video"
	case mimeType == "":
		return "File"
	default:
		return "File (" + mimeType + ")"
	}
}

// FileToItem converts a Drive file to a ResultItem.
func FileToItem(f *drive.File) domain.ResultItem {
	owner := ""
	if len(f.Owners) > 0 && f.Owners[0] != nil {
		owner = connectors.FirstNonEmpty(f.Owners[0].DisplayName, f.Owners[0].EmailAddress)
	}

	itemType := domain.ItemTypeFile
	if f.MimeType == MimeTypeFolder {
		itemType = domain.ItemTypeFolder
	}

	meta := map[string]any{
		domain.MetaMimeType: f.MimeType,
	}
	if owner != "" {
		meta[domain.MetaOwner] = owner
	}
	if f.Size > 0 {
		meta["size"] = f.Size
	}

	return domain.ResultItem{
		ID:       f.Id,
		Title:    f.Name,
		Source:   domain.SourceGoogleDrive,
		ItemType: itemType,
		URL:      ResolveWebURL(f.Id, f.MimeType, f.WebViewLink),
		Snippet:  connectors.Snippet(connectors.FirstNonEmpty(markup.StripHTML(f.Description), describe(f.MimeType, owner))),
		Timestamps: domain.Timestamps{
			Created:  parseTime(f.CreatedTime),
			Modified: parseTime(f.ModifiedTime),
		},
		Metadata: meta,
	}
}

func describe(mimeType, owner string) string {
	if owner == "" {
		return kindLabel(mimeType)
	}
	return fmt.Sprintf("%s owned by %s", kindLabel(mimeType), owner)
}

// parseTime parses an RFC 3339 timestamp, returning zero when absent or invalid.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
