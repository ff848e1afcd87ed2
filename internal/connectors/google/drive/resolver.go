package drive

import "strings"

const (
	fileURLPrefix   = "https://drive.google.com/file/d/"
	folderURLPrefix = "https://drive.google.com/drive/folders/"
)

// ResolveWebURL returns the browser link for a Drive file.
// The API-provided webViewLink wins; otherwise the link is built from the ID.
func ResolveWebURL(fileID, mimeType, webViewLink string) string {
	if webViewLink != "" {
		return webViewLink
	}
	if strings.TrimSpace(fileID) == "" {
		return ""
	}
	if mimeType == MimeTypeFolder {
		return folderURLPrefix + fileID
	}
	return fileURLPrefix + fileID + "/view"
}
