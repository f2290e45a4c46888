package models

import "time"

// FileResource is one stored file as listed by the server. Only
// OriginalName and Comment ever change, and only through a successful
// rename/comment round-trip; everything else is immutable server state.
type FileResource struct {
	ID               int64      `json:"id"`
	OriginalName     string     `json:"original_name"`
	SizeBytes        int64      `json:"size"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	LastDownloadedAt *time.Time `json:"last_downloaded_at,omitempty"`
	Comment          string     `json:"comment"`
	ShareLink        string     `json:"share_link"`
	ShareURL         string     `json:"share_url,omitempty"`
	OwnerID          int64      `json:"user_id"`
}
