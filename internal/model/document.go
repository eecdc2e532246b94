package model

import "time"

// DocumentStatus is the lifecycle state of a document.
type DocumentStatus string

const (
	DocumentDraft    DocumentStatus = "draft"
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// DocumentStatuses lists all statuses in their canonical display order.
var DocumentStatuses = []DocumentStatus{
	DocumentDraft,
	DocumentPending,
	DocumentApproved,
	DocumentRejected,
}

// Valid reports whether s is a known document status.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentDraft, DocumentPending, DocumentApproved, DocumentRejected:
		return true
	}
	return false
}

// Terminal reports whether no further status transition is expected.
func (s DocumentStatus) Terminal() bool {
	return s == DocumentApproved || s == DocumentRejected
}

// Document is a document record tracked through the approval workflow.
// This is a pure domain model with no persistence-specific dependencies;
// JSON field names match the DTO shapes consumed by the frontend.
type Document struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        string         `json:"type"`
	Status      DocumentStatus `json:"status"`

	// Attachment metadata; zero values mean no file is attached.
	AttachmentName string `json:"attachmentName,omitempty"`
	AttachmentPath string `json:"attachmentPath,omitempty"`
	AttachmentSize int64  `json:"attachmentSize,omitempty"`
	AttachmentType string `json:"attachmentType,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
