package model

import "time"

// Status is the review state of a queue item.
type Status string

// Queue item statuses. NeedsManualExtraction is a pending variant signaling
// that the extraction itself, not just the review decision, needs a human.
const (
	StatusPending               Status = "pending"
	StatusAutoApproved          Status = "auto_approved"
	StatusApproved              Status = "approved"
	StatusRejected              Status = "rejected"
	StatusNeedsManualExtraction Status = "needs_manual_extraction"
	StatusDeleted               Status = "deleted"
)

// Source identifies how a document entered the pipeline.
type Source string

// Ingestion sources.
const (
	SourceUpload Source = "upload"
	SourceText   Source = "text"
	SourceEmail  Source = "email"
	SourceBatch  Source = "batch"
)

// StatusTransition records one committed status change on a queue item.
type StatusTransition struct {
	OccurredAt time.Time
	From       Status
	To         Status
	Actor      string
	Reason     string
}

// QueueItem is the central mutable entity of the review queue. It is created
// by the pipeline after emission calculation and mutated only through the
// queue's transition operations; every mutation appends to StatusHistory.
type QueueItem struct {
	UploadedAt          time.Time
	Extraction          ExtractionResult
	ID                  string
	DocumentType        DocumentType
	Source              Source
	Filename            string
	UploadedBy          string
	CompanyID           string
	Status              Status
	StatusHistory       []StatusTransition
	Emission            EmissionRecord
	ConfidenceThreshold float64
}

// Confidence returns the effective extraction confidence for the item.
func (q QueueItem) Confidence() float64 {
	return q.Extraction.Confidence
}
