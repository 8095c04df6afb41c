// Package model defines shared data structures.
package model

import "time"

// Config defines wizard and simulation settings.
type Config struct {
	PairingBaseURL string
	ScanDelay      time.Duration
	ConfirmDelay   time.Duration
	TickInterval   time.Duration
	ChunkMinMB     float64
	ChunkMaxMB     float64
	SpeedMinMBs    float64
	SpeedMaxMBs    float64
}

// Status of a finished transfer.
type Status string

// Known transfer statuses.
const (
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

// TransferRecord is one row of transfer history.
type TransferRecord struct {
	ID                int64
	Ref               string
	Date              time.Time
	SourceDevice      string
	DestinationDevice string
	SizeMB            float64
	Categories        int
	Status            Status
}

// HistoryFilter narrows history listings.
type HistoryFilter struct {
	Status Status
	Limit  int
}

// HistorySummary aggregates transfer history.
type HistorySummary struct {
	Transfers       int
	Completed       int
	Failed          int
	CompletedSizeMB float64
	SuccessRate     float64
	LargestSizeMB   float64
}
