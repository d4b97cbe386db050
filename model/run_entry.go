package model

import "gorm.io/plugin/soft_delete"

// RunEntry is one program submitted to the playground.
type RunEntry struct {
	ID int64 `json:"id" gorm:"primaryKey"`
	// blake3 of the program text
	SourceHash string `json:"source_hash" gorm:"index:idx_source_hash"`
	Source     string `json:"-"`
	Stdin      string `json:"-"`
	Legacy     bool   `json:"legacy"`
	Stdout     string `json:"stdout"`
	ExitCode   int    `json:"exit_code"`
	Error      string `json:"error,omitempty"`
	// unix milliseconds
	StartMillis int64 `json:"start_ms"`
	EndMillis   int64 `json:"end_ms"`
	CreatedAt   int64 `json:"created_at" gorm:"index:idx_created_at"`
	/* 0 false 1 true */
	Deleted soft_delete.DeletedAt `json:"-" gorm:"softDelete:flag;default:0"`
}

func (RunEntry) TableName() string {
	return "run_entry"
}
