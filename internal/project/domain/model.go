// Package domain contains core types for drawing projects.
package domain

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DrawingType is derived from the uploaded file's extension.
type DrawingType string

const (
	DrawingPDF DrawingType = "PDF"
	DrawingDWG DrawingType = "DWG"
)

// Status tracks a drawing through its processing lifecycle.
type Status string

const (
	StatusUploaded   Status = "Uploaded"
	StatusProcessing Status = "Processing"
	StatusCompleted  Status = "Completed"
)

// ParseDrawingType maps a file name to its drawing type. Only PDF and DWG
// drawings are accepted.
func ParseDrawingType(fileName string) (DrawingType, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(fileName))) {
	case ".pdf":
		return DrawingPDF, nil
	case ".dwg":
		return DrawingDWG, nil
	default:
		return "", ErrUnsupportedFileType
	}
}

// Project is an uploaded structural drawing owned by a company.
type Project struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	CompanyID   snowflake.ID `gorm:"column:company_id;not null;index"`
	CreatedBy   snowflake.ID `gorm:"column:created_by;not null"`
	Title       string       `gorm:"column:title;type:text;not null"`
	Location    string       `gorm:"column:location;type:text"`
	FileName    string       `gorm:"column:file_name;type:text;not null"`
	FilePath    string       `gorm:"column:file_path;type:text;not null"`
	DrawingType DrawingType  `gorm:"column:drawing_type;type:text;not null"`
	Status      Status       `gorm:"column:status;type:text;not null;default:Uploaded"`
	SizeBytes   int64        `gorm:"column:size_bytes;not null;default:0"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }
