package domain

import (
	"context"
	"io"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, companyID, id snowflake.ID) (*Project, error)
	ListByCompany(ctx context.Context, companyID snowflake.ID) ([]Project, error)
	UpdateFields(ctx context.Context, companyID, id snowflake.ID, fields map[string]any) error
}

// Store persists drawing files outside the database and returns the stored
// path.
type Store interface {
	Save(ctx context.Context, relPath string, r io.Reader) (string, error)
	Remove(ctx context.Context, relPath string) error
}
