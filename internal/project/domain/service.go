package domain

import (
	"context"
	"io"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Upload(ctx context.Context, req UploadRequest) (*Project, error)
	Get(ctx context.Context, companyID, id snowflake.ID) (*Project, error)
	List(ctx context.Context, companyID snowflake.ID) ([]Project, error)
	UpdateStatus(ctx context.Context, companyID, id snowflake.ID, status Status) (*Project, error)
}

type UploadRequest struct {
	CompanyID snowflake.ID
	CreatedBy snowflake.ID
	Title     string
	Location  string
	FileName  string
	Size      int64
	File      io.Reader
}
