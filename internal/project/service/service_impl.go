package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	companydomain "github.com/aibuildx/platform/internal/company/domain"
	"github.com/aibuildx/platform/internal/observability/metrics"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/aibuildx/platform/internal/project/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

type Service struct {
	log        *zap.Logger
	repo       domain.Repository
	store      domain.Store
	companySvc companydomain.Service
	metrics    *metrics.Metrics
	genID      *snowflake.Node
}

func New(log *zap.Logger, repo domain.Repository, store domain.Store, companySvc companydomain.Service, m *metrics.Metrics, genID *snowflake.Node) domain.Service {
	return &Service{
		log:        log.Named("project.service"),
		repo:       repo,
		store:      store,
		companySvc: companySvc,
		metrics:    m,
		genID:      genID,
	}
}

// Upload gates on the company's subscription, stores the drawing file, and
// records the project row. The file is removed again if the row cannot be
// written.
func (s *Service) Upload(ctx context.Context, req domain.UploadRequest) (*domain.Project, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.File == nil {
		return nil, domain.ErrInvalidProject
	}

	drawingType, err := domain.ParseDrawingType(req.FileName)
	if err != nil {
		return nil, err
	}

	perms, err := s.companySvc.Permissions(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := policy.GateCreateProject(perms); err != nil {
		s.metrics.RecordGateDenial(ctx, "create_project", err.Error())
		return nil, err
	}

	id := s.genID.Generate()
	fileName := filepath.Base(strings.TrimSpace(req.FileName))
	relPath := fmt.Sprintf("drawings/%s/%s_%s", req.CompanyID, id, fileName)

	storedPath, err := s.store.Save(ctx, relPath, req.File)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		ID:          id,
		CompanyID:   req.CompanyID,
		CreatedBy:   req.CreatedBy,
		Title:       title,
		Location:    strings.TrimSpace(req.Location),
		FileName:    fileName,
		FilePath:    storedPath,
		DrawingType: drawingType,
		Status:      domain.StatusUploaded,
		SizeBytes:   req.Size,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		if removeErr := s.store.Remove(ctx, storedPath); removeErr != nil {
			s.log.Warn("orphaned upload file", zap.String("path", storedPath), zap.Error(removeErr))
		}
		return nil, err
	}

	s.metrics.RecordDrawingUpload(ctx, string(drawingType))
	s.log.Info("drawing uploaded",
		zap.String("project_id", project.ID.String()),
		zap.String("company_id", project.CompanyID.String()),
		zap.String("drawing_type", string(drawingType)),
	)
	return project, nil
}

func (s *Service) Get(ctx context.Context, companyID, id snowflake.ID) (*domain.Project, error) {
	return s.repo.FindByID(ctx, companyID, id)
}

func (s *Service) List(ctx context.Context, companyID snowflake.ID) ([]domain.Project, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// UpdateStatus advances the processing lifecycle. Only forward transitions
// are allowed: Uploaded → Processing → Completed.
func (s *Service) UpdateStatus(ctx context.Context, companyID, id snowflake.ID, status domain.Status) (*domain.Project, error) {
	project, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if !validTransition(project.Status, status) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.repo.UpdateFields(ctx, companyID, id, map[string]any{"status": status}); err != nil {
		return nil, err
	}
	project.Status = status
	return project, nil
}

func validTransition(from, to domain.Status) bool {
	switch from {
	case domain.StatusUploaded:
		return to == domain.StatusProcessing
	case domain.StatusProcessing:
		return to == domain.StatusCompleted
	default:
		return false
	}
}
