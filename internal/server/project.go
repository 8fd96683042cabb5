package server

import (
	"net/http"
	"strings"

	projectdomain "github.com/aibuildx/platform/internal/project/domain"
	"github.com/gin-gonic/gin"
)

const maxDrawingSize = 100 << 20

type UpdateProjectStatusRequest struct {
	Status projectdomain.Status `json:"status"`
}

// UploadProject accepts a multipart drawing upload. The drawing type is
// derived from the file extension; the subscription gate runs inside the
// service.
func (s *Server) UploadProject(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok || user.CompanyID == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if fileHeader.Size > maxDrawingSize {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	proj, err := s.projectSvc.Upload(c.Request.Context(), projectdomain.UploadRequest{
		CompanyID: *user.CompanyID,
		CreatedBy: user.ID,
		Title:     strings.TrimSpace(c.PostForm("title")),
		Location:  strings.TrimSpace(c.PostForm("location")),
		FileName:  fileHeader.Filename,
		Size:      fileHeader.Size,
		File:      file,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proj)
}

func (s *Server) ListProjects(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok || user.CompanyID == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	projects, err := s.projectSvc.List(c.Request.Context(), *user.CompanyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (s *Server) GetProject(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok || user.CompanyID == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	proj, err := s.projectSvc.Get(c.Request.Context(), *user.CompanyID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, proj)
}

func (s *Server) UpdateProjectStatus(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok || user.CompanyID == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req UpdateProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	proj, err := s.projectSvc.UpdateStatus(c.Request.Context(), *user.CompanyID, id, req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, proj)
}
