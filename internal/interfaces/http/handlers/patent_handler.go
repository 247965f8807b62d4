package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rephind/rephind/internal/application/compare"
	"github.com/rephind/rephind/internal/application/search"
	"github.com/rephind/rephind/internal/application/summary"
	"github.com/rephind/rephind/internal/domain/patent"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/internal/infrastructure/pdfext"
	"github.com/rephind/rephind/pkg/errors"
)

// PatentHandler serves the patent search, comparison and document
// endpoints.
type PatentHandler struct {
	search     *search.Service
	compare    *compare.Service
	summarizer summary.Summarizer
	store      patent.Store
	maxUpload  int64
	logger     logging.Logger
}

// NewPatentHandler wires the handler over the application services.
func NewPatentHandler(
	searchSvc *search.Service,
	compareSvc *compare.Service,
	summarizer summary.Summarizer,
	store patent.Store,
	maxUpload int64,
	logger logging.Logger,
) *PatentHandler {
	return &PatentHandler{
		search:     searchSvc,
		compare:    compareSvc,
		summarizer: summarizer,
		store:      store,
		maxUpload:  maxUpload,
		logger:     logger.Named("http"),
	}
}

// Search handles POST /api/v1/patents/search.
func (h *PatentHandler) Search(c *gin.Context) {
	var req search.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	results, err := h.search.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"similar_patents": results})
}

// GetClaim handles GET /api/v1/patents/:id/claim.
func (h *PatentHandler) GetClaim(c *gin.Context) {
	id := c.Param("id")
	claimText, err := h.search.GetClaimText(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patent_id": id, "claim_text": claimText})
}

type compareRequest struct {
	ClaimText string `json:"claim_text"`
	PatentID  string `json:"patent_id"`
}

// Compare handles POST /api/v1/patents/compare.
func (h *PatentHandler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.PatentID == "" {
		respondBadRequest(c, "patent_id is required")
		return
	}

	cmp, err := h.compare.Compare(c.Request.Context(), req.ClaimText, req.PatentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// Upload handles POST /api/v1/patents/upload.  It accepts a PDF as
// multipart form field "file" and returns the extracted first claim.
func (h *PatentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "multipart field \"file\" is required")
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		respondBadRequest(c, "file must be a PDF")
		return
	}
	if h.maxUpload > 0 && fileHeader.Size > h.maxUpload {
		respondBadRequest(c, "file exceeds the upload size limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodePDFParseFailed, "failed to open upload"))
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodePDFParseFailed, "failed to read upload"))
		return
	}

	claimText, err := pdfext.ExtractClaimFromPDF(content)
	if err != nil {
		respondError(c, err)
		return
	}
	h.logger.Info("claim extracted from upload",
		logging.String("filename", fileHeader.Filename),
		logging.Int("claim_length", len(claimText)))
	c.JSON(http.StatusOK, gin.H{"claim_text": claimText})
}

type summarizeRequest struct {
	PatentID string `json:"patent_id"`
}

// Summarize handles POST /api/v1/patents/summarize.
func (h *PatentHandler) Summarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.PatentID == "" {
		respondBadRequest(c, "patent_id is required")
		return
	}

	rec, err := h.store.GetByID(c.Request.Context(), req.PatentID)
	if err != nil {
		respondError(c, err)
		return
	}
	text, err := h.summarizer.Summarize(c.Request.Context(), rec)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patent_id": rec.ID, "summary": text})
}

// Stats handles GET /api/v1/corpus/stats.
func (h *PatentHandler) Stats(c *gin.Context) {
	stats, err := h.search.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
