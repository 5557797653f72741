package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/TalineFS/Dashboards/internal/config"
	"github.com/TalineFS/Dashboards/internal/services"
	"github.com/TalineFS/Dashboards/pkg/logger"
	"github.com/TalineFS/Dashboards/pkg/response"
)

// promptNoFile mirrors the empty-dashboard guidance of the UI: an absent
// upload is an expected state, answered with a hint rather than an error
// page.
const promptNoFile = "no file supplied: upload a Jira CSV export to begin"

type DatasetHandler struct {
	store    *services.DatasetStore
	maxBytes int64
}

func NewDatasetHandler(store *services.DatasetStore, cfg *config.UploadConfig) *DatasetHandler {
	return &DatasetHandler{
		store:    store,
		maxBytes: int64(cfg.MaxSizeMB) << 20,
	}
}

// Upload parses a Jira CSV export and registers it as a dataset
// POST /api/datasets (multipart field "file")
func (h *DatasetHandler) Upload(c *gin.Context) {
	data, name, err := h.readUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ds, reused, err := h.store.Put(data, name)
	if err != nil {
		if errors.Is(err, services.ErrNoRows) {
			response.BadRequest(c, promptNoFile)
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	logger.Info().
		Str("dataset", ds.ID).
		Str("file", ds.Name).
		Int("rows", len(ds.Rows)).
		Bool("reused", reused).
		Msg("dataset upload")

	sum := services.Summarize(ds)
	sum.Reused = reused
	if reused {
		response.Success(c, sum)
		return
	}
	response.Created(c, sum)
}

// readUpload accepts either a multipart "file" field or a raw request
// body, capped at the configured size.
func (h *DatasetHandler) readUpload(c *gin.Context) (data []byte, name string, err error) {
	if fileHeader, ferr := c.FormFile("file"); ferr == nil {
		if fileHeader.Size > h.maxBytes {
			return nil, "", response.NewBadRequest("file too large")
		}
		f, oerr := fileHeader.Open()
		if oerr != nil {
			return nil, "", response.NewServerError(oerr.Error())
		}
		defer f.Close()
		data, err = readCapped(f, h.maxBytes)
		return data, fileHeader.Filename, err
	}

	data, err = readCapped(c.Request.Body, h.maxBytes)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", response.NewBadRequest(promptNoFile)
	}
	return data, "upload.csv", nil
}

func readCapped(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, response.NewServerError(err.Error())
	}
	if int64(len(data)) > maxBytes {
		return nil, response.NewBadRequest("file too large")
	}
	return data, nil
}

// Get returns the summary of a dataset
// GET /api/datasets/:id
func (h *DatasetHandler) Get(c *gin.Context) {
	ds, err := h.store.Get(c.Param("id"))
	if err != nil {
		response.NotFound(c, "dataset not found")
		return
	}
	response.Success(c, services.Summarize(ds))
}

// Delete discards a dataset
// DELETE /api/datasets/:id
func (h *DatasetHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		response.NotFound(c, "dataset not found")
		return
	}
	response.Success(c, nil)
}
