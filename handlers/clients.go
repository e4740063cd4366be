package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"pocketclass/middleware"
	"pocketclass/models"
	"pocketclass/services/clients"
	"pocketclass/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxImportSize = 5 << 20

// ClientHandler serves the instructor's client roster.
type ClientHandler struct {
	Service clients.ClientService
}

func NewClientHandler(service clients.ClientService) *ClientHandler {
	return &ClientHandler{Service: service}
}

// clientQueryParams are the roster filters accepted on the query string.
type clientQueryParams struct {
	Search      string `form:"search" binding:"max=200"`
	Source      string `form:"source" binding:"omitempty,oneof=all booking external"`
	SalesRange  string `form:"salesRange" binding:"omitempty,oneof=all none low medium high"`
	HasBookings string `form:"hasBookings" binding:"omitempty,oneof=all yes no"`
	DateRange   string `form:"dateRange" binding:"omitempty,oneof=all last30 last90 last365"`
	Sort        string `form:"sort" binding:"omitempty,oneof=newest oldest sales-high sales-low"`
}

func (p clientQueryParams) query() clients.Query {
	return clients.Query{
		Criteria: clients.Criteria{
			Search:      p.Search,
			Source:      clients.SourceFilter(p.Source),
			SalesRange:  clients.SalesRange(p.SalesRange),
			HasBookings: clients.BookingPresence(p.HasBookings),
			DateRange:   clients.DateRange(p.DateRange),
		},
		Sort: clients.SortOrder(p.Sort),
	}
}

func bindClientQuery(c *gin.Context) (clients.Query, bool) {
	var params clientQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid filter", err.Error())
		return clients.Query{}, false
	}
	return params.query(), true
}

func instructorID(c *gin.Context) string {
	return c.GetString(middleware.InstructorIDKey)
}

// respondError maps service errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	var verr *clients.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSONErrorCode(c, http.StatusBadRequest, verr.Code, verr.Message, "")
	case errors.Is(err, clients.ErrClientNotFound):
		utils.JSONError(c, http.StatusNotFound, "Client not found", "")
	case errors.Is(err, clients.ErrNoValidClients):
		utils.JSONError(c, http.StatusUnprocessableEntity, "No valid clients found in file", "Each row needs an email or a first name.")
	case errors.Is(err, clients.ErrInvalidFile):
		utils.JSONError(c, http.StatusBadRequest, "Could not read the file", err.Error())
	case errors.Is(err, clients.ErrArchiveUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "Export archiving is not available", "")
	case errors.Is(err, clients.ErrSourceFetch):
		utils.LoggerFromContext(c).Error("Failed to load clients", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Could not load your clients. Please try again.", "")
	default:
		utils.LoggerFromContext(c).Error("Client request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// ListClientsHandler returns the filtered roster with its stats.
func (h *ClientHandler) ListClientsHandler(c *gin.Context) {
	q, ok := bindClientQuery(c)
	if !ok {
		return
	}
	result, err := h.Service.Query(c.Request.Context(), instructorID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ClientStatsHandler returns only the stats of the filtered roster.
func (h *ClientHandler) ClientStatsHandler(c *gin.Context) {
	q, ok := bindClientQuery(c)
	if !ok {
		return
	}
	result, err := h.Service.Query(c.Request.Context(), instructorID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Stats)
}

// GetClientIdentityHandler returns one identity by email or synthetic key.
func (h *ClientHandler) GetClientIdentityHandler(c *gin.Context) {
	detail, err := h.Service.GetIdentity(c.Request.Context(), instructorID(c), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ExportClientsHandler downloads the filtered roster as CSV.
func (h *ClientHandler) ExportClientsHandler(c *gin.Context) {
	q, ok := bindClientQuery(c)
	if !ok {
		return
	}
	data, err := h.Service.Export(c.Request.Context(), instructorID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+clients.ExportFileName+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ArchiveExportHandler stores the CSV export and returns its URL.
func (h *ClientHandler) ArchiveExportHandler(c *gin.Context) {
	q, ok := bindClientQuery(c)
	if !ok {
		return
	}
	url, err := h.Service.ArchiveExport(c.Request.Context(), instructorID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.LoggerFromContext(c).Info("Client export archived", zap.String("url", url))
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// AddClientHandler records a manually entered client.
func (h *ClientHandler) AddClientHandler(c *gin.Context) {
	var input models.NewClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid client", err.Error())
		return
	}
	client, err := h.Service.AddClient(c.Request.Context(), instructorID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// ImportClientsHandler imports a CSV uploaded as the "file" form field.
func (h *ClientHandler) ImportClientsHandler(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "A CSV file is required", err.Error())
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		utils.JSONError(c, http.StatusBadRequest, "Only .csv files can be imported", header.Filename)
		return
	}
	if header.Size > maxImportSize {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "File is too large", "")
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Could not read the file", err.Error())
		return
	}
	defer file.Close()

	n, err := h.Service.ImportClients(c.Request.Context(), instructorID(c), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": n})
}

// DeleteClientHandler removes an external client.
func (h *ClientHandler) DeleteClientHandler(c *gin.Context) {
	if err := h.Service.DeleteClient(c.Request.Context(), instructorID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StreamClientsHandler pushes the filtered roster as Server-Sent Events: a "clients"
// event per snapshot, preceded by a "notice" event when the snapshot is stale.
func (h *ClientHandler) StreamClientsHandler(c *gin.Context) {
	q, ok := bindClientQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	logger := utils.LoggerFromContext(c)
	id := instructorID(c)

	snapshots := make(chan clients.Snapshot)
	done := make(chan error, 1)
	go func() {
		done <- h.Service.Subscribe(ctx, id, func(s clients.Snapshot) {
			select {
			case snapshots <- s:
			case <-ctx.Done():
			}
		})
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	for {
		select {
		case s := <-snapshots:
			if s.Err != nil {
				c.SSEvent("notice", gin.H{"message": "Could not refresh your clients. Showing the last loaded list."})
			}
			c.SSEvent("clients", clients.Apply(s.Clients, q, h.Service.Now()))
			c.Writer.Flush()
		case err := <-done:
			if err != nil {
				logger.Warn("Client stream ended", zap.Error(err))
				c.SSEvent("notice", gin.H{"message": "Live updates stopped. Reload to reconnect."})
				c.Writer.Flush()
			}
			return
		case <-ctx.Done():
			return
		}
	}
}
