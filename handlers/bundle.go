// File: handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Auth guards the instructor-only routes.
	InstructorAuth gin.HandlerFunc

	// Client roster endpoints
	ListClientsHandler       gin.HandlerFunc
	ClientStatsHandler       gin.HandlerFunc
	GetClientIdentityHandler gin.HandlerFunc
	StreamClientsHandler     gin.HandlerFunc
	ExportClientsHandler     gin.HandlerFunc
	ArchiveExportHandler     gin.HandlerFunc

	// External client endpoints
	AddClientHandler     gin.HandlerFunc
	ImportClientsHandler gin.HandlerFunc
	DeleteClientHandler  gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires the client handler into a bundle.
func NewHandlerBundle(auth gin.HandlerFunc, ch *ClientHandler) *HandlerBundle {
	return &HandlerBundle{
		InstructorAuth:           auth,
		ListClientsHandler:       ch.ListClientsHandler,
		ClientStatsHandler:       ch.ClientStatsHandler,
		GetClientIdentityHandler: ch.GetClientIdentityHandler,
		StreamClientsHandler:     ch.StreamClientsHandler,
		ExportClientsHandler:     ch.ExportClientsHandler,
		ArchiveExportHandler:     ch.ArchiveExportHandler,
		AddClientHandler:         ch.AddClientHandler,
		ImportClientsHandler:     ch.ImportClientsHandler,
		DeleteClientHandler:      ch.DeleteClientHandler,
		HealthHandler:            HealthHandler,
	}
}
