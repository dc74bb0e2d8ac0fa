// Package handlers implements the HTTP endpoints backing
// internal/api.Server: a single Handler struct closing over *sql.DB
// plus the engine, one method per route.
package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bruno.lopes/dutyroster/backend/internal/database"
	"github.com/bruno.lopes/dutyroster/backend/internal/engine"
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

type Handler struct {
	db     *sql.DB
	engine *engine.Engine
}

func NewHandler(db *sql.DB, eng *engine.Engine) *Handler {
	return &Handler{db: db, engine: eng}
}

// Solve runs a roster solve over the posted Input and persists the
// result, returning it alongside the generated run id.
func (h *Handler) Solve(c *gin.Context) {
	var in roster.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.engine.Solve(c.Request.Context(), in)
	if err != nil {
		var invalidWindow *roster.InvalidWindowError
		var invalidPolicy *roster.InvalidPolicyError
		var duplicateIdentity *roster.DuplicateIdentityError
		switch {
		case errors.As(err, &invalidWindow), errors.As(err, &invalidPolicy), errors.As(err, &duplicateIdentity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "status": result.Status})
			return
		}
	}

	runID, saveErr := database.SaveRun(h.db, in, result)
	if saveErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "solved but failed to persist run: " + saveErr.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": runID,
		"result": result,
	})
}

// GetSolve returns a previously persisted solve result by run id.
func (h *Handler) GetSolve(c *gin.Context) {
	runID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	result, err := database.GetRun(h.db, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
