package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/halcyonlabs/punchlist/internal/notes"
	"github.com/halcyonlabs/punchlist/internal/todos"
)

func (h *httpHandler) handleListTodos(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	owned, err := h.todos.List(c.Request.Context(), principal)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, owned)
}

func (h *httpHandler) handleCreateTodo(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var request todos.CreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	created, err := h.todos.Create(c.Request.Context(), principal, request)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *httpHandler) handleGetTodo(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	record, err := h.todos.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *httpHandler) handleUpdateTodo(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var request todos.UpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	updated, err := h.todos.Update(c.Request.Context(), principal, c.Param("id"), request)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *httpHandler) handlePatchTodo(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var request todos.PatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	patched, err := h.todos.Patch(c.Request.Context(), principal, c.Param("id"), request)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, patched)
}

func (h *httpHandler) handleDeleteTodo(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.todos.Delete(c.Request.Context(), principal, c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListNotes(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	owned, err := h.notes.List(c.Request.Context(), principal)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, owned)
}

func (h *httpHandler) handleCreateNote(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var request notes.CreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	created, err := h.notes.Create(c.Request.Context(), principal, request)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *httpHandler) handleGetNote(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	record, err := h.notes.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *httpHandler) handleUpdateNote(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var request notes.UpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	updated, err := h.notes.Update(c.Request.Context(), principal, c.Param("id"), request)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// handlePatchNote shares the merge-on-provided update path: notes have no
// narrower patch allow-list.
func (h *httpHandler) handlePatchNote(c *gin.Context) {
	h.handleUpdateNote(c)
}

func (h *httpHandler) handleDeleteNote(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.notes.Delete(c.Request.Context(), principal, c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
