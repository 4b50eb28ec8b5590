package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"todoapi/internal/auth"
	dom "todoapi/internal/domain"
	"todoapi/internal/dto"
	"todoapi/internal/service"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// List godoc
// @Summary      List the caller's tasks
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        filter  query  string  false  "all | completed | pending"
// @Success      200  {array}   dto.TodoResponse
// @Failure      401  {object}  map[string]string
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	list, err := h.svc.List(c.Request.Context(), userID, c.Query("filter"))
	if err != nil {
		h.internalError(c, "list todos", err)
		return
	}
	c.JSON(http.StatusOK, todosToResponses(list))
}

// GetByID godoc
// @Summary      Get one task
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		h.todoError(c, "get todo", err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Create godoc
// @Summary      Create a task
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTodoRequest  true  "Task body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ValidationErrors
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, dto.ValidationErrors{Errors: errs})
		return
	}
	t, err := h.svc.Create(c.Request.Context(), userID, req.Title, req.Description)
	if err != nil {
		h.internalError(c, "create todo", err)
		return
	}
	c.JSON(http.StatusCreated, todoToResponse(t))
}

// Update godoc
// @Summary      Replace a task
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Full replacement"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ValidationErrors
// @Failure      404   {object}  map[string]string
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, dto.ValidationErrors{Errors: errs})
		return
	}
	t, err := h.svc.Update(c.Request.Context(), userID, id, req.Title, req.Description, req.IsCompleted)
	if err != nil {
		h.todoError(c, "update todo", err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         todos
// @Security     BearerAuth
// @Param        id   path  int  true  "Task ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		h.todoError(c, "delete todo", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Toggle godoc
// @Summary      Toggle a task's completion
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id}/toggle [patch]
func (h *TodoHandler) Toggle(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.ToggleComplete(c.Request.Context(), userID, id)
	if err != nil {
		h.todoError(c, "toggle todo", err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Dashboard godoc
// @Summary      Task counts for the caller
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DashboardResponse
// @Router       /todos/dashboard [get]
func (h *TodoHandler) Dashboard(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	d, err := h.svc.Dashboard(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "dashboard", err)
		return
	}
	c.JSON(http.StatusOK, dto.DashboardResponse{
		Total:     d.Total,
		Completed: d.Completed,
		Pending:   d.Pending,
	})
}

// todoError maps ErrNotFound to 404 and everything else to a generic 500.
// An absent task and another user's task land here identically.
func (h *TodoHandler) todoError(c *gin.Context, op string, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.internalError(c, op, err)
}

func (h *TodoHandler) internalError(c *gin.Context, op string, err error) {
	log.Printf("%s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		// Non-numeric ids cannot exist, so report them like missing rows.
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}
