package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vishnucprasad/gotodo-server/internal/auth"
	dom "github.com/vishnucprasad/gotodo-server/internal/domain"
	"github.com/vishnucprasad/gotodo-server/internal/dto"
	"github.com/vishnucprasad/gotodo-server/internal/service"

	"github.com/gin-gonic/gin"
)

// TodoHandler handles todo CRUD for the authenticated user.
type TodoHandler struct {
	svc *service.TodoService
}

// NewTodoHandler returns a new TodoHandler.
func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /todo/create [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date := req.Date.Ptr()
	if date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.CategoryID, req.Task, *date, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create todo"})
		return
	}
	c.JSON(http.StatusCreated, dto.NewTodoResponse(t))
}

// List godoc
// @Summary      List todos in a date range, category included
// @Tags         todo
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  true  "Range start (YYYY-MM-DD or RFC3339)"
// @Param        to    query     string  true  "Range end (YYYY-MM-DD or RFC3339)"
// @Success      200   {object}  dto.ListTodosResponse
// @Failure      400   {object}  map[string]string
// @Router       /todo/all [get]
func (h *TodoHandler) List(c *gin.Context) {
	from, err := dto.ParseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from: use YYYY-MM-DD or RFC3339"})
		return
	}
	to, err := dto.ParseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to: use YYYY-MM-DD or RFC3339"})
		return
	}
	list, err := h.svc.ListByRange(c.Request.Context(), auth.UserIDFromContext(c), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list todos"})
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: dto.NewTodoResponses(list)})
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todo
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todo/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load todo"})
		return
	}
	c.JSON(http.StatusOK, dto.NewTodoResponse(t))
}

// Update godoc
// @Summary      Update a todo
// @Tags         todo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Todo ID"
// @Param        body  body      dto.EditTodoRequest  true  "Partial update"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /todo/{id} [patch]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.EditTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var date *time.Time
	if req.Date != nil {
		date = req.Date.Ptr()
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, req.CategoryID, req.Task, req.Description, date)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update todo"})
		return
	}
	c.JSON(http.StatusOK, dto.NewTodoResponse(t))
}

// ChangeStatus godoc
// @Summary      Change a todo's status
// @Tags         todo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Todo ID"
// @Param        body  body      dto.ChangeStatusRequest  true  "New status"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /todo/status/{id} [patch]
func (h *TodoHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.ChangeStatus(c.Request.Context(), auth.UserIDFromContext(c), id, dom.TodoStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change status"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.NewTodoResponse(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todo
// @Security     BearerAuth
// @Param        id   path  int  true  "Todo ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todo/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete todo"})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
