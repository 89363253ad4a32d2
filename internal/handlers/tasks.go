package handlers

import (
	"net/http"

	"TODO_WEB-APP/internal/dto"
	"TODO_WEB-APP/internal/flash"
	"TODO_WEB-APP/internal/models"
	"TODO_WEB-APP/internal/render"
	"TODO_WEB-APP/internal/store"
	"TODO_WEB-APP/internal/utils"
)

// TasksHandler manages the owner-scoped task endpoints. Every route is
// mounted behind middleware.RequireSession.
type TasksHandler struct {
	tasks store.TaskStore
	view  *View
}

// NewTasksHandler creates a new TasksHandler
func NewTasksHandler(tasks store.TaskStore, view *View) *TasksHandler {
	return &TasksHandler{tasks: tasks, view: view}
}

// owner returns the logged-in identity, redirecting when there is none
func (h *TasksHandler) owner(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.SeeOther(w, r, "/")
	}
	return identity, ok
}

// Dashboard lists the user's tasks, newest first
// @Summary List tasks
// @Tags tasks
// @Produce html
// @Success 200 {string} string "Dashboard"
// @Success 303 {string} string "Redirect to / without a session"
// @Failure 500 {string} string "Store failure"
// @Router /dashboard [get]
func (h *TasksHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.owner(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.FindTasksByOwner(r.Context(), identity.Email)
	if err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.page(w, r, render.DashboardPage, dto.PageData{
		User:  &identity,
		Tasks: tasks,
	})
}

// AddTask creates a task for the user
// @Summary Add a task
// @Tags tasks
// @Accept x-www-form-urlencoded
// @Param task formData string true "Task text"
// @Success 303 {string} string "Redirect to /dashboard"
// @Failure 500 {string} string "Store failure"
// @Router /add [post]
func (h *TasksHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.owner(w, r)
	if !ok {
		return
	}

	form := dto.ParseTaskForm(r)
	if form.Task == "" {
		h.view.notify(w, r, flash.Warning, "Task cannot be empty!", "/dashboard")
		return
	}

	task := &models.Task{
		OwnerEmail: identity.Email,
		Text:       form.Task,
		Done:       false,
	}
	if err := h.tasks.InsertTask(r.Context(), task); err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.notify(w, r, flash.Success, "Task added successfully!", "/dashboard")
}

// MarkDone sets a task's done flag
// @Summary Mark a task done
// @Description A task id that does not exist or belongs to someone else is ignored.
// @Tags tasks
// @Param taskId path string true "Task ID"
// @Success 303 {string} string "Redirect to /dashboard"
// @Router /done/{taskId} [post]
func (h *TasksHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	h.setDone(w, r, true)
}

// MarkPending clears a task's done flag
// @Summary Mark a task pending
// @Description A task id that does not exist or belongs to someone else is ignored.
// @Tags tasks
// @Param taskId path string true "Task ID"
// @Success 303 {string} string "Redirect to /dashboard"
// @Router /pending/{taskId} [post]
func (h *TasksHandler) MarkPending(w http.ResponseWriter, r *http.Request) {
	h.setDone(w, r, false)
}

func (h *TasksHandler) setDone(w http.ResponseWriter, r *http.Request, done bool) {
	identity, ok := h.owner(w, r)
	if !ok {
		return
	}

	if err := h.tasks.UpdateTaskDone(r.Context(), identity.Email, r.PathValue("taskId"), done); err != nil {
		h.view.serverError(w, r, err)
		return
	}

	if done {
		h.view.notify(w, r, flash.Success, "Task marked as done!", "/dashboard")
	} else {
		h.view.notify(w, r, flash.Info, "Task marked as pending!", "/dashboard")
	}
}

// DeleteTask removes a task
// @Summary Delete a task
// @Description A task id that does not exist or belongs to someone else is ignored.
// @Tags tasks
// @Param taskId path string true "Task ID"
// @Success 303 {string} string "Redirect to /dashboard"
// @Router /delete/{taskId} [post]
func (h *TasksHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.owner(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), identity.Email, r.PathValue("taskId")); err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.notify(w, r, flash.Danger, "Task deleted successfully!", "/dashboard")
}
