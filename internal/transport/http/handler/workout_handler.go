package handler

import (
	"github.com/gin-gonic/gin"

	"go-workout-tracker/internal/domain"
	"go-workout-tracker/internal/service"
	"go-workout-tracker/internal/transport/http/middleware"
)

type WorkoutHandler struct {
	workouts service.WorkoutService
}

func NewWorkoutHandler(workouts service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts}
}

func principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
	}
	return p, ok
}

// Create POST /workout-sessions
func (h *WorkoutHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in service.SessionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, err.Error())
		return
	}
	w, err := h.workouts.CreateSession(c.Request.Context(), p, in)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, w)
}

// List GET /workout-sessions（本人会话）
func (h *WorkoutHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	page, size := Page(c)
	withDeleted := c.Query("with_deleted") == "true"
	ws, total, err := h.workouts.ListSessions(c.Request.Context(), p, page, size, withDeleted)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, ws, total, page, size)
}

// Get GET /workout-sessions/:id
func (h *WorkoutHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	w, err := h.workouts.GetSession(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, w)
}

// Update PUT /workout-sessions/:id
func (h *WorkoutHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in service.SessionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, err.Error())
		return
	}
	w, err := h.workouts.UpdateSession(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, w)
}

// Action POST /workout-sessions/:id/actions {"action":"start|pause|resume|complete"}
func (h *WorkoutHandler) Action(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, err.Error())
		return
	}
	w, err := h.workouts.PerformAction(c.Request.Context(), p, c.Param("id"), in.Action)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, w)
}

// Delete DELETE /workout-sessions/:id
func (h *WorkoutHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.workouts.DeleteSession(c.Request.Context(), p, c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"id": c.Param("id")})
}

// Restore POST /workout-sessions/:id/restore
func (h *WorkoutHandler) Restore(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.workouts.RestoreSession(c.Request.Context(), p, c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"id": c.Param("id")})
}

// AddExercise POST /workout-sessions/:id/exercises
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in service.AddExerciseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, err.Error())
		return
	}
	we, err := h.workouts.AddExercise(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, we)
}

// RemoveExercise DELETE /workout-sessions/:id/exercises/:weID
func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.workouts.RemoveExercise(c.Request.Context(), p, c.Param("id"), c.Param("weID")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"id": c.Param("weID")})
}

// AddSet POST /workout-sessions/:id/exercises/:weID/sets
func (h *WorkoutHandler) AddSet(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in service.AddSetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, err.Error())
		return
	}
	set, err := h.workouts.AddSet(c.Request.Context(), p, c.Param("id"), c.Param("weID"), in)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, set)
}

// RemoveSet DELETE /workout-sessions/:id/exercises/:weID/sets/:setID
func (h *WorkoutHandler) RemoveSet(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.workouts.RemoveSet(c.Request.Context(), p, c.Param("id"), c.Param("weID"), c.Param("setID")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"id": c.Param("setID")})
}
