package handler

import (
	"github.com/gin-gonic/gin"

	"go-workout-tracker/internal/domain"
	"go-workout-tracker/internal/service"
	"go-workout-tracker/internal/transport/http/middleware"
)

type ExerciseHandler struct {
	exercises service.ExerciseService
}

func NewExerciseHandler(exercises service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exercises: exercises}
}

// List GET /exercises?type=&muscle_group=&difficulty=&q=&page=&size=
// 过滤条件全部可选，缺省匹配所有
func (h *ExerciseHandler) List(c *gin.Context) {
	f := domain.ExerciseFilter{
		Type:        domain.ExerciseType(c.Query("type")),
		MuscleGroup: c.Query("muscle_group"),
		Difficulty:  domain.Difficulty(c.Query("difficulty")),
		NameLike:    c.Query("q"),
	}
	if f.Type != "" && !f.Type.Valid() {
		BadRequest(c, "invalid type filter")
		return
	}
	if f.Difficulty != "" && !f.Difficulty.Valid() {
		BadRequest(c, "invalid difficulty filter")
		return
	}
	page, size := Page(c)
	items, total, err := h.exercises.List(c.Request.Context(), f, page, size)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, items, total, page, size)
}

// Get GET /exercises/:id
func (h *ExerciseHandler) Get(c *gin.Context) {
	e, err := h.exercises.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, e)
}

// Create POST /exercises（ADMIN / MODERATOR）
func (h *ExerciseHandler) Create(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
		return
	}
	var in service.ExerciseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, err.Error())
		return
	}
	e, err := h.exercises.Create(c.Request.Context(), p, in)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, e)
}

// Update PUT /exercises/:id
func (h *ExerciseHandler) Update(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
		return
	}
	var in service.ExerciseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, err.Error())
		return
	}
	e, err := h.exercises.Update(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, e)
}

// Delete DELETE /exercises/:id（软删，幂等）
func (h *ExerciseHandler) Delete(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
		return
	}
	if err := h.exercises.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"id": c.Param("id")})
}

// Restore POST /exercises/:id/restore
func (h *ExerciseHandler) Restore(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
		return
	}
	if err := h.exercises.Restore(c.Request.Context(), p, c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"id": c.Param("id")})
}
