package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/user/catalog-api/internal/catalog"
	"github.com/user/catalog-api/internal/store"
	"github.com/user/catalog-api/internal/validation"
	"gorm.io/gorm"
)

// resourceHandler serves list, show, create, update and soft-delete for
// one entity type
type resourceHandler[T any, P catalog.Entity[T]] struct {
	res       catalog.Resource
	repo      *store.Repository[T]
	writer    *catalog.Writer[T, P]
	validator *validation.Validator
	newForm   func() catalog.Form[T]
}

func newResourceHandler[T any, P catalog.Entity[T]](
	db *gorm.DB,
	v *validation.Validator,
	res catalog.Resource,
	newForm func() catalog.Form[T],
) *resourceHandler[T, P] {
	return &resourceHandler[T, P]{
		res:       res,
		repo:      store.NewRepository[T](db),
		writer:    catalog.NewWriter[T, P](db, res),
		validator: v,
		newForm:   newForm,
	}
}

func (h *resourceHandler[T, P]) register(g *gin.RouterGroup) {
	r := g.Group("/" + h.res.Name)
	r.GET("", h.list)
	r.GET("/:id", h.show)
	r.POST("", h.create)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.destroy)
}

func (h *resourceHandler[T, P]) scope(c *gin.Context) store.Scope {
	withTrashed, _ := strconv.ParseBool(c.Query("with_trashed"))
	return store.Scope{WithTrashed: withTrashed, Preloads: h.res.Preloads}
}

func (h *resourceHandler[T, P]) list(c *gin.Context) {
	rows, err := h.repo.List(c.Request.Context(), h.scope(c))
	if err != nil {
		log.Error().Err(err).Str("resource", h.res.Name).Msg("Failed to list rows")
		RecordError("list")
		respondInternal(c)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *resourceHandler[T, P]) show(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	row, err := h.repo.Find(c.Request.Context(), id, h.scope(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondNotFound(c)
			return
		}
		log.Error().Err(err).Str("resource", h.res.Name).Uint("id", id).Msg("Failed to find row")
		RecordError("show")
		respondInternal(c)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *resourceHandler[T, P]) create(c *gin.Context) {
	form, ok := h.bind(c, "create")
	if !ok {
		return
	}

	row, err := h.writer.Create(c.Request.Context(), P(form.Entity()), form.Links())
	if err != nil {
		h.writeFailed(c, "create", err)
		return
	}

	RecordWrite(h.res.Name, "create", writeOK)
	c.JSON(http.StatusCreated, row)
}

func (h *resourceHandler[T, P]) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	form, ok := h.bind(c, "update")
	if !ok {
		return
	}

	row, err := h.writer.Update(c.Request.Context(), id, form.Fields(), form.Links())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RecordWrite(h.res.Name, "update", writeNotFound)
			respondNotFound(c)
			return
		}
		h.writeFailed(c, "update", err)
		return
	}

	RecordWrite(h.res.Name, "update", writeOK)
	c.JSON(http.StatusOK, row)
}

func (h *resourceHandler[T, P]) destroy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RecordWrite(h.res.Name, "delete", writeNotFound)
			respondNotFound(c)
			return
		}
		h.writeFailed(c, "delete", err)
		return
	}

	RecordWrite(h.res.Name, "delete", writeOK)
	c.Status(http.StatusNoContent)
}

// bind decodes and validates the request payload. On failure the response
// has already been written.
func (h *resourceHandler[T, P]) bind(c *gin.Context, operation string) (catalog.Form[T], bool) {
	form := h.newForm()

	// An empty body decodes as an empty payload so required rules report it
	if err := c.ShouldBindJSON(form); err != nil && !errors.Is(err, io.EOF) {
		RecordWrite(h.res.Name, operation, writeInvalid)
		if verr := validation.FromDecodeError(err); verr != nil {
			respondValidation(c, verr)
			return nil, false
		}
		respondError(c, http.StatusBadRequest, "Malformed JSON payload")
		return nil, false
	}

	if err := h.validator.Struct(c.Request.Context(), form); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			RecordWrite(h.res.Name, operation, writeInvalid)
			respondValidation(c, verr)
			return nil, false
		}
		log.Error().Err(err).Str("resource", h.res.Name).Msg("Failed to validate payload")
		RecordError("validation")
		respondInternal(c)
		return nil, false
	}

	return form, true
}

func (h *resourceHandler[T, P]) writeFailed(c *gin.Context, operation string, err error) {
	log.Error().Err(err).
		Str("resource", h.res.Name).
		Str("operation", operation).
		Str("request_id", c.GetString("request_id")).
		Msg("Write failed")
	RecordWrite(h.res.Name, operation, writeFailed)
	respondInternal(c)
}

// parseID reads the :id path parameter; malformed IDs answer 404
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		respondNotFound(c)
		return 0, false
	}
	return uint(id), true
}
