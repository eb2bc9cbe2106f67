package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/validation"
)

// BooksController exposes the catalog repository over HTTP.
type BooksController struct {
	store        catalog.Repository
	validator    BookValidator
	auditor      AuditRecorder
	defaultLimit int
}

// NewBooksController wires a controller. auditor may be nil.
func NewBooksController(store catalog.Repository, validator BookValidator, auditor AuditRecorder, defaultLimit int) *BooksController {
	if defaultLimit <= 0 {
		defaultLimit = config.DefaultPageLimit
	}
	return &BooksController{
		store:        store,
		validator:    validator,
		auditor:      auditor,
		defaultLimit: defaultLimit,
	}
}

func (controller *BooksController) ListBooks(c *gin.Context) {
	filter, page, ok := controller.parseListQuery(c)
	if !ok {
		return
	}

	books, err := controller.store.List(c.Request.Context(), filter, page)
	if err != nil {
		respondCatalogError(c, err, 0, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

func (controller *BooksController) SearchBooks(c *gin.Context) {
	filter, page, ok := controller.parseListQuery(c)
	if !ok {
		return
	}

	books, err := controller.store.Search(c.Request.Context(), filter, page)
	if err != nil {
		respondCatalogError(c, err, 0, "search books")
		return
	}
	c.JSON(http.StatusOK, books)
}

func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.store.Get(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, id, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) CreateBook(c *gin.Context) {
	var input catalog.NewBook
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, "invalid request body", bodyErrors(err))
		return
	}
	if err := controller.validator.NewBook(input); err != nil {
		respondCatalogError(c, err, 0, "validate book")
		return
	}

	book, err := controller.store.Create(c.Request.Context(), input)
	if err != nil {
		respondCatalogError(c, err, 0, "create book")
		return
	}

	if controller.auditor != nil {
		controller.auditor.BookCreated(c.Request.Context(), book, requestMeta(c))
	}
	c.JSON(http.StatusCreated, book)
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var update catalog.BookUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondInvalid(c, "invalid request body", bodyErrors(err))
		return
	}
	if err := controller.validator.BookUpdate(update); err != nil {
		respondCatalogError(c, err, id, "validate book update")
		return
	}

	before, book, err := controller.update(c, id, update)
	if err != nil {
		respondCatalogError(c, err, id, "update book")
		return
	}

	if controller.auditor != nil && before != nil {
		controller.auditor.BookUpdated(c.Request.Context(), before, book, requestMeta(c))
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.store.Delete(c.Request.Context(), id); err != nil {
		respondCatalogError(c, err, id, "delete book")
		return
	}

	if controller.auditor != nil {
		controller.auditor.BookDeleted(c.Request.Context(), id, requestMeta(c))
	}
	c.Status(http.StatusNoContent)
}

// update runs the store update, returning the prior record when it is needed
// for the audit diff.
func (controller *BooksController) update(c *gin.Context, id uint, update catalog.BookUpdate) (*entities.Book, *entities.Book, error) {
	ctx := c.Request.Context()
	if controller.auditor == nil || update.IsEmpty() {
		book, err := controller.store.Update(ctx, id, update)
		return nil, book, err
	}
	if snapshots, ok := controller.store.(SnapshotUpdater); ok {
		return snapshots.UpdateWithPrevious(ctx, id, update)
	}

	// Without a snapshot the diff may miss a concurrent write.
	before, _ := controller.store.Get(ctx, id)
	book, err := controller.store.Update(ctx, id, update)
	return before, book, err
}

func (controller *BooksController) parseListQuery(c *gin.Context) (catalog.Filter, catalog.Page, bool) {
	var errs validation.Errors
	year := queryInt(c, "year", &errs)
	skip := queryInt(c, "skip", &errs)
	limit := queryInt(c, "limit", &errs)
	if len(errs) > 0 {
		respondInvalid(c, "invalid query parameters", errs)
		return catalog.Filter{}, catalog.Page{}, false
	}

	page := catalog.Page{Skip: 0, Limit: controller.defaultLimit}
	if skip != nil {
		page.Skip = *skip
	}
	if limit != nil {
		page.Limit = *limit
	}
	if err := controller.validator.Page(page); err != nil {
		respondCatalogError(c, err, 0, "validate page")
		return catalog.Filter{}, catalog.Page{}, false
	}

	filter := catalog.Filter{
		Title:  c.Query("title"),
		Author: c.Query("author"),
		Year:   year,
	}
	return filter, page, true
}

func requestMeta(c *gin.Context) audit.RequestMeta {
	return audit.RequestMeta{
		RequestID: GetRequestID(c),
		IPAddress: c.ClientIP(),
	}
}
