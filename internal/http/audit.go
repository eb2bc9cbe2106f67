package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	auditRepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/validation"
)

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{reader: reader}
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// ListEvents returns recorded mutation events, most recent first.
// Query: type, book_id, limit (1..500, default 50), offset (>= 0).
func (a *AuditController) ListEvents(c *gin.Context) {
	var errs validation.Errors
	bookID := queryUint(c, "book_id", &errs)
	limit := queryInt(c, "limit", &errs)
	offset := queryInt(c, "offset", &errs)

	q := auditRepo.Query{
		EventType: entities.AuditEventType(c.Query("type")),
		BookID:    bookID,
		Limit:     defaultAuditLimit,
	}
	if limit != nil {
		if *limit < 1 || *limit > maxAuditLimit {
			errs = append(errs, validation.FieldError{Field: "limit", Error: fmt.Sprintf("must be between 1 and %d", maxAuditLimit)})
		}
		q.Limit = *limit
	}
	if offset != nil {
		if *offset < 0 {
			errs = append(errs, validation.FieldError{Field: "offset", Error: "must be at least 0"})
		}
		q.Offset = *offset
	}
	if len(errs) > 0 {
		respondInvalid(c, "invalid query parameters", errs)
		return
	}

	events, total, err := a.reader.Events(c.Request.Context(), q)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   q.Limit,
		Offset:  q.Offset,
		HasMore: int64(q.Offset+len(events)) < total,
	})
}
