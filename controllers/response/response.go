// Package response turns service results into the JSON error bodies the
// frontend expects: {"error": "..."} plus optional detail fields.
package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/junaidrashid-git/canteen-api/middleware"
	"github.com/junaidrashid-git/canteen-api/services"
)

const msgInternal = "Internal server error"

// StatusFor maps a domain error kind to its HTTP status.
func StatusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindPreconditionFailed, services.KindInvalidState:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConcurrencyConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err and aborts the chain. Anything that is not a domain error
// is logged and hidden behind a generic 500.
func Error(c *gin.Context, err error) {
	var domainErr *services.Error
	if !errors.As(err, &domainErr) {
		middleware.Logger(c).WithError(err).Error("unhandled error")
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	body := gin.H{"error": domainErr.Message, "code": domainErr.Kind.String()}
	if domainErr.Field != "" {
		body["field"] = domainErr.Field
	}
	if domainErr.Kind == services.KindInvalidState {
		body["current_status"] = domainErr.Current
		body["requested_status"] = domainErr.Requested
	}
	c.AbortWithStatusJSON(StatusFor(domainErr.Kind), body)
}

func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}

// IDParam parses a positive numeric path parameter, answering 400 itself
// when it is not one.
func IDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
