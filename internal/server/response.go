package server

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"codeberg.org/snonux/ankidict/internal/failure"
)

// ok sends a 200 response. Slices are wrapped in {data: [...]}.
func ok(c *gin.Context, data interface{}) {
	if data != nil && reflect.ValueOf(data).Kind() == reflect.Slice {
		c.JSON(http.StatusOK, gin.H{"data": data})
		return
	}
	c.JSON(http.StatusOK, data)
}

// fail sends the status implied by err's kind with a readable message.
func fail(c *gin.Context, err error) {
	kind := failure.KindOf(err)
	status := kind.HTTPStatus()
	c.AbortWithStatusJSON(status, gin.H{
		"ok":      0,
		"code":    status,
		"kind":    string(kind),
		"message": failure.UserMessage(err),
	})
}

func badRequest(c *gin.Context, message string) {
	fail(c, failure.New(failure.InvalidInput, "request", message))
}
