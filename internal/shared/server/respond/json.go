package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload without HTML escaping, so phase names such as
// "Planning & Preparation" and model output reach clients verbatim.
func JSON(c *gin.Context, status int, payload any) {
	c.PureJSON(status, payload)
}

// OK writes a 200 response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}
