package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"payment-operations-console/internal/apiclient"
)

// respondError maps a normalized upstream error onto the console's own
// response. Gateway status codes pass through so rejections (cancel on a
// terminal batch, reconcile a non-completed batch) surface as-is; transport
// failures become 502.
func respondError(c *gin.Context, err error) {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.StatusCode
		if code == 0 {
			code = http.StatusBadGateway
		}
		c.JSON(code, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

const dateLayout = "2006-01-02"

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// validDateRange checks from <= to; empty bounds are open.
func validDateRange(from, to string) bool {
	if from == "" || to == "" {
		return true
	}
	f, err1 := parseDate(from)
	t, err2 := parseDate(to)
	if err1 != nil || err2 != nil {
		return false
	}
	return !f.After(t)
}
