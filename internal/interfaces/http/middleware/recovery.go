package middleware

import (
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/shared/httpresponse"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// Recovery mirrors the teacher's gin.CustomRecovery: broken client
// connections are logged at a lower severity and never rendered to the
// (already gone) client, everything else is a 500 with the stack traced.
func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(gin.DefaultWriter, func(c *gin.Context, recovered interface{}) {
		if brokenPipe := isBrokenConnection(recovered); brokenPipe {
			dump, _ := httputil.DumpRequest(c.Request, false)
			log.Warnw("broken connection", "request", redactAuthHeader(string(dump)), "error", recovered)
			c.Abort()
			return
		}

		log.Errorw("panic recovered", "error", recovered, "stack", string(debug.Stack()))
		httpresponse.Fail(c, http.StatusInternalServerError, "internal server error occurred")
		c.Abort()
	})
}

func isBrokenConnection(recovered interface{}) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}
	var netErr *net.OpError
	if ok := asNetOpError(err, &netErr); ok {
		var sysErr *os.SyscallError
		if asSyscallError(netErr.Err, &sysErr) {
			msg := strings.ToLower(sysErr.Error())
			return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
		}
	}
	return false
}

func asNetOpError(err error, target **net.OpError) bool {
	opErr, ok := err.(*net.OpError)
	if !ok {
		return false
	}
	*target = opErr
	return true
}

func asSyscallError(err error, target **os.SyscallError) bool {
	sysErr, ok := err.(*os.SyscallError)
	if !ok {
		return false
	}
	*target = sysErr
	return true
}

func redactAuthHeader(dump string) string {
	lines := strings.Split(dump, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(line), "authorization:") {
			lines[i] = "Authorization: [REDACTED]"
		}
	}
	return strings.Join(lines, "\n")
}

// ErrorHandler drains any errors gin handlers attached via c.Error so a
// panic-free handler that still reports an error gets a consistent envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 && !c.Writer.Written() {
			httpresponse.FromError(c, c.Errors.Last().Err)
		}
	}
}
