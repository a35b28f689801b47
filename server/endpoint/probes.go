package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/legalassist/version"
)

// Liveness answers 200 as long as the process serves HTTP. Collaborator
// reachability belongs to Readiness.
func Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// InfoResponse is the body of GET /info.
type InfoResponse struct {
	Service string       `json:"service"`
	Build   version.Info `json:"build"`
	Started time.Time    `json:"started"`
	Uptime  string       `json:"uptime"`
}

// Info reports the build identity and how long the process has served.
func Info(serviceName string) gin.HandlerFunc {
	started := time.Now().UTC()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, InfoResponse{
			Service: serviceName,
			Build:   version.Get(),
			Started: started,
			Uptime:  time.Since(started).Truncate(time.Second).String(),
		})
	}
}
