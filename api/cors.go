package api

import (
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"
)

// IsAllowed check if the referer is in allow list
func IsAllowed(c *gin.Context, allowsMap map[string]bool) bool {
	referer := c.Request.Referer()
	if referer == "" {
		return true
	}

	u, err := url.Parse(referer)
	if err != nil {
		return true
	}

	port := fmt.Sprintf(":%s", u.Port())
	if port == ":" || port == ":80" || port == ":443" {
		port = ""
	}

	host := fmt.Sprintf("%s%s", u.Hostname(), port)
	if host == c.Request.Host {
		return true
	}
	return allowsMap[host]
}

// crossDomain rejects referers outside the allow list and sets the CORS headers for the others
func (s *Server) crossDomain(c *gin.Context) {
	referer := c.Request.Referer()
	if referer == "" {
		return
	}

	if !IsAllowed(c, s.allows) {
		c.AbortWithStatus(403)
		return
	}

	u, err := url.Parse(referer)
	if err != nil {
		return
	}
	c.Writer.Header().Set("Access-Control-Allow-Origin", fmt.Sprintf("%s://%s", u.Scheme, u.Host))
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
}
