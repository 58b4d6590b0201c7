package controller

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"time"
)

type HomeController struct {
}

// 默认路由，返回服务信息
func (p HomeController) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name": "moonProxy",
		"time": time.Now().String(),
		"endpoints": []string{
			"/proxy/precheck",
			"/proxy/m3u8",
			"/proxy/segment",
			"/proxy/key",
			"/proxy/logo",
		},
	})
}
