package cmd

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/moontv/moonProxy/controller"
	"github.com/moontv/moonProxy/service"
	"github.com/moontv/moonProxy/util"
	"github.com/spf13/cobra"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var httpServerCmd = &cobra.Command{
	Use:   "serve",
	Short: "start http server",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println(fmt.Sprintf("[AppPath] %s", util.AppPath()))
		util.InitLog()

		var server = &http.Server{
			Addr:    util.AppConfig.Addr,
			Handler: NewRouter(),
		}
		go func() {
			log.Println("[serve]", util.AppConfig.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalln(err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
		log.Println("[serve] stopped")
	},
}

func init() {
	rootCmd.AddCommand(httpServerCmd)
}

// 新建路由表
func NewRouter() *gin.Engine {
	r := gin.Default()

	// 使用session中间件
	r.Use(sessions.Sessions("moonProxy", cookie.NewStore([]byte(util.AppConfig.Secret))))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Range", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length", "Content-Range"},
	}))

	var resolver = service.NewSourceResolver()
	var proxy = controller.NewProxyController(resolver)
	var playlist = controller.NewPlaylistController(resolver)

	r.GET("/", new(controller.HomeController).Index) // 默认首页

	// 直播流代理
	r.GET("/proxy/precheck", proxy.Precheck)
	r.GET("/proxy/m3u8", proxy.M3u8)
	r.GET("/proxy/segment", proxy.Segment)
	r.GET("/proxy/key", proxy.Key)
	r.GET("/proxy/logo", proxy.Logo)

	// 统一api
	r.GET("/api/source/list", proxy.Sources)
	r.GET("/api/playlist/meta", playlist.Meta)

	return r
}
