package controller

import (
	"bytes"
	"github.com/gin-gonic/gin"
	"github.com/grafov/m3u8"
	"github.com/moontv/moonProxy/service"
	"github.com/moontv/moonProxy/util"
	"github.com/zc310/headers"
	"net/http"
)

// 播放列表结构查看，排查源问题用
type PlaylistController struct {
	resolver service.ISourceResolver
}

func NewPlaylistController(resolver service.ISourceResolver) *PlaylistController {
	return &PlaylistController{resolver: resolver}
}

// GET /api/playlist/meta 拉取并解码m3u8，返回列表结构信息
func (x *PlaylistController) Meta(ctx *gin.Context) {
	var tmpUrl = ctx.Query("url")
	if tmpUrl == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing url"})
		return
	}
	source, err := x.resolver.Resolve(ctx.Query("moontv-source"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	var wrapper = &util.HttpWrapper{}
	wrapper.SetHeader(headers.UserAgent, source.Ua)
	buf, err := wrapper.Get(ctx.Request.Context(), tmpUrl)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch playlist: " + err.Error()})
		return
	}

	playList, listType, err := m3u8.DecodeFrom(bytes.NewBuffer(buf), true)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode playlist: " + err.Error()})
		return
	}

	switch listType {
	case m3u8.MASTER:
		masterpl := playList.(*m3u8.MasterPlaylist)
		ctx.JSON(http.StatusOK, gin.H{
			"type":     "master",
			"variants": len(masterpl.Variants),
		})
	case m3u8.MEDIA:
		mediapl := playList.(*m3u8.MediaPlaylist)
		var segments int
		for _, seg := range mediapl.Segments {
			if seg != nil {
				segments++
			}
		}
		ctx.JSON(http.StatusOK, gin.H{
			"type":            "media",
			"segments":        segments,
			"target_duration": mediapl.TargetDuration,
			"encrypted":       mediapl.Key != nil && mediapl.Key.URI != "",
		})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Unknown playlist type"})
	}
}
