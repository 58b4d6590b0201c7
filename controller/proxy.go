package controller

import (
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/moontv/moonProxy/model"
	"github.com/moontv/moonProxy/service"
	"github.com/moontv/moonProxy/util"
	"github.com/zc310/headers"
	"io"
	"net/http"
	"strings"
)

// 直播流代理：播放器的后续请求全部由重写后的地址带回这里
type ProxyController struct {
	resolver service.ISourceResolver
}

func NewProxyController(resolver service.ISourceResolver) *ProxyController {
	return &ProxyController{resolver: resolver}
}

func (x *ProxyController) newWrapper(userAgent string) *util.HttpWrapper {
	var w = &util.HttpWrapper{}
	w.SetHeader(headers.UserAgent, userAgent)
	return w
}

// 校验url参数并解析直播源；lenient时查不到源退回默认UA
func (x *ProxyController) handleProxyQuery(ctx *gin.Context, lenient bool) (string, model.LiveSource, bool) {
	var tmpUrl = ctx.Query("url")
	if tmpUrl == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing url"})
		return "", model.LiveSource{}, false
	}
	source, err := x.resolver.Resolve(ctx.Query("moontv-source"))
	if err != nil {
		if !lenient {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
			return "", model.LiveSource{}, false
		}
		source = model.LiveSource{Ua: util.ProxyConfig.DefaultUserAgent}
	}
	return tmpUrl, source, true
}

// 回源代理地址：Host取自请求头，协议按Referer猜，默认http
func (x *ProxyController) handleProxyBaseUrl(ctx *gin.Context) string {
	var scheme = "http"
	if strings.HasPrefix(ctx.GetHeader(headers.Referer), "https://") {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/proxy", scheme, ctx.Request.Host)
}

func (x *ProxyController) handleCORSHeaders(ctx *gin.Context) {
	ctx.Header(headers.AccessControlAllowOrigin, "*")
	ctx.Header(headers.AccessControlAllowMethods, "GET, HEAD, OPTIONS")
	ctx.Header(headers.AccessControlAllowHeaders, "Range, Content-Type")
}

// GET /proxy/precheck 只看响应头做内容分类
func (x *ProxyController) Precheck(ctx *gin.Context) {
	tmpUrl, source, ok := x.handleProxyQuery(ctx, false)
	if !ok {
		return
	}

	resp, err := x.newWrapper(source.Ua).Fetch(ctx.Request.Context(), tmpUrl)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to precheck: " + err.Error()})
		return
	}
	// 分类只需要响应头，马上释放连接
	_ = resp.Body.Close()

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"type":    util.GuessStreamType(resp.Header.Get(headers.ContentType)),
	})
}

// GET /proxy/m3u8 拉取上游m3u8并重写，非列表内容直接透传
func (x *ProxyController) M3u8(ctx *gin.Context) {
	tmpUrl, source, ok := x.handleProxyQuery(ctx, false)
	if !ok {
		return
	}

	var wrapper = x.newWrapper(source.Ua)
	resp, err := wrapper.Fetch(ctx.Request.Context(), tmpUrl)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch m3u8: " + err.Error()})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to fetch m3u8: %s", resp.Status)})
		return
	}

	var contentType = resp.Header.Get(headers.ContentType)
	x.handleCORSHeaders(ctx)

	if !util.IsManifestContentType(contentType) {
		// 有些源请求.m3u8会被CDN边缘重定向到裸分片，按流透传
		if contentType == "" {
			contentType = "application/vnd.apple.mpegurl"
		}
		ctx.Header(headers.ContentType, contentType)
		ctx.Status(http.StatusOK)
		_, _ = io.Copy(ctx.Writer, resp.Body)
		return
	}

	buf, err := wrapper.DecodeBody(resp)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read m3u8: " + err.Error()})
		return
	}

	// 相对地址要按重定向后的最终地址解析
	var rc = model.RewriteContext{
		FinalBaseUrl: util.HandleBaseUrl(resp.Request.URL.String()),
		ProxyBaseUrl: x.handleProxyBaseUrl(ctx),
		SourceKey:    ctx.Query("moontv-source"),
		AllowCORS:    ctx.Query("allowCORS") == "true",
	}

	ctx.Header(headers.CacheControl, "no-cache")
	ctx.Data(http.StatusOK, "application/vnd.apple.mpegurl", util.HandleM3U8Contents(buf, rc))
}

// GET /proxy/segment 媒体分片透传
func (x *ProxyController) Segment(ctx *gin.Context) {
	tmpUrl, source, ok := x.handleProxyQuery(ctx, false)
	if !ok {
		return
	}

	resp, err := x.newWrapper(source.Ua).Fetch(ctx.Request.Context(), tmpUrl)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch segment: " + err.Error()})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to fetch segment: %s", resp.Status)})
		return
	}

	x.handleCORSHeaders(ctx)
	ctx.Header(headers.ContentType, "video/mp2t")
	ctx.Header(headers.AcceptRanges, "bytes")
	if cl := resp.Header.Get(headers.ContentLength); cl != "" {
		ctx.Header(headers.ContentLength, cl)
	}
	ctx.Status(http.StatusOK)
	_, _ = io.Copy(ctx.Writer, resp.Body)
}

// GET /proxy/key 解密密钥透传，密钥可以缓存一小时
func (x *ProxyController) Key(ctx *gin.Context) {
	tmpUrl, source, ok := x.handleProxyQuery(ctx, false)
	if !ok {
		return
	}

	resp, err := x.newWrapper(source.Ua).Fetch(ctx.Request.Context(), tmpUrl)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch key: " + err.Error()})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to fetch key: %s", resp.Status)})
		return
	}

	x.handleCORSHeaders(ctx)
	ctx.Header(headers.ContentType, "application/octet-stream")
	ctx.Header(headers.CacheControl, "public, max-age=3600")
	ctx.Status(http.StatusOK)
	_, _ = io.Copy(ctx.Writer, resp.Body)
}

// GET /proxy/logo 台标图片透传；源查不到也放行，图片不做访问控制
func (x *ProxyController) Logo(ctx *gin.Context) {
	tmpUrl, source, ok := x.handleProxyQuery(ctx, true)
	if !ok {
		return
	}

	resp, err := x.newWrapper(source.Ua).Fetch(ctx.Request.Context(), tmpUrl)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logo: " + err.Error()})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to fetch logo: %s", resp.Status)})
		return
	}

	if contentType := resp.Header.Get(headers.ContentType); contentType != "" {
		ctx.Header(headers.ContentType, contentType)
	}
	ctx.Header(headers.CacheControl, "public, max-age=86400")
	ctx.Status(http.StatusOK)
	_, _ = io.Copy(ctx.Writer, resp.Body)
}

// GET /api/source/list 配置的直播源列表（只读）
func (x *ProxyController) Sources(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"list": x.resolver.List()})
}
