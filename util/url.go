package util

import (
	"fmt"
	"net/url"
	"strings"
)

// 根据URL返回带端口的域名
func HandleHost(tmpUrl string) (host string) {
	tmpUrl2, err := url.Parse(tmpUrl)
	if err != nil {
		return
	}
	if tmpUrl2.Host == "" {
		return
	}
	return fmt.Sprintf("%s://%s", tmpUrl2.Scheme, tmpUrl2.Host)
}

// 是否是http协议的路径
func IsHttpUrl(tmpUrl string) bool {
	return strings.HasPrefix(tmpUrl, "http://") || strings.HasPrefix(tmpUrl, "https://")
}

func HandleScheme(tmpUrl string) string {
	if idx := strings.Index(tmpUrl, "://"); idx > 0 {
		return tmpUrl[:idx]
	}
	return "http"
}

// 截断到最后一个 / 得到目录地址，m3u8里的相对路径以此拼接
func HandleBaseUrl(tmpUrl string) string {
	var idx = strings.LastIndex(tmpUrl, "/")
	if idx <= strings.Index(tmpUrl, "://")+2 {
		return strings.TrimRight(tmpUrl, "/") + "/"
	}
	return tmpUrl[:idx+1]
}

// 合并URL，ref可能是绝对地址、协议相对、根相对或路径相对
// 地址解析失败时退化成字符串拼接，单行异常不能中断整个列表重写
func ResolveUrl(baseUrl, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return baseUrl
	}
	if IsHttpUrl(ref) {
		return ref
	}
	if strings.HasPrefix(ref, "//") {
		return HandleScheme(baseUrl) + ":" + ref
	}
	if strings.HasPrefix(ref, "/") {
		parsedUrl, err := url.Parse(baseUrl)
		if err != nil || parsedUrl.Host == "" {
			return strings.TrimRight(baseUrl, "/") + ref
		}
		return fmt.Sprintf("%s://%s%s", parsedUrl.Scheme, parsedUrl.Host, ref)
	}
	return HandleBaseUrl(baseUrl) + ref
}
