package util

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/moontv/moonProxy/model"
)

// 是否按m3u8文本内容处理，上游MIME五花八门，按可配置子串匹配
func IsManifestContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	for _, t := range ProxyConfig.ManifestTypes {
		if strings.Contains(contentType, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// 逐行重写m3u8内容，子资源地址改走代理（修正相对地址问题）
// 除EXT-X-STREAM-INF的下一行外，行数和顺序与输入保持一致
func HandleM3U8Contents(data []byte, rc model.RewriteContext) []byte {
	var lines = strings.Split(string(data), "\n")
	var pendingStreamInf bool

	for idx, line := range lines {
		var trimmed = strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "#") {
			var resolved = ResolveUrl(rc.FinalBaseUrl, trimmed)
			if pendingStreamInf {
				// 变体子列表继续回到m3u8入口递归重写
				pendingStreamInf = false
				lines[idx] = HandleProxyUrl(rc, "m3u8", resolved)
				continue
			}
			if rc.AllowCORS {
				lines[idx] = resolved
			} else {
				lines[idx] = HandleProxyUrl(rc, "segment", resolved)
			}
			continue
		}
		// 期望的变体地址行被注释挤占，原样输出
		pendingStreamInf = false

		switch {
		case strings.HasPrefix(trimmed, "#EXT-X-STREAM-INF:"):
			pendingStreamInf = true
		case strings.HasPrefix(trimmed, "#EXT-X-MAP:"):
			lines[idx] = handleTagURI(line, rc, "segment")
		case strings.HasPrefix(trimmed, "#EXT-X-KEY:"):
			lines[idx] = handleTagURI(line, rc, "key")
		}
	}

	return []byte(strings.Join(lines, "\n"))
}

// 生成回源代理地址，带上源标识，嵌套m3u8继续透传allowCORS
func HandleProxyUrl(rc model.RewriteContext, endpoint, resolved string) string {
	var tmpUrl = fmt.Sprintf("%s/%s?url=%s", strings.TrimRight(rc.ProxyBaseUrl, "/"), endpoint, url.QueryEscape(resolved))
	if rc.SourceKey != "" {
		tmpUrl += "&moontv-source=" + url.QueryEscape(rc.SourceKey)
	}
	if endpoint == "m3u8" && rc.AllowCORS {
		tmpUrl += "&allowCORS=true"
	}
	return tmpUrl
}

// m3u8标签属性，quoted/bare用于回写时还原原始写法
type tagAttr struct {
	key    string
	value  string
	quoted bool
	bare   bool
}

// 按 KEY=VALUE 逗号分隔解析标签属性，带引号的值里允许出现逗号
func parseTagAttrs(s string) []tagAttr {
	var attrs []tagAttr
	for len(s) > 0 {
		var eq = strings.IndexByte(s, '=')
		var comma = strings.IndexByte(s, ',')
		if eq < 0 || (comma >= 0 && comma < eq) {
			// 没有值的残片，原样保留
			if comma < 0 {
				attrs = append(attrs, tagAttr{key: s, bare: true})
				break
			}
			attrs = append(attrs, tagAttr{key: s[:comma], bare: true})
			s = s[comma+1:]
			continue
		}
		var attr = tagAttr{key: s[:eq]}
		s = s[eq+1:]
		if strings.HasPrefix(s, `"`) {
			attr.quoted = true
			var end = strings.IndexByte(s[1:], '"')
			if end < 0 {
				attr.value = s[1:]
				s = ""
			} else {
				attr.value = s[1 : end+1]
				s = strings.TrimPrefix(s[end+2:], ",")
			}
		} else {
			var end = strings.IndexByte(s, ',')
			if end < 0 {
				attr.value = s
				s = ""
			} else {
				attr.value = s[:end]
				s = s[end+1:]
			}
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

func encodeTagAttrs(attrs []tagAttr) string {
	var parts = make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a.bare {
			parts = append(parts, a.key)
		} else if a.quoted {
			parts = append(parts, fmt.Sprintf(`%s="%s"`, a.key, a.value))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", a.key, a.value))
		}
	}
	return strings.Join(parts, ",")
}

// 重写标签里的URI属性，其余属性原样保留；没有URI属性时整行不动
func handleTagURI(line string, rc model.RewriteContext, endpoint string) string {
	var colon = strings.Index(line, ":")
	if colon < 0 {
		return line
	}
	var attrs = parseTagAttrs(line[colon+1:])
	var found = false
	for i, a := range attrs {
		if a.key == "URI" && a.value != "" && !a.bare {
			attrs[i].value = HandleProxyUrl(rc, endpoint, ResolveUrl(rc.FinalBaseUrl, a.value))
			found = true
		}
	}
	if !found {
		return line
	}
	return line[:colon+1] + encodeTagAttrs(attrs)
}
