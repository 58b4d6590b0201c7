package util

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/grafov/m3u8"
	"github.com/moontv/moonProxy/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRewriteContext(allowCORS bool) model.RewriteContext {
	return model.RewriteContext{
		FinalBaseUrl: "https://cdn.example.com/live/channel/",
		ProxyBaseUrl: "http://proxy.local/proxy",
		SourceKey:    "cctv",
		AllowCORS:    allowCORS,
	}
}

func TestHandleM3U8ContentsSegments(t *testing.T) {
	var input = strings.Join([]string{
		"#EXTM3U",
		"#EXT-X-TARGETDURATION:6",
		"#EXTINF:5.920,",
		"seg0.ts",
		"#EXTINF:5.920,",
		"/abs/seg1.ts",
		"#EXT-X-ENDLIST",
	}, "\n")

	var out = string(HandleM3U8Contents([]byte(input), newRewriteContext(false)))
	var lines = strings.Split(out, "\n")

	assert.Len(t, lines, 7)
	assert.Equal(t, "#EXTM3U", lines[0])
	assert.Equal(t, "#EXTINF:5.920,", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "http://proxy.local/proxy/segment?url="))
	assert.Contains(t, lines[3], url.QueryEscape("https://cdn.example.com/live/channel/seg0.ts"))
	assert.Contains(t, lines[3], "moontv-source=cctv")
	assert.Contains(t, lines[5], url.QueryEscape("https://cdn.example.com/abs/seg1.ts"))
	assert.Equal(t, "#EXT-X-ENDLIST", lines[6])
}

func TestHandleM3U8ContentsAllowCORS(t *testing.T) {
	var input = "#EXTM3U\n#EXTINF:5.920,\nseg0.ts"
	var out = string(HandleM3U8Contents([]byte(input), newRewriteContext(true)))
	var lines = strings.Split(out, "\n")

	// allowCORS时分片用上游地址，由播放器直接跨域拉取
	assert.Equal(t, "https://cdn.example.com/live/channel/seg0.ts", lines[2])
}

func TestHandleM3U8ContentsKeyTag(t *testing.T) {
	var input = `#EXT-X-KEY:METHOD=AES-128,URI="enc.key",IV=0x9c7db8778570d29c3d9a8a7e4dce4ffa`
	var out = string(HandleM3U8Contents([]byte(input), newRewriteContext(false)))

	assert.Contains(t, out, "METHOD=AES-128")
	assert.Contains(t, out, "IV=0x9c7db8778570d29c3d9a8a7e4dce4ffa")
	assert.Contains(t, out, `URI="http://proxy.local/proxy/key?url=`)
	assert.Contains(t, out, url.QueryEscape("https://cdn.example.com/live/channel/enc.key"))
}

func TestHandleM3U8ContentsMapTag(t *testing.T) {
	var input = `#EXT-X-MAP:URI="init.mp4",BYTERANGE="720@0"`
	var out = string(HandleM3U8Contents([]byte(input), newRewriteContext(false)))

	assert.Contains(t, out, `URI="http://proxy.local/proxy/segment?url=`)
	assert.Contains(t, out, `BYTERANGE="720@0"`)
}

func TestHandleM3U8ContentsStreamInf(t *testing.T) {
	var input = strings.Join([]string{
		"#EXTM3U",
		"#EXT-X-STREAM-INF:BANDWIDTH=1280000,RESOLUTION=854x480",
		"480p/index.m3u8",
	}, "\n")

	var out = string(HandleM3U8Contents([]byte(input), newRewriteContext(false)))
	var lines = strings.Split(out, "\n")

	assert.Equal(t, "#EXT-X-STREAM-INF:BANDWIDTH=1280000,RESOLUTION=854x480", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "http://proxy.local/proxy/m3u8?url="))
	assert.Contains(t, lines[2], url.QueryEscape("https://cdn.example.com/live/channel/480p/index.m3u8"))
}

func TestHandleM3U8ContentsStreamInfAllowCORS(t *testing.T) {
	var input = "#EXT-X-STREAM-INF:BANDWIDTH=1280000\n480p/index.m3u8"
	var out = string(HandleM3U8Contents([]byte(input), newRewriteContext(true)))
	var lines = strings.Split(out, "\n")

	// 嵌套列表始终回代理，继续透传allowCORS
	assert.True(t, strings.HasPrefix(lines[1], "http://proxy.local/proxy/m3u8?url="))
	assert.Contains(t, lines[1], "allowCORS=true")
}

func TestHandleM3U8ContentsPassthrough(t *testing.T) {
	var cases = []string{
		"",
		"#EXTM3U",
		"#EXT-X-VERSION:3",
		"# some comment",
		"#EXT-X-KEY:METHOD=NONE",
		"#EXT-X-MAP:BYTERANGE=\"720@0\"",
		"#EXT-X-UNKNOWN-TAG:FOO=bar",
	}
	for _, line := range cases {
		assert.Equal(t, line, string(HandleM3U8Contents([]byte(line), newRewriteContext(false))), line)
	}
}

func TestHandleM3U8ContentsStreamInfFollowedByComment(t *testing.T) {
	var input = "#EXT-X-STREAM-INF:BANDWIDTH=1280000\n#EXT-X-VERSION:3"
	var out = string(HandleM3U8Contents([]byte(input), newRewriteContext(false)))

	// 变体行缺失时不猜，原样输出
	assert.Equal(t, input, out)
}

func TestHandleM3U8ContentsDecodable(t *testing.T) {
	var input = strings.Join([]string{
		"#EXTM3U",
		"#EXT-X-VERSION:3",
		"#EXT-X-TARGETDURATION:6",
		"#EXT-X-MEDIA-SEQUENCE:0",
		"#EXTINF:5.920,",
		"seg0.ts",
		"#EXTINF:5.920,",
		"seg1.ts",
		"#EXT-X-ENDLIST",
		"",
	}, "\n")

	var out = HandleM3U8Contents([]byte(input), newRewriteContext(false))

	// 重写后的内容必须仍是合法m3u8
	playList, listType, err := m3u8.DecodeFrom(bytes.NewBuffer(out), true)
	require.NoError(t, err)
	require.Equal(t, m3u8.MEDIA, listType)

	mediapl := playList.(*m3u8.MediaPlaylist)
	var segments int
	for _, seg := range mediapl.Segments {
		if seg != nil {
			segments++
			assert.True(t, strings.HasPrefix(seg.URI, "http://proxy.local/proxy/segment?url="))
		}
	}
	assert.Equal(t, 2, segments)
}

func TestParseTagAttrs(t *testing.T) {
	var attrs = parseTagAttrs(`METHOD=AES-128,URI="enc.key?a=1,b=2",IV=0xabc`)

	assert.Len(t, attrs, 3)
	assert.Equal(t, "AES-128", attrs[0].value)
	// 引号里的逗号不能当分隔符
	assert.Equal(t, "enc.key?a=1,b=2", attrs[1].value)
	assert.True(t, attrs[1].quoted)
	assert.Equal(t, "0xabc", attrs[2].value)

	assert.Equal(t, `METHOD=AES-128,URI="enc.key?a=1,b=2",IV=0xabc`, encodeTagAttrs(attrs))
}

func TestIsManifestContentType(t *testing.T) {
	assert.True(t, IsManifestContentType("application/vnd.apple.mpegurl"))
	assert.True(t, IsManifestContentType("application/x-mpegURL"))
	assert.True(t, IsManifestContentType("audio/x-mpegurl; charset=utf-8"))
	assert.True(t, IsManifestContentType("application/octet-stream"))
	assert.False(t, IsManifestContentType("video/mp2t"))
	assert.False(t, IsManifestContentType(""))
}
