package util

import (
	"encoding/json"
	"strings"
)

func ToJSON(data interface{}, pretty bool) string {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(data, "", "\t")
	} else {
		b, err = json.Marshal(data)
	}
	if err != nil {
		return ""
	}
	return string(b)
}

// 根据Content-Type猜测流类型，匹配不到默认按m3u8处理
func GuessStreamType(contentType string) string {
	contentType = strings.ToLower(contentType)
	if strings.Contains(contentType, "video/mp4") {
		return "mp4"
	}
	if strings.Contains(contentType, "video/x-flv") {
		return "flv"
	}
	return "m3u8"
}
