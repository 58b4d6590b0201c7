package model

// 直播源配置，key全局唯一，ua为空时走默认UA
type LiveSource struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Ua   string `json:"ua"`
}

// 单次m3u8重写用到的上下文，跟随请求生成，不落盘
type RewriteContext struct {
	FinalBaseUrl string // 重定向后最终地址的目录部分，相对路径以此为基准
	ProxyBaseUrl string // 形如 https://host/proxy
	SourceKey    string
	AllowCORS    bool // true时媒体分片直接给上游地址，由浏览器走CORS拉取
}
