package util

import (
	"github.com/spf13/viper"
	"log"
)

type appConfig struct {
	Addr   string
	Secret string
}

type proxyConfig struct {
	Timeout          int // 上游请求超时（秒）
	DefaultUserAgent string
	ManifestTypes    []string // Content-Type包含任一子串则按m3u8文本处理
}

var (
	AppConfig   = appConfig{Addr: ":8899", Secret: "moonProxy"}
	ProxyConfig = proxyConfig{
		Timeout:          15,
		DefaultUserAgent: "AptvPlayer/1.4.10",
		ManifestTypes:    []string{"mpegurl", "octet-stream"},
	}
)

func LoadConfig() {
	viper.SetConfigFile("config.toml")
	if err := viper.ReadInConfig(); err != nil {
		// 没有配置文件就用默认值跑
		log.Println("[config]", err.Error())
		return
	}

	if viper.IsSet("app.addr") {
		AppConfig.Addr = viper.GetString("app.addr")
	}
	if viper.IsSet("app.secret") {
		AppConfig.Secret = viper.GetString("app.secret")
	}
	if viper.IsSet("proxy.timeout") {
		ProxyConfig.Timeout = viper.GetInt("proxy.timeout")
	}
	if viper.IsSet("proxy.default_ua") {
		ProxyConfig.DefaultUserAgent = viper.GetString("proxy.default_ua")
	}
	if viper.IsSet("proxy.manifest_types") {
		ProxyConfig.ManifestTypes = viper.GetStringSlice("proxy.manifest_types")
	}
}
