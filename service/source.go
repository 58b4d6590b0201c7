package service

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/gohouse/gorose/v2"
	"github.com/moontv/moonProxy/model"
	"github.com/moontv/moonProxy/util"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
)

var ErrSourceNotFound = errors.New("source not found")

// 直播源解析，按key查上游UA配置，支持多存储后端接入
// 代理每次请求都重新解析，不在这层做缓存
type ISourceResolver interface {
	Resolve(key string) (model.LiveSource, error)
	List() []model.LiveSource
}

// 根据配置选择直播源存储后端，默认读config.toml
func NewSourceResolver() ISourceResolver {
	switch viper.GetString("source.store") {
	case "file":
		return &FileSource{Path: viper.GetString("source.file")}
	case "mysql":
		return &DbSource{}
	}
	return NewConfigSource()
}

func handleDefaultUa(s model.LiveSource) model.LiveSource {
	if s.Ua == "" {
		s.Ua = util.ProxyConfig.DefaultUserAgent
	}
	return s
}

// 从config.toml的[[sources]]读取
type ConfigSource struct {
	sources []model.LiveSource
}

func NewConfigSource() *ConfigSource {
	var x = ConfigSource{}
	if err := viper.UnmarshalKey("sources", &x.sources); err != nil {
		log.Println("[source.config]", err.Error())
	}
	return &x
}

func (x *ConfigSource) Resolve(key string) (model.LiveSource, error) {
	for _, s := range x.sources {
		if s.Key == key {
			return handleDefaultUa(s), nil
		}
	}
	return model.LiveSource{}, ErrSourceNotFound
}

func (x *ConfigSource) List() []model.LiveSource {
	var list = make([]model.LiveSource, 0, len(x.sources))
	for _, s := range x.sources {
		list = append(list, handleDefaultUa(s))
	}
	return list
}

// 读json文件里的LiveConfig数组（兼容主站config.json格式）
// 每次解析都重读文件，改动无需重启
type FileSource struct {
	Path string
}

func (x *FileSource) load() []model.LiveSource {
	if !util.PathExist(x.Path) {
		log.Println("[source.file] not found:", x.Path)
		return nil
	}
	buf, err := os.ReadFile(x.Path)
	if err != nil {
		log.Println("[source.file]", err.Error())
		return nil
	}
	var list []model.LiveSource
	for _, item := range gjson.GetBytes(buf, "LiveConfig").Array() {
		list = append(list, model.LiveSource{
			Key:  item.Get("key").String(),
			Name: item.Get("name").String(),
			Ua:   item.Get("ua").String(),
		})
	}
	return list
}

func (x *FileSource) Resolve(key string) (model.LiveSource, error) {
	for _, s := range x.load() {
		if s.Key == key {
			return handleDefaultUa(s), nil
		}
	}
	return model.LiveSource{}, ErrSourceNotFound
}

func (x *FileSource) List() []model.LiveSource {
	var list []model.LiveSource
	for _, s := range x.load() {
		list = append(list, handleDefaultUa(s))
	}
	return list
}

// 查live_sources表，每次请求现查
type DbSource struct {
}

func dataString(d gorose.Data, k string) string {
	if v, ok := d[k]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func (x *DbSource) Resolve(key string) (model.LiveSource, error) {
	data, err := model.NewEngin().Table("live_sources").Where("source_key", key).First()
	if err != nil {
		log.Println("[source.mysql]", err.Error())
		return model.LiveSource{}, ErrSourceNotFound
	}
	if len(data) == 0 {
		return model.LiveSource{}, ErrSourceNotFound
	}
	return handleDefaultUa(model.LiveSource{
		Key:  dataString(data, "source_key"),
		Name: dataString(data, "name"),
		Ua:   dataString(data, "ua"),
	}), nil
}

func (x *DbSource) List() []model.LiveSource {
	rows, err := model.NewEngin().Table("live_sources").Get()
	if err != nil {
		log.Println("[source.mysql]", err.Error())
		return nil
	}
	var list = make([]model.LiveSource, 0, len(rows))
	for _, data := range rows {
		list = append(list, handleDefaultUa(model.LiveSource{
			Key:  dataString(data, "source_key"),
			Name: dataString(data, "name"),
			Ua:   dataString(data, "ua"),
		}))
	}
	return list
}
