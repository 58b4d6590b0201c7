package util

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"github.com/andybalholm/brotli"
	"github.com/zc310/headers"
	"io"
	"net/http"
	"time"
)

type HttpWrapper struct {
	headers map[string]string
	client  *http.Client
}

//	x.httpWrapper.SetHeader(headers.UserAgent, source.Ua)
//	x.httpWrapper.SetHeader(headers.Referer, tmpHost)

func (x *HttpWrapper) SetHeader(k, v string) {
	if x.headers == nil {
		x.headers = make(map[string]string)
	}
	x.headers[k] = v
}

func (x *HttpWrapper) SetHeaders(h map[string]string) {
	x.headers = h
}

func (x *HttpWrapper) GetHeaders() map[string]string {
	return x.headers
}

func (x *HttpWrapper) addHeaderParams(req *http.Request) {
	for k, v := range x.headers {
		req.Header.Set(k, v)
	}
}

func (x *HttpWrapper) httpClient() *http.Client {
	if x.client == nil {
		x.client = &http.Client{
			Timeout: time.Duration(ProxyConfig.Timeout) * time.Second,
		}
	}
	return x.client
}

// 请求目标地址，自动跟随重定向，调用方负责关闭resp.Body
// resp.Request.URL 即重定向后的最终地址
func (x *HttpWrapper) Fetch(ctx context.Context, requestUrl string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, err
	}
	x.addHeaderParams(req)

	return x.httpClient().Do(req)
}

// 解码返回的编码数据，需要根据response头的Content-Encoding确定
func (x *HttpWrapper) DecodeBody(resp *http.Response) ([]byte, error) {
	switch resp.Header.Get(headers.ContentEncoding) {
	case "br":
		return io.ReadAll(brotli.NewReader(resp.Body))
	case "gzip":
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		return io.ReadAll(gr)
	case "deflate":
		zr := flate.NewReader(resp.Body)
		defer func() { _ = zr.Close() }()
		return io.ReadAll(zr)
	default:
		return io.ReadAll(resp.Body)
	}
}

func (x *HttpWrapper) Get(ctx context.Context, requestUrl string) ([]byte, error) {
	resp, err := x.Fetch(ctx, requestUrl)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream %s", resp.Status)
	}
	return x.DecodeBody(resp)
}
