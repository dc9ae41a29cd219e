// Package fetch 负责数据包的网络获取：
// 查询线上版本号、定位资源清单中的 lqc.lqbin 并下载其字节。
// 解码核心只消费字节缓冲区，对下载过程没有任何依赖。
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// bundlePath 资源清单中数据包条目的路径后缀
const bundlePath = "res/config/lqc.lqbin"

// ClientOptions 下载客户端配置
type ClientOptions struct {
	// BaseURL 游戏资源站点根地址
	BaseURL string `cfg:"baseURL" validate:"required,url"`
	// Timeout 单次请求超时，默认 30s
	Timeout time.Duration `cfg:"timeout"`
	// UserAgent 请求头中的 UA，为空时不设置
	UserAgent string `cfg:"userAgent"`
}

// Client 数据包下载客户端
type Client struct {
	base      string
	userAgent string
	client    *http.Client
}

// NewClientWithOptions 创建下载客户端
func NewClientWithOptions(options *ClientOptions) (*Client, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	if options.BaseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:      strings.TrimRight(options.BaseURL, "/"),
		userAgent: options.UserAgent,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// Version 线上版本描述，对应站点根下的 version.json
type Version struct {
	Version string `json:"version"`
	Code    string `json:"code,omitempty"`
}

// ResVersion 资源清单，路径到资源条目的映射
type ResVersion struct {
	Res map[string]ResEntry `json:"res"`
}

// ResEntry 资源清单中的一个条目
type ResEntry struct {
	Prefix string `json:"prefix"`
}

// ErrBundleNotFound 资源清单中找不到数据包条目
var ErrBundleNotFound = errors.New("lqc.lqbin not found in resversion")

// LiveVersion 查询线上当前版本
func (c *Client) LiveVersion(ctx context.Context) (*Version, error) {
	data, err := c.get(ctx, c.base+"/version.json")
	if err != nil {
		return nil, err
	}
	version := &Version{}
	if err := json.Unmarshal(data, version); err != nil {
		return nil, errors.Wrap(err, "unmarshal version.json failed")
	}
	if version.Version == "" {
		return nil, errors.New("version.json has no version field")
	}
	return version, nil
}

// ResVersion 拉取指定版本的资源清单
func (c *Client) ResVersion(ctx context.Context, version string) (*ResVersion, error) {
	data, err := c.get(ctx, fmt.Sprintf("%s/resversion%s.json", c.base, version))
	if err != nil {
		return nil, err
	}
	rv := &ResVersion{}
	if err := json.Unmarshal(data, rv); err != nil {
		return nil, errors.Wrap(err, "unmarshal resversion failed")
	}
	return rv, nil
}

// FetchBundle 在资源清单中定位数据包并下载完整字节
func (c *Client) FetchBundle(ctx context.Context, rv *ResVersion) ([]byte, error) {
	var prefix string
	found := false
	for path, entry := range rv.Res {
		if strings.HasSuffix(path, "lqc.lqbin") {
			prefix = entry.Prefix
			found = true
			break
		}
	}
	if !found {
		return nil, ErrBundleNotFound
	}
	return c.get(ctx, fmt.Sprintf("%s/%s/%s", c.base, prefix, bundlePath))
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "new request failed. url: %s", url)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request failed. url: %s", url)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d. url: %s", res.StatusCode, url)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read body failed. url: %s", url)
	}
	return data, nil
}
