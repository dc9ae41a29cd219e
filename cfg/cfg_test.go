package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type testConfig struct {
	Name    string        `cfg:"name" validate:"required"`
	Workers int           `cfg:"workers" validate:"omitempty,min=1"`
	Fetch   fetchSection  `cfg:"fetch"`
	Sink    *sinkSection  `cfg:"sink"`
	Tags    []string      `cfg:"tags"`
	Extra   map[string]any `cfg:"extra"`
}

type fetchSection struct {
	BaseURL string        `cfg:"baseURL" validate:"omitempty,url"`
	Timeout time.Duration `cfg:"timeout"`
	Debug   bool          `cfg:"debug"`
}

type sinkSection struct {
	Type string `cfg:"type"`
	Dir  string `cfg:"dir"`
}

func writeConfig(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	So(os.WriteFile(path, []byte(content), 0644), ShouldBeNil)
	return path
}

func TestLoad(t *testing.T) {
	Convey("Load", t, func() {
		Convey("yaml 配置", func() {
			path := writeConfig(t, "config.yaml", `
name: majsoul
workers: 4
tags: [a, b]
fetch:
  baseURL: https://game.maj-soul.com/1
  timeout: 45s
  debug: true
sink:
  type: json
  dir: data
`)
			config := &testConfig{}
			So(Load(path, config), ShouldBeNil)
			So(config.Name, ShouldEqual, "majsoul")
			So(config.Workers, ShouldEqual, 4)
			So(config.Tags, ShouldResemble, []string{"a", "b"})
			So(config.Fetch.BaseURL, ShouldEqual, "https://game.maj-soul.com/1")
			So(config.Fetch.Timeout, ShouldEqual, 45*time.Second)
			So(config.Fetch.Debug, ShouldBeTrue)
			So(config.Sink, ShouldNotBeNil)
			So(config.Sink.Type, ShouldEqual, "json")
		})

		Convey("json 配置", func() {
			path := writeConfig(t, "config.json", `{
				"name": "majsoul",
				"fetch": {"timeout": "1m", "baseURL": "https://example.com"},
				"extra": {"k": "v"}
			}`)
			config := &testConfig{}
			So(Load(path, config), ShouldBeNil)
			So(config.Fetch.Timeout, ShouldEqual, time.Minute)
			So(config.Extra, ShouldResemble, map[string]any{"k": "v"})
		})

		Convey("toml 配置", func() {
			path := writeConfig(t, "config.toml", `
name = "majsoul"
workers = 2

[fetch]
baseURL = "https://example.com"
timeout = "30s"
`)
			config := &testConfig{}
			So(Load(path, config), ShouldBeNil)
			So(config.Workers, ShouldEqual, 2)
			So(config.Fetch.Timeout, ShouldEqual, 30*time.Second)
		})

		Convey("ini 配置", func() {
			path := writeConfig(t, "config.ini", `
name = majsoul
workers = 3

[fetch]
baseURL = https://example.com
timeout = 10s
debug = true
`)
			config := &testConfig{}
			So(Load(path, config), ShouldBeNil)
			So(config.Name, ShouldEqual, "majsoul")
			So(config.Workers, ShouldEqual, 3)
			So(config.Fetch.Timeout, ShouldEqual, 10*time.Second)
			So(config.Fetch.Debug, ShouldBeTrue)
		})

		Convey("校验失败", func() {
			path := writeConfig(t, "config.yaml", `workers: 1`)
			So(Load(path, &testConfig{}), ShouldNotBeNil) // name 缺失

			path = writeConfig(t, "bad_url.yaml", "name: x\nfetch:\n  baseURL: not-a-url\n")
			So(Load(path, &testConfig{}), ShouldNotBeNil)
		})

		Convey("类型不匹配", func() {
			path := writeConfig(t, "config.yaml", `
name: majsoul
workers: many
`)
			So(Load(path, &testConfig{}), ShouldNotBeNil)
		})

		Convey("不支持的扩展名", func() {
			path := writeConfig(t, "config.xml", `<name/>`)
			So(Load(path, &testConfig{}), ShouldNotBeNil)
		})

		Convey("文件不存在", func() {
			So(Load(filepath.Join(t.TempDir(), "missing.yaml"), &testConfig{}), ShouldNotBeNil)
		})
	})
}
