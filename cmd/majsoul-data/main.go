// majsoul-data 从游戏资源站点拉取 lqc.lqbin 数据包，
// 按其中自带的表模式解码全部行数据并导出到配置的输出端。
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/4n3u/Majsoul-Data/cfg"
	"github.com/4n3u/Majsoul-Data/export"
	"github.com/4n3u/Majsoul-Data/fetch"
	"github.com/4n3u/Majsoul-Data/log"
	"github.com/4n3u/Majsoul-Data/schema"
	"github.com/4n3u/Majsoul-Data/sink"
)

// Config 进程配置
type Config struct {
	// VersionFile 本地版本缓存文件
	VersionFile string `cfg:"versionFile"`

	Log    log.SLogOptions     `cfg:"log"`
	Fetch  fetch.ClientOptions `cfg:"fetch"`
	Export export.Options      `cfg:"export"`
	Sink   sink.Options        `cfg:"sink"`
}

func defaultConfig() *Config {
	return &Config{
		VersionFile: "version.json",
		Log: log.SLogOptions{
			Level:  "info",
			Format: "text",
		},
		Fetch: fetch.ClientOptions{
			BaseURL: "https://game.maj-soul.com/1",
		},
		Sink: sink.Options{
			Type: "json",
			JSON: &sink.JSONFileSinkOptions{Dir: "data"},
		},
	}
}

func main() {
	configPath := flag.String("config", "", "配置文件路径，留空使用默认配置")
	bundlePath := flag.String("bundle", "", "本地数据包路径，设置后跳过网络获取")
	outputDir := flag.String("output", "", "覆盖 json 输出目录")
	metricsAddr := flag.String("metrics-addr", "", "prometheus 指标监听地址，留空不启用")
	force := flag.Bool("force", false, "忽略版本缓存强制导出")
	flag.Parse()

	config := defaultConfig()
	if *configPath != "" {
		if err := cfg.Load(*configPath, config); err != nil {
			log.Default().Error("load config failed", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	if *outputDir != "" && config.Sink.JSON != nil {
		config.Sink.JSON.Dir = *outputDir
	}

	logger, err := log.NewSLogWithOptions(&config.Log)
	if err != nil {
		log.Default().Error("create logger failed", "error", err)
		os.Exit(1)
	}
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger, *bundlePath, *metricsAddr, *force); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, config *Config, logger log.Logger, bundlePath, metricsAddr string, force bool) error {
	var buf []byte
	var live *fetch.Version

	if bundlePath != "" {
		data, err := os.ReadFile(bundlePath)
		if err != nil {
			return err
		}
		buf = data
		logger.Info("loaded local bundle", "path", bundlePath, "bytes", len(buf))
	} else {
		client, err := fetch.NewClientWithOptions(&config.Fetch)
		if err != nil {
			return err
		}

		live, err = client.LiveVersion(ctx)
		if err != nil {
			return err
		}
		cached, err := fetch.LoadVersion(config.VersionFile)
		if err != nil {
			return err
		}
		if cached != nil && cached.Version == live.Version && !force {
			logger.Info("no update", "version", live.Version)
			return nil
		}
		logger.Info("new live version", "version", live.Version)

		rv, err := client.ResVersion(ctx, live.Version)
		if err != nil {
			return err
		}
		buf, err = client.FetchBundle(ctx, rv)
		if err != nil {
			return err
		}
		logger.Info("downloaded bundle", "bytes", len(buf))
	}

	bundle, err := schema.ParseBundle(buf)
	if err != nil {
		return err
	}
	logger.Info("parsed bundle", "tables", len(bundle.Tables), "blocks", len(bundle.Blocks))

	s, err := sink.NewSinkWithOptions(&config.Sink)
	if err != nil {
		return err
	}
	defer s.Close()

	exporter, err := export.NewExporterWithOptions(&config.Export)
	if err != nil {
		return err
	}
	exporter.SetLogger(logger)

	if metricsAddr != "" {
		registry := prometheus.NewRegistry()
		exporter.SetMetrics(export.NewMetrics(registry))
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	report, err := exporter.Export(ctx, bundle, s)
	if err != nil {
		return err
	}
	for _, table := range report.Tables {
		if table.Missing || table.RowsSkipped > 0 {
			logger.Warn("table exported with issues",
				"table", table.Key, "attempted", table.RowsAttempted,
				"decoded", table.RowsDecoded, "skipped", table.RowsSkipped, "missing", table.Missing)
			continue
		}
		logger.Info("table exported", "table", table.Key, "rows", table.RowsDecoded)
	}
	logger.Info("export complete",
		"tables", len(report.Tables), "rows", report.TotalRows(), "skipped", report.TotalSkipped())

	if live != nil {
		if err := fetch.SaveVersion(config.VersionFile, live); err != nil {
			return err
		}
	}
	return nil
}
