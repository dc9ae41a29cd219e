// Package export 把数据包中的全部数据块解码为记录序列并交给输出端。
// 数据块之间相互独立，按工作池并行解码；块内的行顺序始终保留。
package export

import (
	"context"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/4n3u/Majsoul-Data/log"
	"github.com/4n3u/Majsoul-Data/record"
	"github.com/4n3u/Majsoul-Data/schema"
	"github.com/4n3u/Majsoul-Data/sink"
)

// Options 导出器配置
type Options struct {
	// Workers 并行解码的工作协程数，默认为 GOMAXPROCS
	Workers int `cfg:"workers" validate:"omitempty,min=1"`
}

// TableReport 单张表的导出结果统计
type TableReport struct {
	// Key 归一化表标识
	Key string
	// Table 模式名
	Table string
	// Sheet 工作表名
	Sheet string
	// RowsAttempted 尝试解码的行数
	RowsAttempted int
	// RowsDecoded 成功解码的行数
	RowsDecoded int
	// RowsSkipped 因行级错误被跳过的行数
	RowsSkipped int
	// Missing 数据块在模式列表中找不到匹配的表
	Missing bool
}

// Report 一次导出的全量统计，条目顺序与数据块在数据包中的顺序一致
type Report struct {
	Tables []TableReport
}

// TotalRows 返回全部表累计尝试解码的行数
func (r *Report) TotalRows() int {
	n := 0
	for i := range r.Tables {
		n += r.Tables[i].RowsAttempted
	}
	return n
}

// TotalSkipped 返回全部表累计跳过的行数
func (r *Report) TotalSkipped() int {
	n := 0
	for i := range r.Tables {
		n += r.Tables[i].RowsSkipped
	}
	return n
}

// Exporter 数据包导出器
type Exporter struct {
	workers int
	logger  log.Logger
	metrics *Metrics
}

// NewExporterWithOptions 创建导出器
func NewExporterWithOptions(options *Options) (*Exporter, error) {
	if options == nil {
		options = &Options{}
	}
	workers := options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Exporter{
		workers: workers,
		logger:  log.Default(),
	}, nil
}

// SetLogger 替换默认日志器
func (e *Exporter) SetLogger(logger log.Logger) {
	e.logger = logger
}

// SetMetrics 挂接指标收集，传入 nil 表示不收集
func (e *Exporter) SetMetrics(metrics *Metrics) {
	e.metrics = metrics
}

// blockResult 一个数据块的解码产出
type blockResult struct {
	report  TableReport
	records []*record.Record
}

// Export 解码 bundle 中的全部数据块并把每张表的记录序列写入 s。
// 单行失败只记入该表的跳过计数，不影响其余行；表之间的写入顺序
// 跟随数据块在数据包中的出现顺序。ctx 取消时停止调度尚未开始的数据块。
func (e *Exporter) Export(ctx context.Context, bundle *schema.Bundle, s sink.Sink) (*Report, error) {
	results := make([]*blockResult, len(bundle.Blocks))

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := e.workers
	if workers > len(bundle.Blocks) {
		workers = len(bundle.Blocks)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = e.decodeBlock(bundle, bundle.Blocks[idx])
			}
		}()
	}

	var canceled error
dispatch:
	for idx := range bundle.Blocks {
		if canceled = ctx.Err(); canceled != nil {
			break
		}
		select {
		case <-ctx.Done():
			canceled = ctx.Err()
			break dispatch
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if canceled != nil {
		return nil, errors.WithMessage(canceled, "export canceled")
	}

	// 同一个键可能出现在多个数据块中，按首次出现的顺序合并
	report := &Report{}
	merged := map[string][]*record.Record{}
	var order []string
	tables := map[string]*schema.Table{}
	for _, result := range results {
		report.Tables = append(report.Tables, result.report)
		if result.report.Missing {
			continue
		}
		key := result.report.Key
		if _, ok := merged[key]; !ok {
			order = append(order, key)
			tables[key] = bundle.TableByKey(key)
		}
		merged[key] = append(merged[key], result.records...)
	}

	for _, key := range order {
		if err := s.Write(key, tables[key], merged[key]); err != nil {
			return nil, errors.WithMessagef(err, "write table %s", key)
		}
		if e.metrics != nil {
			e.metrics.TablesExported.Inc()
		}
	}
	return report, nil
}

// decodeBlock 解码一个数据块的全部行，行级失败跳过该行并继续
func (e *Exporter) decodeBlock(bundle *schema.Bundle, block *schema.DataBlock) *blockResult {
	result := &blockResult{
		report: TableReport{
			Key:           block.Key(),
			Table:         block.Table,
			Sheet:         block.Sheet,
			RowsAttempted: len(block.Rows),
		},
	}

	table := bundle.TableFor(block)
	if table == nil {
		// 只有数据没有模式的表无法解码，保留统计但不产出记录
		e.logger.Warn("no schema for data block", "table", block.Table, "sheet", block.Sheet)
		result.report.Missing = true
		result.report.RowsSkipped = len(block.Rows)
		return result
	}

	decoder, err := record.NewDecoder(table)
	if err != nil {
		// 模式级错误在 ParseBundle 阶段已经拦截，这里兜底整表跳过
		e.logger.Error("create decoder failed", "table", block.Table, "sheet", block.Sheet, "error", err)
		result.report.Missing = true
		result.report.RowsSkipped = len(block.Rows)
		return result
	}

	result.records = make([]*record.Record, 0, len(block.Rows))
	for i, row := range block.Rows {
		rec, err := decoder.Decode(i, row)
		if err != nil {
			e.logger.Warn("skip corrupt row", "table", block.Table, "sheet", block.Sheet, "row", i, "error", err)
			result.report.RowsSkipped++
			if e.metrics != nil {
				e.metrics.RowsSkipped.WithLabelValues(result.report.Key).Inc()
			}
			continue
		}
		result.records = append(result.records, rec)
		result.report.RowsDecoded++
		if e.metrics != nil {
			e.metrics.RowsDecoded.WithLabelValues(result.report.Key).Inc()
		}
	}
	return result
}
