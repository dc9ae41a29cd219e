package export

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 导出过程的可观测指标
type Metrics struct {
	// RowsDecoded 按表统计的成功解码行数
	RowsDecoded *prometheus.CounterVec
	// RowsSkipped 按表统计的因行级错误跳过的行数
	RowsSkipped *prometheus.CounterVec
	// TablesExported 已写入输出端的表数
	TablesExported prometheus.Counter
}

// NewMetrics 创建并注册全部指标
func NewMetrics(reg prometheus.Registerer) *Metrics {
	rowsDecoded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "majsoul_data_rows_decoded_total",
		Help: "Rows decoded successfully, per table key",
	}, []string{"table"})

	rowsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "majsoul_data_rows_skipped_total",
		Help: "Rows skipped due to row-level decode errors, per table key",
	}, []string{"table"})

	tablesExported := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "majsoul_data_tables_exported_total",
		Help: "Tables handed to the sink",
	})

	reg.MustRegister(rowsDecoded, rowsSkipped, tablesExported)

	return &Metrics{
		RowsDecoded:    rowsDecoded,
		RowsSkipped:    rowsSkipped,
		TablesExported: tablesExported,
	}
}
