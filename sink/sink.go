// Package sink 定义解码结果的外部输出边界及其内置实现。
// 每张表的记录序列按归一化键交给 Sink，一次导出中同一个键只会写入一次。
package sink

import (
	"github.com/pkg/errors"

	"github.com/4n3u/Majsoul-Data/record"
	"github.com/4n3u/Majsoul-Data/schema"
)

// Sink 解码结果的输出端
type Sink interface {
	// Write 输出一张表的全部记录，key 是归一化的表标识，记录顺序与原始行顺序一致
	Write(key string, table *schema.Table, records []*record.Record) error
	// Close 释放底层资源，所有 Write 完成后调用一次
	Close() error
}

// Options 输出端配置
type Options struct {
	// Type 输出端类型
	Type string `cfg:"type" validate:"required,oneof=json boltdb memory"`
	// JSON json 类型的配置
	JSON *JSONFileSinkOptions `cfg:"json"`
	// BoltDB boltdb 类型的配置
	BoltDB *BoltDBSinkOptions `cfg:"boltdb"`
}

// NewSinkWithOptions 按配置创建输出端
func NewSinkWithOptions(options *Options) (Sink, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	switch options.Type {
	case "json":
		return NewJSONFileSinkWithOptions(options.JSON)
	case "boltdb":
		return NewBoltDBSinkWithOptions(options.BoltDB)
	case "memory":
		return NewMemorySink(), nil
	}
	return nil, errors.Errorf("unknown sink type %q", options.Type)
}
