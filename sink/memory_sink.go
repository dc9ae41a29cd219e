package sink

import (
	"sync"

	"github.com/4n3u/Majsoul-Data/record"
	"github.com/4n3u/Majsoul-Data/schema"
)

// MemorySink 把记录留在内存中，用于测试和干跑
type MemorySink struct {
	mutex  sync.Mutex
	tables map[string][]*record.Record
	keys   []string
}

// NewMemorySink 创建一个空的内存输出端
func NewMemorySink() *MemorySink {
	return &MemorySink{
		tables: map[string][]*record.Record{},
	}
}

func (s *MemorySink) Write(key string, table *schema.Table, records []*record.Record) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.tables[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.tables[key] = records
	return nil
}

func (s *MemorySink) Close() error {
	return nil
}

// Records 返回某个键下已写入的记录
func (s *MemorySink) Records(key string) []*record.Record {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.tables[key]
}

// Keys 返回写入顺序排列的全部键
func (s *MemorySink) Keys() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]string(nil), s.keys...)
}
