// Package record 实现由运行期模式驱动的行记录解码。
// 解码规则完全由 schema.Table 给出，不依赖任何编译期生成的类型。
package record

import (
	"bytes"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/4n3u/Majsoul-Data/schema"
)

// Record 一行解码结果：字段名到值的有序映射。
// 值域为 int64、uint64、float64、bool、string、[]byte，
// 重复字段为 []any。模式中声明的字段总是存在，缺席时取类型默认值，不会是 nil。
type Record struct {
	names  []string
	values map[string]any
}

// NewRecord 按表模式创建一条全默认值的记录，字段顺序与模式声明一致
func NewRecord(table *schema.Table) *Record {
	r := &Record{
		names:  make([]string, 0, len(table.Fields)),
		values: make(map[string]any, len(table.Fields)),
	}
	for i := range table.Fields {
		field := &table.Fields[i]
		r.names = append(r.names, field.Name)
		if field.Repeated {
			r.values[field.Name] = []any{}
		} else {
			r.values[field.Name] = zeroValue(field.Type)
		}
	}
	return r
}

// Names 返回字段名的声明顺序，调用方不应修改返回的切片
func (r *Record) Names() []string {
	return r.names
}

// Get 按字段名取值
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Map 返回字段名到值的映射副本
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

func (r *Record) set(name string, v any) {
	r.values[name] = v
}

func (r *Record) append(name string, v any) {
	seq, _ := r.values[name].([]any)
	r.values[name] = append(seq, v)
}

// MarshalJSON 按字段声明顺序输出一个 JSON 对象
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeMsgpack 按字段声明顺序输出一个 msgpack map
func (r *Record) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(r.names)); err != nil {
		return err
	}
	for _, name := range r.names {
		if err := enc.EncodeString(name); err != nil {
			return err
		}
		if err := enc.Encode(r.values[name]); err != nil {
			return err
		}
	}
	return nil
}

var _ json.Marshaler = (*Record)(nil)
var _ msgpack.CustomEncoder = (*Record)(nil)
