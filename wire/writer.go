package wire

import (
	"encoding/binary"
	"math"
)

// Writer 按照与 Reader 相同的编码规则追加写入一段缓冲区。
// 解码路径本身不需要编码器，Writer 用于测试中的往返验证和样例数据构造。
type Writer struct {
	buf []byte
}

// NewWriter 创建一个空缓冲区的 Writer
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes 返回当前已写入的全部字节
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len 返回当前已写入的字节数
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteVarint 追加一个 base-128 变长整数
func (w *Writer) WriteVarint(v uint64) *Writer {
	w.buf = binary.AppendUvarint(w.buf, v)
	return w
}

// WriteTag 追加一个字段标签
func (w *Writer) WriteTag(index uint32, kind Kind) *Writer {
	return w.WriteVarint(uint64(index)<<3 | uint64(kind))
}

// WriteBytes 追加一段长度分隔的字节串
func (w *Writer) WriteBytes(b []byte) *Writer {
	w.WriteVarint(uint64(len(b)))
	w.buf = append(w.buf, b...)
	return w
}

// WriteString 追加一段长度分隔的字符串
func (w *Writer) WriteString(s string) *Writer {
	w.WriteVarint(uint64(len(s)))
	w.buf = append(w.buf, s...)
	return w
}

// WriteFixed32 追加 4 字节小端整数
func (w *Writer) WriteFixed32(v uint32) *Writer {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	return w
}

// WriteFixed64 追加 8 字节小端整数
func (w *Writer) WriteFixed64(v uint64) *Writer {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	return w
}

// WriteFloat 追加一个 IEEE-754 单精度浮点数
func (w *Writer) WriteFloat(v float32) *Writer {
	return w.WriteFixed32(math.Float32bits(v))
}

// WriteDouble 追加一个 IEEE-754 双精度浮点数
func (w *Writer) WriteDouble(v float64) *Writer {
	return w.WriteFixed64(math.Float64bits(v))
}

// WriteRaw 原样追加一段字节，不带长度前缀
func (w *Writer) WriteRaw(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}
