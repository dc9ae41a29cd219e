// Package wire 实现 lqc.lqbin 使用的长度分隔、按标签索引的二进制编码的读写原语。
// Reader 是上层所有解码器共用的字节游标，Writer 主要用于测试和构造样例数据。
package wire

import (
	"github.com/pkg/errors"
)

// Kind 标签低 3 位携带的编码类别
type Kind byte

const (
	KindVarint  Kind = 0 // 变长整数
	KindFixed64 Kind = 1 // 8 字节小端
	KindBytes   Kind = 2 // 长度分隔字节串
	KindFixed32 Kind = 5 // 4 字节小端
)

// 缓冲区级别的错误，一旦出现当前行的解码即告失败
var (
	ErrTruncated      = errors.New("unexpected end of buffer")
	ErrVarintOverflow = errors.New("varint exceeds 10 bytes")
	ErrUnknownKind    = errors.New("unknown wire kind")
	ErrZeroFieldIndex = errors.New("field index must be greater than zero")
)

// Valid 判断编码类别是否是四种可识别类别之一
func (k Kind) Valid() bool {
	switch k {
	case KindVarint, KindFixed64, KindBytes, KindFixed32:
		return true
	}
	return false
}

func (k Kind) String() string {
	switch k {
	case KindVarint:
		return "varint"
	case KindFixed64:
		return "fixed64"
	case KindBytes:
		return "bytes"
	case KindFixed32:
		return "fixed32"
	}
	return "unknown"
}

// EncodeZigZag 将有符号整数映射为无符号整数，使得绝对值小的负数占用更少的字节
func EncodeZigZag(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// DecodeZigZag 是 EncodeZigZag 的逆变换
func DecodeZigZag(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
