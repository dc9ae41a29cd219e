package wire

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Reader 是覆盖在一段不可变字节缓冲区上的单向读游标。
// 所有读取方法只向前推进游标，不做任何回退，出错时游标状态不再可用。
type Reader struct {
	buf []byte
	pos int
}

// NewReader 创建一个游标位于起始位置的 Reader，不复制缓冲区
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// AtEnd 游标是否已到达缓冲区末尾
func (r *Reader) AtEnd() bool {
	return r.pos >= len(r.buf)
}

// Pos 返回当前游标位置，主要用于错误定位
func (r *Reader) Pos() int {
	return r.pos
}

// ReadVarint 读取一个 base-128 变长整数。
// 连续 10 个字节仍未出现终止字节时返回 ErrVarintOverflow。
func (r *Reader) ReadVarint() (uint64, error) {
	var v uint64
	for i := 0; i < 10; i++ {
		if r.pos >= len(r.buf) {
			return 0, errors.WithMessagef(ErrTruncated, "varint at offset %d", r.pos)
		}
		b := r.buf[r.pos]
		r.pos++
		v |= uint64(b&0x7f) << (7 * i)
		if b < 0x80 {
			return v, nil
		}
	}
	return 0, errors.WithMessagef(ErrVarintOverflow, "varint at offset %d", r.pos)
}

// ReadTag 读取一个字段标签并拆分为字段索引和编码类别
func (r *Reader) ReadTag() (uint32, Kind, error) {
	v, err := r.ReadVarint()
	if err != nil {
		return 0, 0, err
	}
	index := uint32(v >> 3)
	kind := Kind(v & 0x7)
	if !kind.Valid() {
		return 0, 0, errors.WithMessagef(ErrUnknownKind, "kind %d in tag at offset %d", byte(kind), r.pos)
	}
	if index == 0 {
		return 0, 0, errors.WithMessagef(ErrZeroFieldIndex, "tag at offset %d", r.pos)
	}
	return index, kind, nil
}

// ReadBytes 读取一段长度分隔的字节串，返回底层缓冲区的切片视图，不做复制
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(r.buf)-r.pos) {
		return nil, errors.WithMessagef(ErrTruncated, "need %d bytes at offset %d, %d remain", n, r.pos, len(r.buf)-r.pos)
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

// ReadFixed32 读取 4 字节小端整数
func (r *Reader) ReadFixed32() (uint32, error) {
	if len(r.buf)-r.pos < 4 {
		return 0, errors.WithMessagef(ErrTruncated, "fixed32 at offset %d", r.pos)
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadFixed64 读取 8 字节小端整数
func (r *Reader) ReadFixed64() (uint64, error) {
	if len(r.buf)-r.pos < 8 {
		return 0, errors.WithMessagef(ErrTruncated, "fixed64 at offset %d", r.pos)
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// Skip 跳过一个指定编码类别的值而不解码，用于丢弃未知字段
func (r *Reader) Skip(kind Kind) error {
	switch kind {
	case KindVarint:
		_, err := r.ReadVarint()
		return err
	case KindFixed64:
		_, err := r.ReadFixed64()
		return err
	case KindBytes:
		_, err := r.ReadBytes()
		return err
	case KindFixed32:
		_, err := r.ReadFixed32()
		return err
	}
	return errors.WithMessagef(ErrUnknownKind, "kind %d", byte(kind))
}
