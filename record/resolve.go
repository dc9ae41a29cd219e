package record

import (
	"math"

	"github.com/pkg/errors"

	"github.com/4n3u/Majsoul-Data/schema"
	"github.com/4n3u/Majsoul-Data/wire"
)

// Rule 一个字段类型对应的解码规则：期望的编码类别、默认值和读取函数。
// 除长度分隔类型外的标量都可能以 packed 形式出现在一段长度分隔载荷中。
type Rule struct {
	// Kind 非 packed 情形下期望的标签编码类别
	Kind wire.Kind
	// Packable 是否可能以 packed 形式编码
	Packable bool
	// Read 从游标读取并解释一个值
	Read func(r *wire.Reader) (any, error)

	zero any
}

// Zero 返回该类型的默认值
func (r *Rule) Zero() any {
	return r.zero
}

var rules = map[schema.FieldType]*Rule{
	schema.TypeInt32: {Kind: wire.KindVarint, Packable: true, zero: int64(0), Read: func(r *wire.Reader) (any, error) {
		v, err := r.ReadVarint()
		return int64(int32(v)), err
	}},
	schema.TypeInt64: {Kind: wire.KindVarint, Packable: true, zero: int64(0), Read: func(r *wire.Reader) (any, error) {
		v, err := r.ReadVarint()
		return int64(v), err
	}},
	schema.TypeUint32: {Kind: wire.KindVarint, Packable: true, zero: uint64(0), Read: func(r *wire.Reader) (any, error) {
		v, err := r.ReadVarint()
		return uint64(uint32(v)), err
	}},
	schema.TypeUint64: {Kind: wire.KindVarint, Packable: true, zero: uint64(0), Read: func(r *wire.Reader) (any, error) {
		return r.ReadVarint()
	}},
	schema.TypeSint32: {Kind: wire.KindVarint, Packable: true, zero: int64(0), Read: func(r *wire.Reader) (any, error) {
		v, err := r.ReadVarint()
		return wire.DecodeZigZag(v), err
	}},
	schema.TypeSint64: {Kind: wire.KindVarint, Packable: true, zero: int64(0), Read: func(r *wire.Reader) (any, error) {
		v, err := r.ReadVarint()
		return wire.DecodeZigZag(v), err
	}},
	schema.TypeBool: {Kind: wire.KindVarint, Packable: true, zero: false, Read: func(r *wire.Reader) (any, error) {
		v, err := r.ReadVarint()
		return v != 0, err
	}},
	schema.TypeFixed32: {Kind: wire.KindFixed32, Packable: true, zero: uint64(0), Read: func(r *wire.Reader) (any, error) {
		v, err := r.ReadFixed32()
		return uint64(v), err
	}},
	schema.TypeFixed64: {Kind: wire.KindFixed64, Packable: true, zero: uint64(0), Read: func(r *wire.Reader) (any, error) {
		return r.ReadFixed64()
	}},
	schema.TypeSfixed32: {Kind: wire.KindFixed32, Packable: true, zero: int64(0), Read: func(r *wire.Reader) (any, error) {
		v, err := r.ReadFixed32()
		return int64(int32(v)), err
	}},
	schema.TypeSfixed64: {Kind: wire.KindFixed64, Packable: true, zero: int64(0), Read: func(r *wire.Reader) (any, error) {
		v, err := r.ReadFixed64()
		return int64(v), err
	}},
	schema.TypeFloat: {Kind: wire.KindFixed32, Packable: true, zero: float64(0), Read: func(r *wire.Reader) (any, error) {
		v, err := r.ReadFixed32()
		return float64(math.Float32frombits(v)), err
	}},
	schema.TypeDouble: {Kind: wire.KindFixed64, Packable: true, zero: float64(0), Read: func(r *wire.Reader) (any, error) {
		v, err := r.ReadFixed64()
		return math.Float64frombits(v), err
	}},
	schema.TypeString: {Kind: wire.KindBytes, zero: "", Read: func(r *wire.Reader) (any, error) {
		b, err := r.ReadBytes()
		return string(b), err
	}},
	schema.TypeBytes: {Kind: wire.KindBytes, zero: []byte{}, Read: func(r *wire.Reader) (any, error) {
		b, err := r.ReadBytes()
		if err != nil {
			return nil, err
		}
		// 行缓冲区是数据包的借用视图，拷贝一份让值脱离数据包的生命周期
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	}},
}

// Resolve 将字段声明的类型名映射为解码规则。
// 集合外的类型名返回 ErrUnsupportedFieldType：猜测宽度会破坏行内之后所有字段的解码。
func Resolve(t schema.FieldType) (*Rule, error) {
	rule, ok := rules[t]
	if !ok {
		return nil, errors.WithMessagef(schema.ErrUnsupportedFieldType, "type %q", string(t))
	}
	return rule, nil
}

func zeroValue(t schema.FieldType) any {
	if rule, ok := rules[t]; ok {
		return rule.zero
	}
	return nil
}
