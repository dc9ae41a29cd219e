package record

import (
	"fmt"

	"github.com/4n3u/Majsoul-Data/schema"
	"github.com/4n3u/Majsoul-Data/wire"
)

// RowDecodeError 单行解码失败，携带定位信息。
// 行级失败由调用方按表级策略处理（跳过该行），不会中止整张表。
type RowDecodeError struct {
	Table string
	Sheet string
	Row   int
	Cause error
}

func (e *RowDecodeError) Error() string {
	return fmt.Sprintf("decode row %d of %s.%s: %v", e.Row, e.Table, e.Sheet, e.Cause)
}

func (e *RowDecodeError) Unwrap() error {
	return e.Cause
}

type fieldRule struct {
	field *schema.Field
	rule  *Rule
}

// Decoder 按一张表的模式解码该表的行记录。
// Decoder 只读取表模式，不持有可变状态，可在多个 goroutine 间共享。
type Decoder struct {
	table *schema.Table
	rules map[uint32]fieldRule
}

// NewDecoder 预先解析表中所有字段的解码规则。
// 任何字段类型不可识别时整表失败，返回定位到字段的 SchemaError。
func NewDecoder(table *schema.Table) (*Decoder, error) {
	d := &Decoder{
		table: table,
		rules: make(map[uint32]fieldRule, len(table.Fields)),
	}
	for i := range table.Fields {
		field := &table.Fields[i]
		rule, err := Resolve(field.Type)
		if err != nil {
			return nil, &schema.SchemaError{
				Table: table.Name, Sheet: table.Sheet, Field: field.Name,
				Cause: err,
			}
		}
		d.rules[field.Index] = fieldRule{field: field, rule: rule}
	}
	return d, nil
}

// Table 返回解码器绑定的表模式
func (d *Decoder) Table() *schema.Table {
	return d.table
}

// Decode 解码一行。记录先按模式初始化为全默认值，因此各行的输出形状一致。
// 未知标签按其编码类别跳过；重复数值字段同时接受逐标签和 packed 两种编码。
// rowIndex 仅用于错误定位。
func (d *Decoder) Decode(rowIndex int, row []byte) (*Record, error) {
	rec := NewRecord(d.table)
	r := wire.NewReader(row)

	for !r.AtEnd() {
		index, kind, err := r.ReadTag()
		if err != nil {
			return nil, d.rowError(rowIndex, err)
		}

		fr, ok := d.rules[index]
		if !ok {
			// 模式视图之外的字段，向前兼容地丢弃
			if err := r.Skip(kind); err != nil {
				return nil, d.rowError(rowIndex, err)
			}
			continue
		}

		switch {
		case kind == fr.rule.Kind:
			v, err := fr.rule.Read(r)
			if err != nil {
				return nil, d.rowError(rowIndex, err)
			}
			if fr.field.Repeated {
				rec.append(fr.field.Name, v)
			} else {
				// 标量字段重复出现时保留最后一个值
				rec.set(fr.field.Name, v)
			}
		case kind == wire.KindBytes && fr.rule.Packable:
			// packed 编码由生产方自行选择，与模式声明的重复标志无关
			raw, err := r.ReadBytes()
			if err != nil {
				return nil, d.rowError(rowIndex, err)
			}
			pr := wire.NewReader(raw)
			for !pr.AtEnd() {
				v, err := fr.rule.Read(pr)
				if err != nil {
					return nil, d.rowError(rowIndex, err)
				}
				if fr.field.Repeated {
					rec.append(fr.field.Name, v)
				} else {
					rec.set(fr.field.Name, v)
				}
			}
		default:
			// 编码类别与模式不符，按未知字段处理
			if err := r.Skip(kind); err != nil {
				return nil, d.rowError(rowIndex, err)
			}
		}
	}
	return rec, nil
}

func (d *Decoder) rowError(rowIndex int, cause error) error {
	return &RowDecodeError{
		Table: d.table.Name,
		Sheet: d.table.Sheet,
		Row:   rowIndex,
		Cause: cause,
	}
}
