package schema

import (
	"github.com/pkg/errors"

	"github.com/4n3u/Majsoul-Data/wire"
)

// 外层数据包的固定标签布局，对应原始 ConfigTables 消息
const (
	tagBundleSchemas = 1 // repeated Schema
	tagBundleDatas   = 2 // repeated Data

	tagSchemaName   = 1 // string
	tagSchemaSheets = 2 // repeated Sheet

	tagSheetName   = 1 // string
	tagSheetFields = 2 // repeated Field

	tagFieldName        = 1 // string
	tagFieldType        = 2 // string
	tagFieldIndex       = 3 // varint
	tagFieldArrayLength = 4 // varint，> 0 表示重复字段

	tagDataTable = 1 // string
	tagDataSheet = 2 // string
	tagDataRows  = 3 // repeated bytes，每个元素是一条独立编码的行
)

// ParseBundle 解码整个数据包，返回其中声明的全部表模式和原始行数据。
// 顶层缺少模式列表或数据列表时返回 ErrMalformedBundle；
// 任何字段声明不合法时返回定位到表和字段的 SchemaError。
func ParseBundle(buf []byte) (*Bundle, error) {
	r := wire.NewReader(buf)
	bundle := &Bundle{byKey: map[string]*Table{}}
	var sawSchemas, sawDatas bool

	for !r.AtEnd() {
		index, kind, err := r.ReadTag()
		if err != nil {
			return nil, errors.WithMessage(err, "read bundle tag")
		}
		if kind != wire.KindBytes || (index != tagBundleSchemas && index != tagBundleDatas) {
			if err := r.Skip(kind); err != nil {
				return nil, errors.WithMessage(err, "skip unknown bundle field")
			}
			continue
		}

		raw, err := r.ReadBytes()
		if err != nil {
			return nil, errors.WithMessage(err, "read bundle field")
		}
		switch index {
		case tagBundleSchemas:
			sawSchemas = true
			tables, err := parseSchema(raw)
			if err != nil {
				return nil, err
			}
			bundle.Tables = append(bundle.Tables, tables...)
		case tagBundleDatas:
			sawDatas = true
			block, err := parseData(raw)
			if err != nil {
				return nil, err
			}
			bundle.Blocks = append(bundle.Blocks, block)
		}
	}

	if !sawSchemas || !sawDatas {
		return nil, errors.WithMessage(ErrMalformedBundle, "missing schema list or data list")
	}

	for _, table := range bundle.Tables {
		if err := validateTable(table); err != nil {
			return nil, err
		}
		key := table.Key()
		if _, ok := bundle.byKey[key]; ok {
			return nil, errors.WithMessagef(ErrMalformedBundle, "tables %s.%s and %s.%s share key %s",
				bundle.byKey[key].Name, bundle.byKey[key].Sheet, table.Name, table.Sheet, key)
		}
		bundle.byKey[key] = table
	}

	return bundle, nil
}

// parseSchema 解码一条 Schema 消息，每个工作表展开为一张独立的 Table
func parseSchema(buf []byte) ([]*Table, error) {
	r := wire.NewReader(buf)
	var name string
	var sheets [][]byte

	for !r.AtEnd() {
		index, kind, err := r.ReadTag()
		if err != nil {
			return nil, errors.WithMessage(err, "read schema tag")
		}
		switch {
		case index == tagSchemaName && kind == wire.KindBytes:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			name = string(b)
		case index == tagSchemaSheets && kind == wire.KindBytes:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			sheets = append(sheets, b)
		default:
			if err := r.Skip(kind); err != nil {
				return nil, err
			}
		}
	}

	tables := make([]*Table, 0, len(sheets))
	for _, raw := range sheets {
		table, err := parseSheet(raw, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// parseSheet 解码一条 Sheet 消息为一张 Table
func parseSheet(buf []byte, schemaName string) (*Table, error) {
	r := wire.NewReader(buf)
	table := &Table{Name: schemaName}

	for !r.AtEnd() {
		index, kind, err := r.ReadTag()
		if err != nil {
			return nil, errors.WithMessagef(err, "read sheet tag in schema %s", schemaName)
		}
		switch {
		case index == tagSheetName && kind == wire.KindBytes:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			table.Sheet = string(b)
		case index == tagSheetFields && kind == wire.KindBytes:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			field, err := parseField(b)
			if err != nil {
				return nil, errors.WithMessagef(err, "parse field in %s.%s", schemaName, table.Sheet)
			}
			table.Fields = append(table.Fields, *field)
		default:
			if err := r.Skip(kind); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}

// parseField 解码一条 Field 消息
func parseField(buf []byte) (*Field, error) {
	r := wire.NewReader(buf)
	field := &Field{}

	for !r.AtEnd() {
		index, kind, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		switch {
		case index == tagFieldName && kind == wire.KindBytes:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			field.Name = string(b)
		case index == tagFieldType && kind == wire.KindBytes:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			field.Type = FieldType(b)
		case index == tagFieldIndex && kind == wire.KindVarint:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			field.Index = uint32(v)
		case index == tagFieldArrayLength && kind == wire.KindVarint:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			field.Repeated = v > 0
		default:
			if err := r.Skip(kind); err != nil {
				return nil, err
			}
		}
	}
	return field, nil
}

// parseData 解码一条 Data 消息为一个 DataBlock
func parseData(buf []byte) (*DataBlock, error) {
	r := wire.NewReader(buf)
	block := &DataBlock{}

	for !r.AtEnd() {
		index, kind, err := r.ReadTag()
		if err != nil {
			return nil, errors.WithMessage(err, "read data tag")
		}
		switch {
		case index == tagDataTable && kind == wire.KindBytes:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			block.Table = string(b)
		case index == tagDataSheet && kind == wire.KindBytes:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			block.Sheet = string(b)
		case index == tagDataRows && kind == wire.KindBytes:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			block.Rows = append(block.Rows, b)
		default:
			if err := r.Skip(kind); err != nil {
				return nil, err
			}
		}
	}
	return block, nil
}

// validateTable 校验一张表的字段声明并建立索引查找表。
// 校验失败的字段按表、工作表、字段名上报，而不是被静默丢弃。
func validateTable(table *Table) error {
	table.byIndex = make(map[uint32]int, len(table.Fields))
	for i, field := range table.Fields {
		if !field.Type.Valid() {
			return &SchemaError{
				Table: table.Name, Sheet: table.Sheet, Field: field.Name,
				Cause: errors.WithMessagef(ErrUnsupportedFieldType, "type %q", string(field.Type)),
			}
		}
		if field.Index == 0 {
			return &SchemaError{
				Table: table.Name, Sheet: table.Sheet, Field: field.Name,
				Cause: ErrInvalidFieldIndex,
			}
		}
		if j, ok := table.byIndex[field.Index]; ok {
			return &SchemaError{
				Table: table.Name, Sheet: table.Sheet, Field: field.Name,
				Cause: errors.WithMessagef(ErrDuplicateFieldIndex, "index %d already used by %q", field.Index, table.Fields[j].Name),
			}
		}
		table.byIndex[field.Index] = i
	}
	return nil
}
