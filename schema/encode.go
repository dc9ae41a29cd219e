package schema

import (
	"github.com/4n3u/Majsoul-Data/wire"
)

// EncodeBundle 将表模式和数据块编码回外层数据包格式。
// 解码路径不依赖它，主要用途是测试和样例数据包的构造。
// 同名 Table 会归并到同一条 Schema 消息下，与原始格式保持一致。
func EncodeBundle(tables []*Table, blocks []*DataBlock) []byte {
	w := wire.NewWriter()

	var group []*Table
	flush := func() {
		if len(group) == 0 {
			return
		}
		w.WriteTag(tagBundleSchemas, wire.KindBytes)
		w.WriteBytes(encodeSchema(group))
		group = group[:0]
	}
	for _, table := range tables {
		if len(group) > 0 && group[0].Name != table.Name {
			flush()
		}
		group = append(group, table)
	}
	flush()

	for _, block := range blocks {
		w.WriteTag(tagBundleDatas, wire.KindBytes)
		w.WriteBytes(encodeData(block))
	}
	return w.Bytes()
}

func encodeSchema(tables []*Table) []byte {
	w := wire.NewWriter()
	w.WriteTag(tagSchemaName, wire.KindBytes)
	w.WriteString(tables[0].Name)
	for _, table := range tables {
		w.WriteTag(tagSchemaSheets, wire.KindBytes)
		w.WriteBytes(encodeSheet(table))
	}
	return w.Bytes()
}

func encodeSheet(table *Table) []byte {
	w := wire.NewWriter()
	w.WriteTag(tagSheetName, wire.KindBytes)
	w.WriteString(table.Sheet)
	for i := range table.Fields {
		w.WriteTag(tagSheetFields, wire.KindBytes)
		w.WriteBytes(encodeField(&table.Fields[i]))
	}
	return w.Bytes()
}

func encodeField(field *Field) []byte {
	w := wire.NewWriter()
	w.WriteTag(tagFieldName, wire.KindBytes)
	w.WriteString(field.Name)
	w.WriteTag(tagFieldType, wire.KindBytes)
	w.WriteString(string(field.Type))
	w.WriteTag(tagFieldIndex, wire.KindVarint)
	w.WriteVarint(uint64(field.Index))
	if field.Repeated {
		w.WriteTag(tagFieldArrayLength, wire.KindVarint)
		w.WriteVarint(1)
	}
	return w.Bytes()
}

func encodeData(block *DataBlock) []byte {
	w := wire.NewWriter()
	w.WriteTag(tagDataTable, wire.KindBytes)
	w.WriteString(block.Table)
	w.WriteTag(tagDataSheet, wire.KindBytes)
	w.WriteString(block.Sheet)
	for _, row := range block.Rows {
		w.WriteTag(tagDataRows, wire.KindBytes)
		w.WriteBytes(row)
	}
	return w.Bytes()
}
