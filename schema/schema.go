// Package schema 定义动态表模式的内存模型，并实现外层数据包的解码。
// 数据包本身使用与行数据相同的线上格式编码，但其结构（表模式列表 + 原始行数据列表）
// 是固定且预先已知的，因此这里用一个硬编码的标签循环完成自举解码。
package schema

import (
	"strings"
)

// FieldType 字段声明的线上类型名，取值范围是一个封闭集合
type FieldType string

const (
	TypeInt32    FieldType = "int32"
	TypeInt64    FieldType = "int64"
	TypeUint32   FieldType = "uint32"
	TypeUint64   FieldType = "uint64"
	TypeSint32   FieldType = "sint32"
	TypeSint64   FieldType = "sint64"
	TypeBool     FieldType = "bool"
	TypeFixed32  FieldType = "fixed32"
	TypeFixed64  FieldType = "fixed64"
	TypeSfixed32 FieldType = "sfixed32"
	TypeSfixed64 FieldType = "sfixed64"
	TypeFloat    FieldType = "float"
	TypeDouble   FieldType = "double"
	TypeString   FieldType = "string"
	TypeBytes    FieldType = "bytes"
)

var fieldTypes = map[FieldType]struct{}{
	TypeInt32: {}, TypeInt64: {}, TypeUint32: {}, TypeUint64: {},
	TypeSint32: {}, TypeSint64: {}, TypeBool: {},
	TypeFixed32: {}, TypeFixed64: {}, TypeSfixed32: {}, TypeSfixed64: {},
	TypeFloat: {}, TypeDouble: {}, TypeString: {}, TypeBytes: {},
}

// Valid 判断类型名是否属于可识别集合
func (t FieldType) Valid() bool {
	_, ok := fieldTypes[t]
	return ok
}

// Field 表内一个字段的声明
type Field struct {
	// Name 字段名，作为解码结果中的键
	Name string
	// Type 线上类型名
	Type FieldType
	// Index 线上标签索引，表内唯一，必须 >= 1
	Index uint32
	// Repeated 是否为重复字段
	Repeated bool
}

// Table 一张表的模式，字段顺序保持数据包中的声明顺序。
// 解码时按 Index 而不是位置匹配字段。
type Table struct {
	// Name 模式名，如 item
	Name string
	// Sheet 工作表名，如 v3
	Sheet string
	// Fields 按声明顺序排列的字段
	Fields []Field

	byIndex map[uint32]int
}

// Key 返回按 TypeKey 规则归一化的表标识
func (t *Table) Key() string {
	return TypeKey(t.Name, t.Sheet)
}

// FieldByIndex 按线上标签索引查找字段，找不到时返回 nil
func (t *Table) FieldByIndex(index uint32) *Field {
	i, ok := t.byIndex[index]
	if !ok {
		return nil
	}
	return &t.Fields[i]
}

// DataBlock 一张表的全部原始行数据，每行是一条独立编码的二进制记录
type DataBlock struct {
	Table string
	Sheet string
	Rows  [][]byte
}

// Key 返回按 TypeKey 规则归一化的表标识
func (b *DataBlock) Key() string {
	return TypeKey(b.Table, b.Sheet)
}

// Bundle 一次解码得到的全部表模式和原始行数据
type Bundle struct {
	Tables []*Table
	Blocks []*DataBlock

	byKey map[string]*Table
}

// TableByKey 按归一化标识查找表模式，找不到时返回 nil
func (b *Bundle) TableByKey(key string) *Table {
	return b.byKey[key]
}

// TableFor 查找与数据块匹配的表模式，找不到时返回 nil
func (b *Bundle) TableFor(block *DataBlock) *Table {
	return b.byKey[block.Key()]
}

// TypeKey 将表名和工作表名归一化为一个查找键：
// 以下划线拼接后切分，每一段首字母大写其余小写，再拼接为一个词。
// 例如 item_definition + v3 => ItemDefinitionV3。
func TypeKey(table, sheet string) string {
	parts := strings.Split(table+"_"+sheet, "_")
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(strings.ToLower(p[1:]))
	}
	return sb.String()
}
