package sink

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/4n3u/Majsoul-Data/record"
	"github.com/4n3u/Majsoul-Data/schema"
	"github.com/4n3u/Majsoul-Data/wire"
)

func itemTable() *schema.Table {
	return &schema.Table{
		Name:  "item",
		Sheet: "v3",
		Fields: []schema.Field{
			{Name: "id", Type: schema.TypeInt32, Index: 1},
			{Name: "tags", Type: schema.TypeString, Index: 2, Repeated: true},
		},
	}
}

func decodeRows(table *schema.Table, rows ...[]byte) []*record.Record {
	decoder, err := record.NewDecoder(table)
	So(err, ShouldBeNil)
	records := make([]*record.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := decoder.Decode(i, row)
		So(err, ShouldBeNil)
		records = append(records, rec)
	}
	return records
}

func TestJSONFileSink(t *testing.T) {
	Convey("JSONFileSink", t, func() {
		dir := t.TempDir()
		table := itemTable()

		Convey("每张表一个文件，属性顺序和缩进符合约定", func() {
			s, err := NewJSONFileSinkWithOptions(&JSONFileSinkOptions{Dir: dir})
			So(err, ShouldBeNil)

			records := decodeRows(table,
				wire.NewWriter().
					WriteTag(1, wire.KindVarint).WriteVarint(7).
					WriteTag(2, wire.KindBytes).WriteString("东").
					WriteTag(2, wire.KindBytes).WriteString("b").
					Bytes(),
				wire.NewWriter().WriteTag(1, wire.KindVarint).WriteVarint(9).Bytes(),
			)
			So(s.Write("ItemV3", table, records), ShouldBeNil)
			So(s.Close(), ShouldBeNil)

			data, err := os.ReadFile(filepath.Join(dir, "ItemV3.json"))
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `[
    {
        "id": 7,
        "tags": [
            "东",
            "b"
        ]
    },
    {
        "id": 9,
        "tags": []
    }
]
`)
		})

		Convey("空表输出空数组", func() {
			s, err := NewJSONFileSinkWithOptions(&JSONFileSinkOptions{Dir: dir, Indent: 2})
			So(err, ShouldBeNil)
			So(s.Write("ItemV3", table, nil), ShouldBeNil)

			data, err := os.ReadFile(filepath.Join(dir, "ItemV3.json"))
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "[]\n")
		})

		Convey("配置缺少目录", func() {
			_, err := NewJSONFileSinkWithOptions(&JSONFileSinkOptions{})
			So(err, ShouldNotBeNil)
			_, err = NewJSONFileSinkWithOptions(nil)
			So(err, ShouldNotBeNil)
		})
	})
}
