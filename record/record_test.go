package record

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/4n3u/Majsoul-Data/schema"
	"github.com/4n3u/Majsoul-Data/wire"
)

func TestRecordMarshalJSON(t *testing.T) {
	Convey("Record.MarshalJSON", t, func() {
		Convey("属性顺序跟随模式字段顺序", func() {
			table := &schema.Table{
				Name: "item", Sheet: "v3",
				Fields: []schema.Field{
					{Name: "zzz", Type: schema.TypeInt32, Index: 1},
					{Name: "aaa", Type: schema.TypeString, Index: 2},
					{Name: "mmm", Type: schema.TypeBool, Index: 3},
				},
			}
			row := wire.NewWriter().
				WriteTag(1, wire.KindVarint).WriteVarint(1).
				WriteTag(2, wire.KindBytes).WriteString("x").
				WriteTag(3, wire.KindVarint).WriteVarint(1).
				Bytes()
			rec, err := mustDecoder(table).Decode(0, row)
			So(err, ShouldBeNil)

			out, err := json.Marshal(rec)
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, `{"zzz":1,"aaa":"x","mmm":true}`)
		})

		Convey("重复字段输出为数组，非 ASCII 字符不转义", func() {
			rec, err := mustDecoder(itemTable()).Decode(0, wire.NewWriter().
				WriteTag(2, wire.KindBytes).WriteString("东风").
				Bytes())
			So(err, ShouldBeNil)

			out, err := json.Marshal(rec)
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, `{"id":0,"tags":["东风"]}`)
		})
	})
}

func TestRecordEncodeMsgpack(t *testing.T) {
	Convey("Record.EncodeMsgpack", t, func() {
		Convey("输出可还原为同内容的 map", func() {
			row := wire.NewWriter().
				WriteTag(1, wire.KindVarint).WriteVarint(42).
				WriteTag(2, wire.KindBytes).WriteString("a").
				Bytes()
			rec, err := mustDecoder(itemTable()).Decode(0, row)
			So(err, ShouldBeNil)

			buf, err := msgpack.Marshal(rec)
			So(err, ShouldBeNil)

			var m map[string]any
			So(msgpack.Unmarshal(buf, &m), ShouldBeNil)
			So(m["id"], ShouldEqual, int64(42))
			So(m["tags"], ShouldResemble, []any{"a"})
		})
	})
}

func TestRecordRoundTrip(t *testing.T) {
	Convey("编码再解码还原所有支持的类型", t, func() {
		table := &schema.Table{
			Name: "all", Sheet: "types",
			Fields: []schema.Field{
				{Name: "a", Type: schema.TypeInt32, Index: 1},
				{Name: "b", Type: schema.TypeInt64, Index: 2},
				{Name: "c", Type: schema.TypeUint32, Index: 3},
				{Name: "d", Type: schema.TypeUint64, Index: 4},
				{Name: "e", Type: schema.TypeSint32, Index: 5},
				{Name: "f", Type: schema.TypeSint64, Index: 6},
				{Name: "g", Type: schema.TypeBool, Index: 7},
				{Name: "h", Type: schema.TypeFixed32, Index: 8},
				{Name: "i", Type: schema.TypeFixed64, Index: 9},
				{Name: "j", Type: schema.TypeSfixed32, Index: 10},
				{Name: "k", Type: schema.TypeSfixed64, Index: 11},
				{Name: "l", Type: schema.TypeFloat, Index: 12},
				{Name: "m", Type: schema.TypeDouble, Index: 13},
				{Name: "n", Type: schema.TypeString, Index: 14},
				{Name: "o", Type: schema.TypeBytes, Index: 15},
				{Name: "p", Type: schema.TypeInt32, Index: 16, Repeated: true},
			},
		}
		row := wire.NewWriter().
			WriteTag(1, wire.KindVarint).WriteVarint(uint64(1<<64 - 5)). // int32(-5) 符号扩展
			WriteTag(2, wire.KindVarint).WriteVarint(123456789).
			WriteTag(3, wire.KindVarint).WriteVarint(77).
			WriteTag(4, wire.KindVarint).WriteVarint(1<<63 + 1).
			WriteTag(5, wire.KindVarint).WriteVarint(wire.EncodeZigZag(-3)).
			WriteTag(6, wire.KindVarint).WriteVarint(wire.EncodeZigZag(3)).
			WriteTag(7, wire.KindVarint).WriteVarint(1).
			WriteTag(8, wire.KindFixed32).WriteFixed32(8).
			WriteTag(9, wire.KindFixed64).WriteFixed64(9).
			WriteTag(10, wire.KindFixed32).WriteFixed32(0xfffffff6). // -10
			WriteTag(11, wire.KindFixed64).WriteFixed64(11).
			WriteTag(12, wire.KindFixed32).WriteFloat(0.5).
			WriteTag(13, wire.KindFixed64).WriteDouble(-13.5).
			WriteTag(14, wire.KindBytes).WriteString("东风").
			WriteTag(15, wire.KindBytes).WriteBytes([]byte{0xde, 0xad}).
			WriteTag(16, wire.KindVarint).WriteVarint(1).
			WriteTag(16, wire.KindVarint).WriteVarint(2).
			Bytes()

		rec, err := mustDecoder(table).Decode(0, row)
		So(err, ShouldBeNil)
		So(rec.Map(), ShouldResemble, map[string]any{
			"a": int64(-5),
			"b": int64(123456789),
			"c": uint64(77),
			"d": uint64(1<<63 + 1),
			"e": int64(-3),
			"f": int64(3),
			"g": true,
			"h": uint64(8),
			"i": uint64(9),
			"j": int64(-10),
			"k": int64(11),
			"l": float64(0.5),
			"m": float64(-13.5),
			"n": "东风",
			"o": []byte{0xde, 0xad},
			"p": []any{int64(1), int64(2)},
		})
	})
}
