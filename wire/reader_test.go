package wire

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestReaderReadVarint(t *testing.T) {
	Convey("Reader.ReadVarint", t, func() {
		Convey("单字节值", func() {
			r := NewReader([]byte{0x00})
			v, err := r.ReadVarint()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0)
			So(r.AtEnd(), ShouldBeTrue)

			r = NewReader([]byte{0x7f})
			v, err = r.ReadVarint()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 127)
		})

		Convey("多字节值", func() {
			r := NewReader([]byte{0x96, 0x01})
			v, err := r.ReadVarint()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 150)
		})

		Convey("与 protowire 参考实现交叉验证", func() {
			for _, want := range []uint64{0, 1, 127, 128, 300, 1<<32 - 1, 1 << 40, 1<<64 - 1} {
				buf := protowire.AppendVarint(nil, want)
				r := NewReader(buf)
				got, err := r.ReadVarint()
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
				So(r.AtEnd(), ShouldBeTrue)
			}
		})

		Convey("缓冲区在终止字节前结束", func() {
			r := NewReader([]byte{0x80, 0x80})
			_, err := r.ReadVarint()
			So(errors.Is(err, ErrTruncated), ShouldBeTrue)
		})

		Convey("空缓冲区", func() {
			r := NewReader(nil)
			_, err := r.ReadVarint()
			So(errors.Is(err, ErrTruncated), ShouldBeTrue)
		})

		Convey("超过 10 个延续字节", func() {
			buf := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}
			r := NewReader(buf)
			_, err := r.ReadVarint()
			So(errors.Is(err, ErrVarintOverflow), ShouldBeTrue)
		})
	})
}

func TestReaderReadTag(t *testing.T) {
	Convey("Reader.ReadTag", t, func() {
		Convey("拆分字段索引和编码类别", func() {
			buf := protowire.AppendTag(nil, 2, protowire.BytesType)
			r := NewReader(buf)
			index, kind, err := r.ReadTag()
			So(err, ShouldBeNil)
			So(index, ShouldEqual, 2)
			So(kind, ShouldEqual, KindBytes)
		})

		Convey("四种编码类别都可识别", func() {
			for _, kind := range []Kind{KindVarint, KindFixed64, KindBytes, KindFixed32} {
				buf := NewWriter().WriteTag(7, kind).Bytes()
				r := NewReader(buf)
				index, got, err := r.ReadTag()
				So(err, ShouldBeNil)
				So(index, ShouldEqual, 7)
				So(got, ShouldEqual, kind)
			}
		})

		Convey("不可识别的编码类别", func() {
			for _, kind := range []byte{3, 4, 6, 7} {
				r := NewReader([]byte{1<<3 | kind})
				_, _, err := r.ReadTag()
				So(errors.Is(err, ErrUnknownKind), ShouldBeTrue)
			}
		})

		Convey("字段索引为 0", func() {
			r := NewReader([]byte{0x00})
			_, _, err := r.ReadTag()
			So(errors.Is(err, ErrZeroFieldIndex), ShouldBeTrue)
		})
	})
}

func TestReaderReadBytes(t *testing.T) {
	Convey("Reader.ReadBytes", t, func() {
		Convey("返回声明长度的视图", func() {
			buf := NewWriter().WriteString("hello").WriteString("").WriteString("x").Bytes()
			r := NewReader(buf)

			b, err := r.ReadBytes()
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "hello")

			b, err = r.ReadBytes()
			So(err, ShouldBeNil)
			So(len(b), ShouldEqual, 0)

			b, err = r.ReadBytes()
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "x")
			So(r.AtEnd(), ShouldBeTrue)
		})

		Convey("声明长度超过剩余字节", func() {
			r := NewReader([]byte{0x05, 'a', 'b'})
			_, err := r.ReadBytes()
			So(errors.Is(err, ErrTruncated), ShouldBeTrue)
		})

		Convey("声明长度溢出", func() {
			buf := protowire.AppendVarint(nil, 1<<63)
			r := NewReader(buf)
			_, err := r.ReadBytes()
			So(errors.Is(err, ErrTruncated), ShouldBeTrue)
		})
	})
}

func TestReaderReadFixed(t *testing.T) {
	Convey("Reader.ReadFixed32/ReadFixed64", t, func() {
		Convey("小端读取", func() {
			buf := protowire.AppendFixed32(nil, 0xdeadbeef)
			r := NewReader(buf)
			v32, err := r.ReadFixed32()
			So(err, ShouldBeNil)
			So(v32, ShouldEqual, uint32(0xdeadbeef))

			buf = protowire.AppendFixed64(nil, 0x0102030405060708)
			r = NewReader(buf)
			v64, err := r.ReadFixed64()
			So(err, ShouldBeNil)
			So(v64, ShouldEqual, uint64(0x0102030405060708))
		})

		Convey("字节数不足", func() {
			r := NewReader([]byte{1, 2, 3})
			_, err := r.ReadFixed32()
			So(errors.Is(err, ErrTruncated), ShouldBeTrue)

			r = NewReader([]byte{1, 2, 3, 4, 5, 6, 7})
			_, err = r.ReadFixed64()
			So(errors.Is(err, ErrTruncated), ShouldBeTrue)
		})
	})
}

func TestReaderSkip(t *testing.T) {
	Convey("Reader.Skip", t, func() {
		Convey("跳过各编码类别的值", func() {
			buf := NewWriter().
				WriteTag(1, KindVarint).WriteVarint(300).
				WriteTag(2, KindFixed64).WriteFixed64(1).
				WriteTag(3, KindBytes).WriteString("skip me").
				WriteTag(4, KindFixed32).WriteFixed32(1).
				WriteTag(5, KindVarint).WriteVarint(42).
				Bytes()
			r := NewReader(buf)
			for i := 0; i < 4; i++ {
				_, kind, err := r.ReadTag()
				So(err, ShouldBeNil)
				So(r.Skip(kind), ShouldBeNil)
			}

			index, _, err := r.ReadTag()
			So(err, ShouldBeNil)
			So(index, ShouldEqual, 5)
			v, err := r.ReadVarint()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 42)
			So(r.AtEnd(), ShouldBeTrue)
		})

		Convey("跳过被截断的值", func() {
			r := NewReader([]byte{0x0a, 'a'})
			So(errors.Is(r.Skip(KindBytes), ErrTruncated), ShouldBeTrue)
		})
	})
}

func TestZigZag(t *testing.T) {
	Convey("ZigZag 编解码", t, func() {
		Convey("与 protowire 参考实现一致", func() {
			for _, v := range []int64{0, -1, 1, -2, 2, 1<<62 - 1, -(1 << 62), 1<<63 - 1, -(1 << 63)} {
				So(EncodeZigZag(v), ShouldEqual, protowire.EncodeZigZag(v))
				So(DecodeZigZag(EncodeZigZag(v)), ShouldEqual, v)
			}
		})
	})
}
