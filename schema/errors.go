package schema

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedBundle 数据包缺少必需的顶层标签，整个运行无法继续
	ErrMalformedBundle = errors.New("malformed bundle")

	// ErrUnsupportedFieldType 模式声明了可识别集合之外的类型名
	ErrUnsupportedFieldType = errors.New("unsupported field type")

	// ErrDuplicateFieldIndex 同一张表内出现重复的字段索引
	ErrDuplicateFieldIndex = errors.New("duplicate field index")

	// ErrInvalidFieldIndex 字段索引为 0
	ErrInvalidFieldIndex = errors.New("field index must be greater than zero")
)

// SchemaError 定位到具体表和字段的模式错误。
// 模式错误不会被静默丢弃：带宽度猜测的降级会破坏该表之后的所有字段解码。
type SchemaError struct {
	Table string
	Sheet string
	Field string
	Cause error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in %s.%s field %q: %v", e.Table, e.Sheet, e.Field, e.Cause)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}
