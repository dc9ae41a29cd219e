package sink

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/4n3u/Majsoul-Data/record"
	"github.com/4n3u/Majsoul-Data/schema"
)

// JSONFileSinkOptions JSON 文件输出配置
type JSONFileSinkOptions struct {
	// Dir 输出目录，每张表写一个 <key>.json
	Dir string `cfg:"dir" validate:"required"`
	// Indent 缩进空格数，默认为 4
	Indent int `cfg:"indent" validate:"omitempty,min=0,max=16"`
}

// JSONFileSink 每张表输出一个对象数组 JSON 文件。
// 对象属性顺序跟随模式字段顺序，非 ASCII 字符不做转义。
type JSONFileSink struct {
	dir    string
	indent string
}

// NewJSONFileSinkWithOptions 创建 JSON 文件输出端并确保输出目录存在
func NewJSONFileSinkWithOptions(options *JSONFileSinkOptions) (*JSONFileSink, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	if options.Dir == "" {
		return nil, errors.New("dir cannot be empty")
	}
	indent := options.Indent
	if indent == 0 {
		indent = 4
	}
	if err := os.MkdirAll(options.Dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "os.MkdirAll failed. dir: %s", options.Dir)
	}
	return &JSONFileSink{
		dir:    options.Dir,
		indent: strings.Repeat(" ", indent),
	}, nil
}

func (s *JSONFileSink) Write(key string, table *schema.Table, records []*record.Record) error {
	if records == nil {
		records = []*record.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", s.indent)
	if err := enc.Encode(records); err != nil {
		return errors.Wrapf(err, "encode records failed. key: %s", key)
	}

	path := filepath.Join(s.dir, key+".json")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "os.WriteFile failed. path: %s", path)
	}
	return nil
}

func (s *JSONFileSink) Close() error {
	return nil
}
