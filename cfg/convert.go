package cfg

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var durationType = reflect.TypeOf(time.Duration(0))

// convertTo 把解码得到的泛型数据填充到目标结构体。
// 结构体字段按 cfg 标签匹配键名，没有标签时按字段名大小写不敏感匹配。
func convertTo(data any, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("target must be a non-nil pointer")
	}
	return convertValue(rv.Elem(), data, "")
}

func convertValue(value reflect.Value, data any, path string) error {
	if data == nil {
		return nil
	}

	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			value.Set(reflect.New(value.Type().Elem()))
		}
		return convertValue(value.Elem(), data, path)
	}

	if value.Type() == durationType {
		return convertDuration(value, data, path)
	}

	switch value.Kind() {
	case reflect.Struct:
		return convertStruct(value, data, path)
	case reflect.Slice:
		seq, ok := data.([]any)
		if !ok {
			return errors.Errorf("%s: expect sequence, got %T", path, data)
		}
		out := reflect.MakeSlice(value.Type(), len(seq), len(seq))
		for i, elem := range seq {
			if err := convertValue(out.Index(i), elem, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
		value.Set(out)
		return nil
	case reflect.Map:
		m, ok := data.(map[string]any)
		if !ok || value.Type().Key().Kind() != reflect.String {
			return errors.Errorf("%s: expect mapping, got %T", path, data)
		}
		out := reflect.MakeMapWithSize(value.Type(), len(m))
		for k, elem := range m {
			ev := reflect.New(value.Type().Elem()).Elem()
			if err := convertValue(ev, elem, path+"."+k); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k), ev)
		}
		value.Set(out)
		return nil
	case reflect.String:
		s, ok := data.(string)
		if !ok {
			return errors.Errorf("%s: expect string, got %T", path, data)
		}
		value.SetString(s)
		return nil
	case reflect.Bool:
		return convertBool(value, data, path)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(data)
		if err != nil {
			return errors.WithMessage(err, path)
		}
		value.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toInt64(data)
		if err != nil || n < 0 {
			return errors.Errorf("%s: expect non-negative integer, got %v", path, data)
		}
		value.SetUint(uint64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(data)
		if err != nil {
			return errors.WithMessage(err, path)
		}
		value.SetFloat(f)
		return nil
	case reflect.Interface:
		value.Set(reflect.ValueOf(data))
		return nil
	}
	return errors.Errorf("%s: unsupported target kind %s", path, value.Kind())
}

func convertStruct(value reflect.Value, data any, path string) error {
	m, ok := data.(map[string]any)
	if !ok {
		return errors.Errorf("%s: expect mapping, got %T", path, data)
	}
	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("cfg")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		raw, ok := lookupKey(m, name)
		if !ok {
			continue
		}
		if err := convertValue(value.Field(i), raw, path+"."+name); err != nil {
			return err
		}
	}
	return nil
}

func lookupKey(m map[string]any, name string) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func convertDuration(value reflect.Value, data any, path string) error {
	switch d := data.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return errors.Wrapf(err, "%s: parse duration failed", path)
		}
		value.SetInt(int64(parsed))
		return nil
	default:
		// 无单位的数值按纳秒处理
		n, err := toInt64(data)
		if err != nil {
			return errors.WithMessage(err, path)
		}
		value.SetInt(n)
		return nil
	}
}

func convertBool(value reflect.Value, data any, path string) error {
	switch b := data.(type) {
	case bool:
		value.SetBool(b)
		return nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return errors.Wrapf(err, "%s: parse bool failed", path)
		}
		value.SetBool(parsed)
		return nil
	}
	return errors.Errorf("%s: expect bool, got %T", path, data)
}

func toInt64(data any) (int64, error) {
	switch n := data.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, errors.Wrap(err, "parse integer failed")
		}
		return parsed, nil
	}
	return 0, errors.Errorf("expect integer, got %T", data)
}

func toFloat64(data any) (float64, error) {
	switch n := data.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, errors.Wrap(err, "parse float failed")
		}
		return parsed, nil
	}
	return 0, errors.Errorf("expect float, got %T", data)
}
