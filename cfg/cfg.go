// Package cfg 从配置文件加载带 cfg 标签的配置结构体。
// 文件格式由扩展名决定，解码后统一走一次字段映射和结构体校验。
package cfg

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Load 读取配置文件并填充 v，v 必须是结构体指针。
// 支持 .json / .yaml / .yml / .toml / .ini，解码完成后按 validate 标签校验。
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "os.ReadFile failed. path: %s", path)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return errors.Wrapf(err, "decode json failed. path: %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return errors.Wrapf(err, "decode yaml failed. path: %s", path)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return errors.Wrapf(err, "decode toml failed. path: %s", path)
		}
	case ".ini":
		raw, err = decodeIni(data)
		if err != nil {
			return errors.Wrapf(err, "decode ini failed. path: %s", path)
		}
	default:
		return errors.Errorf("unsupported config extension: %s", filepath.Ext(path))
	}

	if err := convertTo(raw, v); err != nil {
		return errors.WithMessagef(err, "convert config failed. path: %s", path)
	}
	if err := validateStruct(v); err != nil {
		return errors.WithMessagef(err, "validate config failed. path: %s", path)
	}
	return nil
}

// decodeIni 把 ini 文件展开为两层 map：节名到键值，默认节的键在顶层
func decodeIni(data []byte) (map[string]any, error) {
	file, err := ini.Load(data)
	if err != nil {
		return nil, err
	}
	raw := map[string]any{}
	for _, section := range file.Sections() {
		keys := map[string]any{}
		for _, key := range section.Keys() {
			keys[key.Name()] = key.Value()
		}
		if section.Name() == ini.DefaultSection {
			for k, v := range keys {
				raw[k] = v
			}
			continue
		}
		raw[section.Name()] = keys
	}
	return raw, nil
}
