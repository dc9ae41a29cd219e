package fetch

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// LoadVersion 读取本地缓存的版本文件，文件不存在时返回 (nil, nil)
func LoadVersion(path string) (*Version, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "os.ReadFile failed. path: %s", path)
	}
	version := &Version{}
	if err := json.Unmarshal(data, version); err != nil {
		return nil, errors.Wrapf(err, "unmarshal version cache failed. path: %s", path)
	}
	return version, nil
}

// SaveVersion 把版本写入本地缓存文件
func SaveVersion(path string, version *Version) error {
	data, err := json.Marshal(version)
	if err != nil {
		return errors.Wrap(err, "marshal version failed")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "os.WriteFile failed. path: %s", path)
	}
	return nil
}
