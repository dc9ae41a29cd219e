package sink

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/4n3u/Majsoul-Data/record"
	"github.com/4n3u/Majsoul-Data/schema"
)

// BoltDBSinkOptions BoltDB 输出配置
type BoltDBSinkOptions struct {
	// DBPath 数据库文件路径，不存在时自动创建
	DBPath string `cfg:"dbPath" validate:"required"`
	// Timeout 获取文件锁的等待时间，为零时无限期等待
	Timeout time.Duration `cfg:"timeout"`
	// NoSync 设置 DB.NoSync，导出是一次性批量写入，跳过逐事务刷盘可以明显加速
	NoSync bool `cfg:"noSync"`
}

// BoltDBSink 将每张表写入一个以归一化键命名的 bucket。
// 行按 8 字节大端行号为键，值为 msgpack 编码的记录，保持原始行顺序可遍历。
type BoltDBSink struct {
	db *bolt.DB
}

// NewBoltDBSinkWithOptions 打开（或创建）数据库文件
func NewBoltDBSinkWithOptions(options *BoltDBSinkOptions) (*BoltDBSink, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	if options.DBPath == "" {
		return nil, errors.New("dbPath cannot be empty")
	}

	db, err := bolt.Open(options.DBPath, 0600, &bolt.Options{
		Timeout: options.Timeout,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "bolt.Open failed. dbPath: %s", options.DBPath)
	}
	db.NoSync = options.NoSync

	return &BoltDBSink{db: db}, nil
}

func (s *BoltDBSink) Write(key string, table *schema.Table, records []*record.Record) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		// 重复导出时覆盖整个 bucket，避免残留上一版本的行
		if tx.Bucket([]byte(key)) != nil {
			if err := tx.DeleteBucket([]byte(key)); err != nil {
				return errors.Wrapf(err, "tx.DeleteBucket failed. bucket: %s", key)
			}
		}
		bucket, err := tx.CreateBucket([]byte(key))
		if err != nil {
			return errors.Wrapf(err, "tx.CreateBucket failed. bucket: %s", key)
		}

		var rowKey [8]byte
		for i, rec := range records {
			val, err := msgpack.Marshal(rec)
			if err != nil {
				return errors.Wrapf(err, "msgpack.Marshal failed. bucket: %s, row: %d", key, i)
			}
			binary.BigEndian.PutUint64(rowKey[:], uint64(i))
			if err := bucket.Put(rowKey[:], val); err != nil {
				return errors.Wrapf(err, "bucket.Put failed. bucket: %s, row: %d", key, i)
			}
		}
		return nil
	})
}

func (s *BoltDBSink) Close() error {
	return s.db.Close()
}
