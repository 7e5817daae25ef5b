package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when no object exists under the key.
var ErrNotFound = errors.New("storage: object not found")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key        string
	Size       int64
	ModifiedAt time.Time
}

// Storage はアップロードファイルの保存・削除を抽象化するインターフェース。
// ローカルファイルシステム実装の他、S3 / Cloudflare R2 等に差し替え可能。
type Storage interface {
	// Save はファイルを保存し、公開 URL と書き込んだバイト数を返す。
	// key はストレージ内の一意パス (例: "avatars/<uuid>.jpg")。
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, size int64, err error)

	// Delete は key に対応するファイルを削除する。存在しない場合は ErrNotFound。
	Delete(ctx context.Context, key string) error

	// Stat は key のメタデータを返す。
	Stat(ctx context.Context, key string) (*ObjectInfo, error)

	// Open は key の内容を読み出す。呼び出し側が Close する。
	Open(ctx context.Context, key string) (io.ReadSeekCloser, *ObjectInfo, error)

	// URL は key の公開 URL を返す。
	URL(key string) string
}
