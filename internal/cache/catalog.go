package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const catalogVersionKey = "catalog:version"

// CatalogVersion 读取商品目录缓存版本号
// 目录缓存 key 带版本号，商品变更时整体递增即可让旧缓存失效。
func CatalogVersion(ctx context.Context) (int64, error) {
	if !Enabled() {
		return 0, nil
	}
	version, err := redisClient.Get(ctx, BuildKey(catalogVersionKey)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// BumpCatalogVersion 递增商品目录缓存版本号
func BumpCatalogVersion(ctx context.Context) error {
	if !Enabled() {
		return nil
	}
	return redisClient.Incr(ctx, BuildKey(catalogVersionKey)).Err()
}

// CatalogKey 构建带版本号的目录缓存 key
func CatalogKey(version int64, parts ...interface{}) string {
	key := fmt.Sprintf("catalog:v%d", version)
	for _, part := range parts {
		key = fmt.Sprintf("%s:%v", key, part)
	}
	return key
}
