// Package store 提供 core.Store 的具体实现。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//	var s core.Store = store.NewMemoryStore()
package store

import "github.com/rushteam/recbatch/core"

// ErrNotFound 是 key 不存在的哨兵错误（统一指向 core 的领域错误）。
var ErrNotFound = core.ErrStoreNotFound
