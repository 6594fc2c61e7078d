package filter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/recbatch/core"
)

// Blacklist 是黑名单过滤器：丢弃命中黑名单的用户或物品的交互。
//
// 名单在构造期加载进内存，Keep 求值不触达存储。
type Blacklist struct {
	users map[string]struct{}
	items map[string]struct{}
}

// NewBlacklist 用内存名单创建黑名单过滤器。
func NewBlacklist(users, items []string) *Blacklist {
	f := &Blacklist{
		users: make(map[string]struct{}, len(users)),
		items: make(map[string]struct{}, len(items)),
	}
	for _, u := range users {
		f.users[u] = struct{}{}
	}
	for _, i := range items {
		f.items[i] = struct{}{}
	}
	return f
}

// LoadBlacklist 从存储加载名单并创建过滤器。
//
// key 结构（JSON 负载）：
//   - {keyPrefix}:users -> []string 用户黑名单
//   - {keyPrefix}:items -> []string 物品黑名单
//
// key 缺失视为空名单，负载不可解析返回错误。
func LoadBlacklist(ctx context.Context, s core.Store, keyPrefix string) (*Blacklist, error) {
	if keyPrefix == "" {
		keyPrefix = "blacklist"
	}

	users, err := loadList(ctx, s, keyPrefix+":users")
	if err != nil {
		return nil, err
	}
	items, err := loadList(ctx, s, keyPrefix+":items")
	if err != nil {
		return nil, err
	}
	return NewBlacklist(users, items), nil
}

func loadList(ctx context.Context, s core.Store, key string) ([]string, error) {
	data, err := s.Get(ctx, key)
	if core.IsStoreNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filter: load blacklist %s from %s: %w", key, s.Name(), err)
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("filter: decode blacklist %s: %w", key, err)
	}
	return list, nil
}

// Keep 实现 core.InteractionFilter：用户或物品在名单中时丢弃。
func (f *Blacklist) Keep(user, item string, _ float64) (bool, error) {
	if _, ok := f.users[user]; ok {
		return false, nil
	}
	if _, ok := f.items[item]; ok {
		return false, nil
	}
	return true, nil
}

// Chain 把多个过滤器组合成一个：全部通过才保留。
type Chain []core.InteractionFilter

func (c Chain) Keep(user, item string, value float64) (bool, error) {
	for _, f := range c {
		keep, err := f.Keep(user, item, value)
		if err != nil {
			return false, err
		}
		if !keep {
			return false, nil
		}
	}
	return true, nil
}
