// Package index 实现外部标识符到稠密下标的双向映射。
//
// 采用 arena+index 结构：一个按自然序排序的外部 ID 切片（稠密下标 -> 外部 ID）
// 加一个哈希映射（外部 ID -> 稠密下标），两者由同一次构建产生，天然一致，
// 避免维护两份独立字典。
package index

import (
	"fmt"
	"sort"

	"github.com/rushteam/recbatch/core"
)

// Indexer 是一类实体（用户或物品）的全量双射。
//
// 不变式：
//   - 映射覆盖且仅覆盖构建时观测到的实体
//   - 下标为 0..Len()-1，按外部 ID 自然序分配（可复现）
//   - 构建之后不再变更；同一次运行内训练侧与测试侧查同一份映射
type Indexer struct {
	ids   []string       // 稠密下标 -> 外部 ID
	index map[string]int // 外部 ID -> 稠密下标
}

// New 从外部 ID 列表构建 Indexer（去重并按自然序排序后分配下标）。
func New(ids []string) *Indexer {
	uniq := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		uniq[id] = struct{}{}
	}
	sorted := make([]string, 0, len(uniq))
	for id := range uniq {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	idx := &Indexer{
		ids:   sorted,
		index: make(map[string]int, len(sorted)),
	}
	for i, id := range sorted {
		idx.index[id] = i
	}
	return idx
}

// Index 返回外部 ID 对应的稠密下标。
func (x *Indexer) Index(id string) (int, bool) {
	i, ok := x.index[id]
	return i, ok
}

// ID 返回稠密下标对应的外部 ID；越界时返回空串。
func (x *Indexer) ID(i int) string {
	if i < 0 || i >= len(x.ids) {
		return ""
	}
	return x.ids[i]
}

// Len 返回映射中的实体数。
func (x *Indexer) Len() int {
	return len(x.ids)
}

// IDs 返回按稠密下标排列的外部 ID 列表（只读视图，调用方不得修改）。
func (x *Indexer) IDs() []string {
	return x.ids
}

// Build 从训练集（必选）与测试集（可选）构建用户和物品的 Indexer。
//
// 全集规则：无测试集时全集就是训练集实体；有测试集时取两者并集，
// 仅出现在测试集中的实体同样获得下标（其矩阵行/列为全零）。
// 训练集实体全集为空时返回 MISSING_DATA。
func Build(train, test *core.Dataset) (users, items *Indexer, err error) {
	if train == nil || len(train.Users) == 0 {
		return nil, nil, core.NewDomainError(core.ModuleIndex, core.ErrorCodeMissingData,
			"index: train interaction set is empty")
	}

	if test == nil {
		return New(train.Users), New(train.Items), nil
	}

	users = New(append(append([]string{}, train.Users...), test.Users...))
	items = New(append(append([]string{}, train.Items...), test.Items...))
	return users, items, nil
}

// String 便于调试输出。
func (x *Indexer) String() string {
	return fmt.Sprintf("index.Indexer(%d entities)", len(x.ids))
}
