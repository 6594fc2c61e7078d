// Package matrix 负责稠密反馈矩阵的物化。
//
// 矩阵形状为 |Users| x |Items|，内存开销随之平方级增长——这是刻意的取舍：
// 用内存换取下游相似度计算的无分支扫描。超大目录场景应视其为已知的
// 扩展上限，而不是悄悄替换成稀疏结构（那是另一份契约）。
package matrix

import (
	"fmt"

	"github.com/rushteam/recbatch/core"
)

// Build 分配一个全零的 |Users| x |Items| 稠密矩阵，并按
// cell(map(user), map(item)) = value 填充训练集中的每条交互。
//
// 填充使用赋值语义：重复 (user,item) 后写覆盖前写。
// 交互引用了映射之外的实体时返回 UNMAPPED_ENTITY——这说明 reader 与
// indexer 之间出现不一致，属于编程错误，绝不静默扩张矩阵。
func Build(train *core.Dataset, users, items core.IDMapper) ([][]float64, error) {
	m := make([][]float64, users.Len())
	for i := range m {
		m[i] = make([]float64, items.Len())
	}

	for _, user := range train.Users {
		u, ok := users.Index(user)
		if !ok {
			return nil, core.NewDomainError(core.ModuleMatrix, core.ErrorCodeUnmappedEntity,
				fmt.Sprintf("matrix: user %q is not in the identifier universe", user))
		}
		for item, value := range train.Feedback[user] {
			i, ok := items.Index(item)
			if !ok {
				return nil, core.NewDomainError(core.ModuleMatrix, core.ErrorCodeUnmappedEntity,
					fmt.Sprintf("matrix: item %q is not in the identifier universe", item))
			}
			m[u][i] = value
		}
	}
	return m, nil
}

// Sum 返回矩阵所有元素之和（测试与诊断用）。
func Sum(m [][]float64) float64 {
	var s float64
	for _, row := range m {
		for _, v := range row {
			s += v
		}
	}
	return s
}
