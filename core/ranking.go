package core

// RankedItem 是排名中的一条记录：(用户外部 ID, 物品外部 ID, 分数)。
type RankedItem struct {
	User  string
	Item  string
	Score float64
}

// Ranking 是管线的输出工件：有序的推荐列表（按用户分段、段内按分数降序）。
// 由具体算法产出，管线核心只负责转发与持久化。
type Ranking []RankedItem

// ByUser 按用户切分排名，保持段内顺序。
func (r Ranking) ByUser() map[string][]RankedItem {
	out := make(map[string][]RankedItem)
	for _, item := range r {
		out[item.User] = append(out[item.User], item)
	}
	return out
}

// EvalResult 是评估结果："METRIC@k" -> 分数。
// 由编排器在单次运行内持有，下一次运行整体替换。
type EvalResult map[string]float64
