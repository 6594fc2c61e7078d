package core

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Interaction 是一条原始交互记录：(用户, 物品, 反馈值)。
// 反馈值可以是评分、点击次数、时长等，语义由数据源决定。
type Interaction struct {
	User  string
	Item  string
	Value float64
}

// Dataset 是交互数据的统一内存结构，由 DataReader 产出、管线各阶段消费。
//
// 设计要点：
//   - Users / Items 是去重后按自然序排序的外部 ID 列表（排序保证下游映射可复现）
//   - Feedback 按用户聚合：user -> item -> value；重复 (user,item) 后写覆盖前写
//   - Sparsity = 1 - NumInteractions / (|Users| * |Items|)
//   - Dataset 构建后视为只读，管线不会原地修改
type Dataset struct {
	Users           []string
	Items           []string
	Feedback        map[string]map[string]float64
	NumInteractions int
	Sparsity        float64

	// 反馈值统计，供诊断输出与上层算法（如均值基线）使用
	MeanValue float64
	MaxValue  float64
	MinValue  float64
}

// NewDataset 从交互记录列表构建 Dataset。
// asBinary 为 true 时将所有正反馈值钳为 1（只保留"有无"，丢弃强度）。
func NewDataset(interactions []Interaction, asBinary bool) *Dataset {
	feedback := make(map[string]map[string]float64)
	itemSet := make(map[string]struct{})

	for _, in := range interactions {
		value := in.Value
		if asBinary && value > 0 {
			value = 1
		}
		if feedback[in.User] == nil {
			feedback[in.User] = make(map[string]float64)
		}
		// 后写覆盖前写
		feedback[in.User][in.Item] = value
		itemSet[in.Item] = struct{}{}
	}

	users := make([]string, 0, len(feedback))
	for user := range feedback {
		users = append(users, user)
	}
	sort.Strings(users)

	items := make([]string, 0, len(itemSet))
	for item := range itemSet {
		items = append(items, item)
	}
	sort.Strings(items)

	ds := &Dataset{
		Users:    users,
		Items:    items,
		Feedback: feedback,
	}

	values := make([]float64, 0, len(interactions))
	for _, userFeedback := range feedback {
		ds.NumInteractions += len(userFeedback)
		for _, v := range userFeedback {
			values = append(values, v)
		}
	}

	if len(users) > 0 && len(items) > 0 {
		ds.Sparsity = 1 - float64(ds.NumInteractions)/float64(len(users)*len(items))
	}
	if len(values) > 0 {
		ds.MeanValue = stat.Mean(values, nil)
		ds.MaxValue = values[0]
		ds.MinValue = values[0]
		for _, v := range values[1:] {
			if v > ds.MaxValue {
				ds.MaxValue = v
			}
			if v < ds.MinValue {
				ds.MinValue = v
			}
		}
	}
	return ds
}

// Value 返回 (user, item) 的反馈值；不存在时返回 0。
func (ds *Dataset) Value(user, item string) float64 {
	return ds.Feedback[user][item]
}

// Has 判断 (user, item) 交互是否存在。
func (ds *Dataset) Has(user, item string) bool {
	_, ok := ds.Feedback[user][item]
	return ok
}
