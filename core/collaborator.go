package core

import "context"

// DataReader 是交互数据源的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（reader）实现
//   - 数据源可以是分隔文本文件、内存表格或 KV 存储
//   - Read 每次调用都产出一个全新的 Dataset，管线不跨运行复用
type DataReader interface {
	Read(ctx context.Context) (*Dataset, error)
}

// RankingWriter 输出最终排名（writer 包实现）。
// 未配置输出目标时，管线整体跳过写出阶段。
type RankingWriter interface {
	Write(ctx context.Context, ranking Ranking) error
}

// IDMapper 是外部 ID 与稠密下标之间的双射（index 包实现）。
type IDMapper interface {
	// Index 返回外部 ID 对应的稠密下标
	Index(id string) (int, bool)

	// ID 返回稠密下标对应的外部 ID
	ID(i int) string

	// Len 返回映射中的实体数
	Len() int
}

// RankInput 是排名阶段的输入，由编排器构建、单次运行独占所有权。
// 具体算法只读取它，不修改它。
type RankInput struct {
	Train *Dataset
	Test  *Dataset // 可能为 nil

	Users IDMapper
	Items IDMapper

	// Matrix 是稠密反馈矩阵：行按用户稠密下标、列按物品稠密下标
	Matrix [][]float64

	// RankLength 是每个用户的排名长度
	RankLength int
}

// Ranker 是具体推荐算法的能力接口：从反馈矩阵（及其派生的相似度矩阵）
// 产出一份排名。排名作为返回值交还编排器，算法自身不持有跨运行状态，
// 保证重复调用（如交叉验证）不会累积上一次的结果。
type Ranker interface {
	Name() string
	Rank(ctx context.Context, in *RankInput) (Ranking, error)
}

// Evaluator 是排名评估的领域接口（eval 包实现）。
// metrics 与 cutoffs 由编排器原样转发。
type Evaluator interface {
	Evaluate(ctx context.Context, ranking Ranking, test *Dataset, metrics []string, cutoffs []int) (EvalResult, error)
}

// InteractionFilter 在矩阵构建之前对交互记录做保留判定（filter 包实现）。
type InteractionFilter interface {
	Keep(user, item string, value float64) (bool, error)
}
