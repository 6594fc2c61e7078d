// Package pipeline 编排一次完整的批量推荐运行：
// 读数据 → 建标识符映射 → 建反馈矩阵 → 委托排名 → 委托评估 → 写出排名。
package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/recbatch/core"
	"github.com/rushteam/recbatch/index"
	"github.com/rushteam/recbatch/matrix"
)

// State 标记一次运行所处的阶段。
// 状态严格单向推进，不回退、不分支；每次 Compute 都从 Uninitialized 重新开始。
type State int

const (
	StateUninitialized State = iota
	StateDataLoaded
	StateMatrixBuilt
	StateRanked
	StateEvaluated
	StateWritten
	StateDone
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDataLoaded:
		return "data_loaded"
	case StateMatrixBuilt:
		return "matrix_built"
	case StateRanked:
		return "ranked"
	case StateEvaluated:
		return "evaluated"
	case StateWritten:
		return "written"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RunContext 承载一次运行的全部状态。
//
// 设计要点：
//   - 每次 Compute 构建全新的 RunContext，矩阵与排名绝不跨运行复用，
//     重复调用（如交叉验证）不会累积上一次的结果
//   - 排名是 Ranker 的返回值而不是被原地修改的字段，
//     从结构上消除"忘记重置"这一类错误
type RunContext struct {
	State State

	Train *core.Dataset
	Test  *core.Dataset // 未配置测试源时为 nil

	Users *index.Indexer
	Items *index.Indexer

	// Matrix 是稠密反馈矩阵（|Users| x |Items|），本次运行独占所有权
	Matrix [][]float64

	Ranking core.Ranking

	// Results 仅在配置了测试源时填充
	Results core.EvalResult
}

// 默认的评估指标与排名截断位置
var (
	DefaultMetrics = []string{"PREC", "RECALL", "MAP", "NDCG", "MRR"}
	DefaultCutoffs = []int{1, 3, 5, 10}
)

// Runner 是管线编排器。
//
// 协作者通过领域接口注入：TrainReader 与 Ranker 必选，其余可选。
// 未配置测试源时评估阶段为 no-op；未配置 Writer 时写出阶段为 no-op。
// 任一阶段出错立即终止本次运行，不产出部分结果。
type Runner struct {
	TrainReader core.DataReader
	TestReader  core.DataReader // 可选
	Ranker      core.Ranker
	Evaluator   core.Evaluator         // 可选；有测试源时用于评估
	Writer      core.RankingWriter     // 可选
	Filter      core.InteractionFilter // 可选；矩阵构建前过滤交互

	// RankLength 是每个用户的排名长度，<=0 时取 10
	RankLength int

	// Metrics / Cutoffs 原样转发给 Evaluator，空时取默认值
	Metrics []string
	Cutoffs []int
}

// Compute 执行一次完整的运行并返回终态的 RunContext。
func (r *Runner) Compute(ctx context.Context) (*RunContext, error) {
	if r.TrainReader == nil {
		return nil, fmt.Errorf("pipeline: train reader is required")
	}
	if r.Ranker == nil {
		return nil, fmt.Errorf("pipeline: ranker is required")
	}

	rc := &RunContext{State: StateUninitialized}

	if err := r.loadData(ctx, rc); err != nil {
		return nil, err
	}
	if err := r.buildMatrix(ctx, rc); err != nil {
		return nil, err
	}
	if err := r.rank(ctx, rc); err != nil {
		return nil, err
	}
	if err := r.evaluate(ctx, rc); err != nil {
		return nil, err
	}
	if err := r.write(ctx, rc); err != nil {
		return nil, err
	}

	rc.State = StateDone
	return rc, nil
}

// loadData: Uninitialized -> DataLoaded。
// 读训练集（必选）与测试集（可选），并由读取结果派生标识符映射。
func (r *Runner) loadData(ctx context.Context, rc *RunContext) error {
	train, err := r.TrainReader.Read(ctx)
	if err != nil {
		return asDataLoad("read train data", err)
	}
	rc.Train = train

	if r.TestReader != nil {
		test, err := r.TestReader.Read(ctx)
		if err != nil {
			return asDataLoad("read test data", err)
		}
		rc.Test = test
	}

	rc.Users, rc.Items, err = index.Build(rc.Train, rc.Test)
	if err != nil {
		return err
	}

	rc.State = StateDataLoaded
	return nil
}

// buildMatrix: DataLoaded -> MatrixBuilt。
// 配置了交互过滤器时，先过滤再物化；过滤只影响矩阵填充，不改变实体全集。
func (r *Runner) buildMatrix(ctx context.Context, rc *RunContext) error {
	train := rc.Train
	if r.Filter != nil {
		filtered, err := filterDataset(train, r.Filter)
		if err != nil {
			return err
		}
		train = filtered
	}

	m, err := matrix.Build(train, rc.Users, rc.Items)
	if err != nil {
		return err
	}
	rc.Matrix = m
	rc.State = StateMatrixBuilt
	return nil
}

// rank: MatrixBuilt -> Ranked。排名作为返回值放进全新的 RunContext。
func (r *Runner) rank(ctx context.Context, rc *RunContext) error {
	rankLength := r.RankLength
	if rankLength <= 0 {
		rankLength = 10
	}

	ranking, err := r.Ranker.Rank(ctx, &core.RankInput{
		Train:      rc.Train,
		Test:       rc.Test,
		Users:      rc.Users,
		Items:      rc.Items,
		Matrix:     rc.Matrix,
		RankLength: rankLength,
	})
	if err != nil {
		return err
	}
	rc.Ranking = ranking
	rc.State = StateRanked
	return nil
}

// evaluate: Ranked -> Evaluated。没有测试集或未配置 Evaluator 时为 no-op。
func (r *Runner) evaluate(ctx context.Context, rc *RunContext) error {
	if rc.Test != nil && r.Evaluator != nil {
		metrics := r.Metrics
		if len(metrics) == 0 {
			metrics = DefaultMetrics
		}
		cutoffs := r.Cutoffs
		if len(cutoffs) == 0 {
			cutoffs = DefaultCutoffs
		}

		results, err := r.Evaluator.Evaluate(ctx, rc.Ranking, rc.Test, metrics, cutoffs)
		if err != nil {
			return err
		}
		rc.Results = results
	}
	rc.State = StateEvaluated
	return nil
}

// write: Evaluated -> Written。未配置输出目标时为 no-op。
func (r *Runner) write(ctx context.Context, rc *RunContext) error {
	if r.Writer != nil {
		if err := r.Writer.Write(ctx, rc.Ranking); err != nil {
			return err
		}
	}
	rc.State = StateWritten
	return nil
}

// filterDataset 返回只保留通过过滤器的交互的数据集副本。
// Users/Items 与统计保持原样：过滤器决定哪些交互进入矩阵，不决定实体全集。
func filterDataset(ds *core.Dataset, f core.InteractionFilter) (*core.Dataset, error) {
	feedback := make(map[string]map[string]float64, len(ds.Feedback))
	for user, items := range ds.Feedback {
		for item, value := range items {
			keep, err := f.Keep(user, item, value)
			if err != nil {
				return nil, err
			}
			if !keep {
				continue
			}
			if feedback[user] == nil {
				feedback[user] = make(map[string]float64)
			}
			feedback[user][item] = value
		}
	}

	out := *ds
	out.Feedback = feedback
	users := make([]string, 0, len(feedback))
	for _, user := range ds.Users {
		if _, ok := feedback[user]; ok {
			users = append(users, user)
		}
	}
	out.Users = users
	return &out, nil
}

// asDataLoad 把读取协作者的失败统一包装为 DATA_LOAD；
// 已经是领域错误的保持原样向上传播。
func asDataLoad(op string, err error) error {
	if core.IsDomainError(err) {
		return err
	}
	return core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
		fmt.Sprintf("pipeline: %s: %v", op, err))
}
