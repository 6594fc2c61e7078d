package similarity

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/recbatch/core"
)

// Engine 计算反馈矩阵行（或列）之间的两两相似度矩阵。
//
// 计算分三步，顺序与数值语义都是契约的一部分：
//  1. 在配置的度量下求全量两两距离（对称、对角线为零）
//  2. NaN 距离替换为 1.0（无定义视为"最不相似"，不向下游扩散）
//  3. 距离转相似度：sim = (max - d) / max，max 取整个矩阵的全局最大值
//
// 全局归一化意味着单个极端离群对会压缩同一矩阵中所有其它对的相似度区间；
// 这是刻意保留的行为，按行归一化是另一份契约。
// 退化情形：全局最大距离为零（如所有行完全相同）时结果为全 1 矩阵。
//
// 输出压到 float32：实体数大时相似度矩阵本身就是主要内存开销，
// 单精度是刻意的精度/内存取舍。
type Engine struct {
	// Metric 是距离度量名：cosine / euclidean / jaccard / pearson
	Metric string

	// Workers 是并行计算的 worker 数；<=0 时取 GOMAXPROCS。
	// 两两距离按行对切分，天然无共享写，结果与并行度无关。
	Workers int
}

// Compute 从反馈矩阵派生相似度矩阵。
// transpose 为 true 时在列（物品）之间计算，否则在行（用户）之间计算。
// 任一维度为零返回 EMPTY_MATRIX；度量名未注册返回 UNKNOWN_METRIC。
func (e *Engine) Compute(ctx context.Context, m [][]float64, transpose bool) ([][]float32, error) {
	if len(m) == 0 || len(m[0]) == 0 {
		return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeEmptyMatrix,
			"similarity: feedback matrix has a zero dimension")
	}

	metric, err := Lookup(e.Metric)
	if err != nil {
		return nil, err
	}

	vecs := m
	if transpose {
		vecs = transposed(m)
	}
	n := len(vecs)

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// 按行对切分：worker i 只写 dist[i][j] 与镜像 dist[j][i]（j > i），
	// 每个格子恰好被写一次，无需加锁。
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for j := i + 1; j < n; j++ {
				d := metric(vecs[i], vecs[j])
				dist[i][j] = d
				dist[j][i] = d
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// NaN 修复必须在归一化之前：无定义距离一律按 1.0 处理
	var max float64
	for i := range dist {
		for j := range dist[i] {
			if dist[i][j] != dist[i][j] { // NaN
				dist[i][j] = 1.0
			}
			if dist[i][j] > max {
				max = dist[i][j]
			}
		}
	}

	sim := make([][]float32, n)
	for i := range sim {
		sim[i] = make([]float32, n)
	}

	if max == 0 {
		// 所有距离都为零：任意一对都"最相似"
		for i := range sim {
			for j := range sim[i] {
				sim[i][j] = 1.0
			}
		}
		return sim, nil
	}

	for i := range dist {
		for j := range dist[i] {
			sim[i][j] = float32((max - dist[i][j]) / max)
		}
	}
	return sim, nil
}

func transposed(m [][]float64) [][]float64 {
	rows, cols := len(m), len(m[0])
	t := make([][]float64, cols)
	for j := 0; j < cols; j++ {
		t[j] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			t[j][i] = m[i][j]
		}
	}
	return t
}
