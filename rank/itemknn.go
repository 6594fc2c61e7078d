// Package rank 提供 core.Ranker 的具体算法实现。
//
// 算法只消费编排器交付的 RankInput（反馈矩阵 + 标识符映射），
// 排名作为返回值交还，自身不持有跨运行状态。
package rank

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/rushteam/recbatch/core"
	"github.com/rushteam/recbatch/similarity"
)

// ItemKNN 是基于物品的 K 近邻排名算法（Item-based KNN）。
//
// 核心思想："被同一批用户消费过的物品，相互相似"
//
// 算法流程：
//  1. 对反馈矩阵转置求物品-物品相似度矩阵
//  2. 对每个用户的每个未消费物品 j：
//     score(u, j) = Σ 相似度(j, s) * 反馈(u, s)，s 取该用户消费过的物品
//     （K > 0 时只累加 j 的 K 个最相似邻居）
//  3. 每个用户取分数最高的 RankLength 个物品
type ItemKNN struct {
	// Metric 是相似度引擎使用的距离度量名
	Metric string

	// K 是邻域大小；<=0 表示使用用户消费过的全部物品
	K int

	// Workers 透传给相似度引擎
	Workers int
}

func (r *ItemKNN) Name() string { return "rank.itemknn" }

func (r *ItemKNN) Rank(ctx context.Context, in *core.RankInput) (core.Ranking, error) {
	engine := &similarity.Engine{Metric: r.Metric, Workers: r.Workers}
	sim, err := engine.Compute(ctx, in.Matrix, true) // 物品-物品
	if err != nil {
		return nil, err
	}

	numItems := in.Items.Len()
	ranking := make(core.Ranking, 0, in.Users.Len()*in.RankLength)

	for u := 0; u < in.Users.Len(); u++ {
		row := in.Matrix[u]

		seen := make([]int, 0, len(row))
		for j, v := range row {
			if v != 0 {
				seen = append(seen, j)
			}
		}

		// 对每个未消费物品累加邻域加权分
		scores := make([]float64, 0, numItems-len(seen))
		candidates := make([]int, 0, numItems-len(seen))
		for j := 0; j < numItems; j++ {
			if row[j] != 0 {
				continue
			}
			neighborhood := seen
			if r.K > 0 && len(seen) > r.K {
				neighborhood = topNeighbors(sim[j], seen, r.K)
			}
			var score float64
			for _, s := range neighborhood {
				score += float64(sim[j][s]) * row[s]
			}
			candidates = append(candidates, j)
			scores = append(scores, -score) // 取负：Argsort 升序即分数降序
		}

		inds := make([]int, len(scores))
		floats.Argsort(scores, inds)

		limit := in.RankLength
		if limit > len(inds) {
			limit = len(inds)
		}
		user := in.Users.ID(u)
		for i := 0; i < limit; i++ {
			j := candidates[inds[i]]
			ranking = append(ranking, core.RankedItem{
				User:  user,
				Item:  in.Items.ID(j),
				Score: -scores[i],
			})
		}
	}
	return ranking, nil
}

// topNeighbors 返回 seen 中与物品 j 最相似的 k 个下标。
func topNeighbors(simRow []float32, seen []int, k int) []int {
	neighbors := append([]int{}, seen...)
	sort.Slice(neighbors, func(a, b int) bool {
		return simRow[neighbors[a]] > simRow[neighbors[b]]
	})
	return neighbors[:k]
}
