package rank

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/rushteam/recbatch/core"
)

// MostPopular 是非个性化的流行度基线：
// 物品分数 = 与其交互过的用户数，每个用户推荐其未消费物品中最流行的。
// 常用作个性化算法的对照组。
type MostPopular struct{}

func (r *MostPopular) Name() string { return "rank.mostpopular" }

func (r *MostPopular) Rank(ctx context.Context, in *core.RankInput) (core.Ranking, error) {
	numItems := in.Items.Len()

	popularity := make([]float64, numItems)
	for u := 0; u < in.Users.Len(); u++ {
		for j, v := range in.Matrix[u] {
			if v != 0 {
				popularity[j]++
			}
		}
	}

	ranking := make(core.Ranking, 0, in.Users.Len()*in.RankLength)
	for u := 0; u < in.Users.Len(); u++ {
		row := in.Matrix[u]

		scores := make([]float64, 0, numItems)
		candidates := make([]int, 0, numItems)
		for j := 0; j < numItems; j++ {
			if row[j] != 0 {
				continue
			}
			candidates = append(candidates, j)
			scores = append(scores, -popularity[j])
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
