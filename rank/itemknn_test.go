package rank

import (
	"context"
	"testing"

	"github.com/rushteam/recbatch/core"
	"github.com/rushteam/recbatch/index"
)

// newRankInput 按行构建测试用的 RankInput，行列顺序与映射顺序一致。
func newRankInput(users, items []string, matrix [][]float64, rankLength int) *core.RankInput {
	return &core.RankInput{
		Users:      index.New(users),
		Items:      index.New(items),
		Matrix:     matrix,
		RankLength: rankLength,
	}
}

func TestItemKNN_Rank(t *testing.T) {
	in := newRankInput(
		[]string{"u1", "u2", "u3"},
		[]string{"i1", "i2", "i3"},
		[][]float64{
			{5, 3, 0},
			{4, 0, 0},
			{0, 2, 1},
		},
		10,
	)

	knn := &ItemKNN{Metric: "cosine"}
	ranking, err := knn.Rank(context.Background(), in)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	// 每个用户恰好有"物品数 - 已消费数"个候选
	byUser := ranking.ByUser()
	wantCounts := map[string]int{"u1": 1, "u2": 2, "u3": 1}
	for user, want := range wantCounts {
		if got := len(byUser[user]); got != want {
			t.Errorf("user %s: %d recommendations, want %d", user, got, want)
		}
	}

	// 绝不推荐已消费的物品
	for _, item := range ranking {
		u, _ := in.Users.Index(item.User)
		j, _ := in.Items.Index(item.Item)
		if in.Matrix[u][j] != 0 {
			t.Errorf("user %s recommended seen item %s", item.User, item.Item)
		}
	}
}

func TestItemKNN_RankLengthCapsOutput(t *testing.T) {
	in := newRankInput(
		[]string{"u1"},
		[]string{"i1", "i2", "i3", "i4", "i5"},
		[][]float64{{1, 0, 0, 0, 0}},
		2,
	)

	ranking, err := (&ItemKNN{Metric: "cosine"}).Rank(context.Background(), in)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(ranking) != 2 {
		t.Errorf("ranking length = %d, want 2", len(ranking))
	}
}

func TestItemKNN_NeighborhoodLimit(t *testing.T) {
	in := newRankInput(
		[]string{"u1", "u2", "u3"},
		[]string{"i1", "i2", "i3", "i4"},
		[][]float64{
			{5, 4, 3, 0},
			{5, 4, 0, 1},
			{0, 4, 3, 1},
		},
		10,
	)

	full, err := (&ItemKNN{Metric: "cosine"}).Rank(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	limited, err := (&ItemKNN{Metric: "cosine", K: 1}).Rank(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	// 邻域截断只影响分数，不影响候选集合
	if len(full) != len(limited) {
		t.Errorf("ranking lengths differ: full %d, limited %d", len(full), len(limited))
	}
	for i := range limited {
		if limited[i].User != full[i].User {
			t.Errorf("entry %d: user %s != %s", i, limited[i].User, full[i].User)
		}
	}
}

func TestItemKNN_Deterministic(t *testing.T) {
	in := newRankInput(
		[]string{"u1", "u2"},
		[]string{"i1", "i2", "i3"},
		[][]float64{
			{5, 0, 3},
			{0, 2, 0},
		},
		10,
	)

	knn := &ItemKNN{Metric: "euclidean", Workers: 4}
	first, err := knn.Rank(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := knn.Rank(context.Background(), in)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: length %d != %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Errorf("run %d entry %d: %+v != %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestItemKNN_UnknownMetric(t *testing.T) {
	in := newRankInput([]string{"u1"}, []string{"i1", "i2"}, [][]float64{{1, 0}}, 10)

	_, err := (&ItemKNN{Metric: "manhattan"}).Rank(context.Background(), in)
	if !core.IsUnknownMetric(err) {
		t.Errorf("error = %v, want UNKNOWN_METRIC", err)
	}
}

func TestItemKNN_Name(t *testing.T) {
	if name := (&ItemKNN{}).Name(); name != "rank.itemknn" {
		t.Errorf("Name() = %q", name)
	}
}
