package rank

import (
	"context"
	"testing"
)

func TestMostPopular_Rank(t *testing.T) {
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

	ranking, err := (&MostPopular{}).Rank(context.Background(), in)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	// 流行度：i1=2, i2=2, i3=1
	want := map[string]map[string]float64{
		"u1": {"i3": 1},
		"u2": {"i2": 2, "i3": 1},
		"u3": {"i1": 2},
	}
	byUser := ranking.ByUser()
	for user, items := range want {
		if len(byUser[user]) != len(items) {
			t.Errorf("user %s: %d recommendations, want %d", user, len(byUser[user]), len(items))
			continue
		}
		for _, rec := range byUser[user] {
			if score, ok := items[rec.Item]; !ok || rec.Score != score {
				t.Errorf("user %s: got %s=%v, want %v", user, rec.Item, rec.Score, items)
			}
		}
	}

	// u2 的两个候选按流行度降序排列
	u2 := byUser["u2"]
	if len(u2) == 2 && u2[0].Score < u2[1].Score {
		t.Errorf("u2 recommendations out of order: %+v", u2)
	}
}

func TestMostPopular_NeverRecommendsSeen(t *testing.T) {
	in := newRankInput(
		[]string{"u1", "u2"},
		[]string{"i1", "i2", "i3", "i4"},
		[][]float64{
			{1, 1, 0, 0},
			{0, 1, 1, 0},
		},
		10,
	)

	ranking, err := (&MostPopular{}).Rank(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range ranking {
		u, _ := in.Users.Index(item.User)
		j, _ := in.Items.Index(item.Item)
		if in.Matrix[u][j] != 0 {
			t.Errorf("user %s recommended seen item %s", item.User, item.Item)
		}
	}
}

func TestMostPopular_AllSeen(t *testing.T) {
	in := newRankInput(
		[]string{"u1"},
		[]string{"i1", "i2"},
		[][]float64{{1, 2}},
		10,
	)

	ranking, err := (&MostPopular{}).Rank(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranking) != 0 {
		t.Errorf("ranking = %+v, want empty", ranking)
	}
}
