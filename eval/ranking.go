// Package eval 计算 Top-N 排名的离线评估指标。
package eval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rushteam/recbatch/core"
)

// RankingEvaluator 实现 core.Evaluator：
// 对每个在测试集中有相关物品的用户，在各个截断位置 k 上计算指标，
// 再对用户取平均。结果按 "METRIC@k" 键入。
//
// 支持的指标：PREC、RECALL、MAP、NDCG、MRR（名称大小写不敏感）。
// 相关集取测试集中该用户的全部物品。
type RankingEvaluator struct {
	// AsTable / TableSep 控制 FormatTable 的表格输出
	AsTable  bool
	TableSep string
}

// scorer 对单个用户求值：rank 是该用户的推荐物品序列（已按分数降序），
// relevant 是测试集中的相关物品集合，k 是截断位置。
type scorer func(rank []string, relevant map[string]struct{}, k int) float64

var scorers = map[string]scorer{
	"PREC":   precisionAt,
	"RECALL": recallAt,
	"MAP":    averagePrecisionAt,
	"NDCG":   ndcgAt,
	"MRR":    mrrAt,
}

// Evaluate 计算整份排名的指标。metrics 与 cutoffs 由编排器原样转发。
func (e *RankingEvaluator) Evaluate(ctx context.Context, ranking core.Ranking, test *core.Dataset, metrics []string, cutoffs []int) (core.EvalResult, error) {
	byUser := ranking.ByUser()

	results := make(core.EvalResult, len(metrics)*len(cutoffs))
	for _, metric := range metrics {
		name := strings.ToUpper(metric)
		score, ok := scorers[name]
		if !ok {
			return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeUnknownMetric,
				fmt.Sprintf("eval: unknown metric %q", metric))
		}

		for _, k := range cutoffs {
			var sum float64
			var count int
			for _, user := range test.Users {
				relevant := relevantSet(test, user)
				if len(relevant) == 0 {
					continue
				}
				rank := itemsOf(byUser[user])
				sum += score(rank, relevant, k)
				count++
			}
			key := fmt.Sprintf("%s@%d", name, k)
			if count > 0 {
				results[key] = sum / float64(count)
			} else {
				results[key] = 0
			}
		}
	}
	return results, nil
}

// FormatTable 把评估结果渲染成文本。AsTable 为 true 时输出两行表格
// （表头 + 数值，以 TableSep 分隔），否则输出 "key: value" 列表。
func (e *RankingEvaluator) FormatTable(results core.EvalResult) string {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if !e.AsTable {
		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %.6f\n", k, results[k])
		}
		return b.String()
	}

	sep := e.TableSep
	if sep == "" {
		sep = "\t"
	}
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, fmt.Sprintf("%.6f", results[k]))
	}
	return strings.Join(keys, sep) + "\n" + strings.Join(values, sep) + "\n"
}

func relevantSet(test *core.Dataset, user string) map[string]struct{} {
	items := test.Feedback[user]
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(items))
	for item := range items {
		set[item] = struct{}{}
	}
	return set
}

func itemsOf(ranked []core.RankedItem) []string {
	items := make([]string, 0, len(ranked))
	for _, r := range ranked {
		items = append(items, r.Item)
	}
	return items
}

func hitsAt(rank []string, relevant map[string]struct{}, k int) int {
	if k > len(rank) {
		k = len(rank)
	}
	hits := 0
	for _, item := range rank[:k] {
		if _, ok := relevant[item]; ok {
			hits++
		}
	}
	return hits
}

// precisionAt = 命中数 / k
func precisionAt(rank []string, relevant map[string]struct{}, k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(hitsAt(rank, relevant, k)) / float64(k)
}

// recallAt = 命中数 / 相关物品数
func recallAt(rank []string, relevant map[string]struct{}, k int) float64 {
	return float64(hitsAt(rank, relevant, k)) / float64(len(relevant))
}

// averagePrecisionAt：命中位置上的精度均值，分母取 min(k, |relevant|)
func averagePrecisionAt(rank []string, relevant map[string]struct{}, k int) float64 {
	if k > len(rank) {
		k = len(rank)
	}
	var sum float64
	hits := 0
	for i, item := range rank[:k] {
		if _, ok := relevant[item]; ok {
			hits++
			sum += float64(hits) / float64(i+1)
		}
	}
	norm := len(relevant)
	if k < norm {
		norm = k
	}
	if norm == 0 {
		return 0
	}
	return sum / float64(norm)
}

// ndcgAt：二值增益、log2 折扣，按理想排列归一化
func ndcgAt(rank []string, relevant map[string]struct{}, k int) float64 {
	if k > len(rank) {
		k = len(rank)
	}
	var dcg float64
	for i, item := range rank[:k] {
		if _, ok := relevant[item]; ok {
			dcg += 1 / math.Log2(float64(i)+2)
		}
	}

	ideal := len(relevant)
	if k < ideal {
		ideal = k
	}
	var idcg float64
	for i := 0; i < ideal; i++ {
		idcg += 1 / math.Log2(float64(i)+2)
	}
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

// mrrAt：前 k 位中第一个命中位置的倒数，没有命中为 0
func mrrAt(rank []string, relevant map[string]struct{}, k int) float64 {
	if k > len(rank) {
		k = len(rank)
	}
	for i, item := range rank[:k] {
		if _, ok := relevant[item]; ok {
			return 1 / float64(i+1)
		}
	}
	return 0
}
