// Package similarity 从稠密反馈矩阵派生对称相似度矩阵。
package similarity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/rushteam/recbatch/core"
)

// Metric 是两个等长向量之间的距离函数：非负、对称。
// 距离在数学上无定义时（如全零向量间的余弦距离）返回 NaN，
// 由引擎统一修复，核函数自身不做兜底。
type Metric func(a, b []float64) float64

// metrics 是按名称注册的距离度量表。
var metrics = map[string]Metric{
	"cosine":    CosineDistance,
	"euclidean": EuclideanDistance,
	"jaccard":   JaccardDistance,
	"pearson":   PearsonDistance,
}

// Lookup 按名称查找距离度量；未注册时返回 UNKNOWN_METRIC。
func Lookup(name string) (Metric, error) {
	m, ok := metrics[name]
	if !ok {
		return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeUnknownMetric,
			fmt.Sprintf("similarity: unknown metric %q", name))
	}
	return m, nil
}

// Names 返回已注册的度量名称（诊断用，顺序不定）。
func Names() []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	return names
}

// CosineDistance 计算余弦距离 1 - cos(a, b)。
// 任一向量为全零时 0/0 自然产生 NaN。
func CosineDistance(a, b []float64) float64 {
	m, n, l := .0, .0, .0
	for i := range a {
		m += a[i] * a[i]
		n += b[i] * b[i]
		l += a[i] * b[i]
	}
	return 1 - l/(math.Sqrt(m)*math.Sqrt(n))
}

// EuclideanDistance 计算欧氏距离。
func EuclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// JaccardDistance 在非零模式上计算 Jaccard 距离：
// 分子是两侧取值不同且至少一侧非零的维度数，分母是至少一侧非零的维度数。
// 两个全零向量之间 0/0 产生 NaN。
func JaccardDistance(a, b []float64) float64 {
	var diff, union float64
	for i := range a {
		if a[i] != 0 || b[i] != 0 {
			union++
			if a[i] != b[i] {
				diff++
			}
		}
	}
	return diff / union
}

// PearsonDistance 计算相关距离 1 - r(a, b)（去均值后的余弦）。
// 任一向量方差为零时产生 NaN。
func PearsonDistance(a, b []float64) float64 {
	meanA := stat.Mean(a, nil)
	meanB := stat.Mean(b, nil)

	m, n, l := .0, .0, .0
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		m += da * da
		n += db * db
		l += da * db
	}
	return 1 - l/(math.Sqrt(m)*math.Sqrt(n))
}
