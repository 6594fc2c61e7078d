package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/recbatch/core"
	"github.com/rushteam/recbatch/eval"
	"github.com/rushteam/recbatch/filter"
	"github.com/rushteam/recbatch/rank"
	"github.com/rushteam/recbatch/reader"
	"github.com/rushteam/recbatch/writer"
)

// Config 是一次批量运行的配置（支持 YAML/JSON）。
// 构造后对本次运行不可变。
type Config struct {
	Run struct {
		Train      string `yaml:"train" json:"train"`             // 训练集文件路径（必选）
		Test       string `yaml:"test" json:"test"`               // 测试集文件路径（可选）
		Output     string `yaml:"output" json:"output"`           // 排名输出路径（可选，空则跳过写出）
		Algorithm  string `yaml:"algorithm" json:"algorithm"`     // itemknn / mostpopular
		AsBinary   bool   `yaml:"as_binary" json:"as_binary"`     // 正反馈钳为 1
		Metric     string `yaml:"similarity_metric" json:"similarity_metric"`
		RankLength int    `yaml:"rank_length" json:"rank_length"`
		Sep        string `yaml:"sep" json:"sep"`                 // 输入字段分隔符
		OutputSep  string `yaml:"output_sep" json:"output_sep"`   // 输出字段分隔符
		Filter     string `yaml:"filter" json:"filter"`           // CEL 交互过滤表达式（可选）
		Verbose    bool   `yaml:"verbose" json:"verbose"`
	} `yaml:"run" json:"run"`

	Evaluation struct {
		Metrics  []string `yaml:"metrics" json:"metrics"`
		Cutoffs  []int    `yaml:"cutoffs" json:"cutoffs"`
		AsTable  bool     `yaml:"as_table" json:"as_table"`
		TableSep string   `yaml:"table_sep" json:"table_sep"`
	} `yaml:"evaluation" json:"evaluation"`
}

// LoadFromYAML 从 YAML 文件加载运行配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载运行配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return &cfg, nil
}

// BuildRunner 按配置组装 Runner：文件 reader/writer、CEL 过滤器、
// 具体算法与评估器。CEL 表达式的编译错误在这里暴露，而不是运行中途。
func (c *Config) BuildRunner() (*Runner, error) {
	if c.Run.Train == "" {
		return nil, fmt.Errorf("config: run.train is required")
	}

	sep := c.Run.Sep
	if sep == "" {
		sep = "\t"
	}
	outputSep := c.Run.OutputSep
	if outputSep == "" {
		outputSep = "\t"
	}
	metric := c.Run.Metric
	if metric == "" {
		metric = "cosine"
	}

	r := &Runner{
		TrainReader: reader.NewFile(c.Run.Train, sep, c.Run.AsBinary),
		RankLength:  c.Run.RankLength,
		Metrics:     c.Evaluation.Metrics,
		Cutoffs:     c.Evaluation.Cutoffs,
	}

	if c.Run.Test != "" {
		// 测试集保留原始反馈值，与训练侧的二值化无关
		r.TestReader = reader.NewFile(c.Run.Test, sep, false)
		r.Evaluator = &eval.RankingEvaluator{
			AsTable:  c.Evaluation.AsTable,
			TableSep: c.Evaluation.TableSep,
		}
	}

	if c.Run.Output != "" {
		r.Writer = writer.NewFile(c.Run.Output, outputSep)
	}

	if c.Run.Filter != "" {
		f, err := filter.New(c.Run.Filter)
		if err != nil {
			return nil, fmt.Errorf("config: compile filter: %w", err)
		}
		r.Filter = f
	}

	ranker, err := buildRanker(c.Run.Algorithm, metric)
	if err != nil {
		return nil, err
	}
	r.Ranker = ranker

	return r, nil
}

func buildRanker(algorithm, metric string) (core.Ranker, error) {
	switch algorithm {
	case "", "itemknn":
		return &rank.ItemKNN{Metric: metric}, nil
	case "mostpopular":
		return &rank.MostPopular{}, nil
	default:
		return nil, fmt.Errorf("config: unknown algorithm: %s", algorithm)
	}
}
