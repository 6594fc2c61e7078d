package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/recbatch/rank"
)

const sampleYAML = `
run:
  train: /data/train.dat
  test: /data/test.dat
  output: /data/ranking.dat
  algorithm: itemknn
  as_binary: true
  similarity_metric: jaccard
  rank_length: 5
  filter: "value >= 3.0"
evaluation:
  metrics: [PREC, NDCG]
  cutoffs: [5, 10]
`

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if cfg.Run.Train != "/data/train.dat" {
		t.Errorf("Train = %q", cfg.Run.Train)
	}
	if !cfg.Run.AsBinary {
		t.Error("AsBinary = false, want true")
	}
	if cfg.Run.Metric != "jaccard" {
		t.Errorf("Metric = %q", cfg.Run.Metric)
	}
	if cfg.Run.RankLength != 5 {
		t.Errorf("RankLength = %d", cfg.Run.RankLength)
	}
	if len(cfg.Evaluation.Metrics) != 2 || len(cfg.Evaluation.Cutoffs) != 2 {
		t.Errorf("Evaluation = %+v", cfg.Evaluation)
	}
}

func TestLoadFromJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"run": {"train": "/data/train.dat", "algorithm": "mostpopular"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromJSON(path)
	if err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}
	if cfg.Run.Train != "/data/train.dat" {
		t.Errorf("Train = %q", cfg.Run.Train)
	}
	if cfg.Run.Algorithm != "mostpopular" {
		t.Errorf("Algorithm = %q", cfg.Run.Algorithm)
	}
}

func TestConfig_BuildRunner(t *testing.T) {
	var cfg Config
	cfg.Run.Train = "/data/train.dat"
	cfg.Run.Test = "/data/test.dat"
	cfg.Run.Output = "/data/ranking.dat"
	cfg.Run.Filter = `value > 0.0 && user != "blocked"`

	r, err := cfg.BuildRunner()
	if err != nil {
		t.Fatalf("BuildRunner: %v", err)
	}
	if r.TrainReader == nil || r.TestReader == nil || r.Writer == nil {
		t.Error("collaborators not wired")
	}
	if r.Evaluator == nil {
		t.Error("evaluator should be wired when test set is configured")
	}
	if r.Filter == nil {
		t.Error("filter should be compiled")
	}

	// 默认算法为 itemknn，相似度默认 cosine
	knn, ok := r.Ranker.(*rank.ItemKNN)
	if !ok {
		t.Fatalf("Ranker = %T, want *rank.ItemKNN", r.Ranker)
	}
	if knn.Metric != "cosine" {
		t.Errorf("Metric = %q, want cosine", knn.Metric)
	}
}

func TestConfig_BuildRunnerMinimal(t *testing.T) {
	var cfg Config
	cfg.Run.Train = "/data/train.dat"

	r, err := cfg.BuildRunner()
	if err != nil {
		t.Fatalf("BuildRunner: %v", err)
	}
	if r.TestReader != nil || r.Evaluator != nil || r.Writer != nil || r.Filter != nil {
		t.Error("optional collaborators should stay nil")
	}
}

func TestConfig_BuildRunnerErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Config)
	}{
		{"missing train", func(c *Config) {}},
		{"unknown algorithm", func(c *Config) {
			c.Run.Train = "/data/train.dat"
			c.Run.Algorithm = "svd"
		}},
		{"bad filter expression", func(c *Config) {
			c.Run.Train = "/data/train.dat"
			c.Run.Filter = "value +"
		}},
		{"non-bool filter expression", func(c *Config) {
			c.Run.Train = "/data/train.dat"
			c.Run.Filter = "value + 1.0"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			tt.setup(&cfg)
			if _, err := cfg.BuildRunner(); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestConfig_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	train := filepath.Join(dir, "train.dat")
	out := filepath.Join(dir, "ranking.dat")
	data := "u1\ti1\t5\nu1\ti2\t3\nu2\ti1\t4\nu3\ti2\t2\n"
	if err := os.WriteFile(train, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg Config
	cfg.Run.Train = train
	cfg.Run.Output = out
	cfg.Run.Algorithm = "mostpopular"

	r, err := cfg.BuildRunner()
	if err != nil {
		t.Fatalf("BuildRunner: %v", err)
	}
	rc, err := r.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if rc.State != StateDone {
		t.Errorf("State = %v", rc.State)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output file not written: %v", err)
	}
}
