// Package recbatch 是一个离线批量推荐计算核心（Recommendation Batch Core）。
//
// 设计要点：
// - 数据到矩阵：交互记录 → 标识符双射 → 稠密反馈矩阵 → 对称相似度矩阵
// - 状态机编排：读数据 → 建矩阵 → 委托排名 → 委托评估 → 写出，严格单向
// - 协作者接口：reader / ranker / evaluator / writer 均为 core 中的领域接口，可插拔扩展
package recbatch

import (
	"github.com/rushteam/recbatch/core"
	"github.com/rushteam/recbatch/pipeline"
)

// 轻量 facade：便于用户直接 import "recbatch" 使用核心抽象。
type Runner = pipeline.Runner
type RunContext = pipeline.RunContext
type Config = pipeline.Config
type State = pipeline.State

type Dataset = core.Dataset
type Interaction = core.Interaction
type Ranking = core.Ranking
type RankedItem = core.RankedItem
type EvalResult = core.EvalResult

const (
	StateUninitialized = pipeline.StateUninitialized
	StateDataLoaded    = pipeline.StateDataLoaded
	StateMatrixBuilt   = pipeline.StateMatrixBuilt
	StateRanked        = pipeline.StateRanked
	StateEvaluated     = pipeline.StateEvaluated
	StateWritten       = pipeline.StateWritten
	StateDone          = pipeline.StateDone
)
