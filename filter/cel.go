// Package filter 在矩阵构建之前对交互记录做保留判定。
package filter

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，声明交互记录的三个变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("user", cel.StringType),
		cel.Variable("item", cel.StringType),
		cel.Variable("value", cel.DoubleType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Filter 是基于 CEL (Common Expression Language) 的交互过滤器。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：value >= 3.0 / value > 0.0
//   - 实体：user != "anonymous" / item.startsWith("promo_") == false
//   - 逻辑：value >= 3.0 && user != "bot"
//
// 表达式在 New 时编译一次并缓存，Keep 可被高频调用。
// 过滤只决定哪些交互进入反馈矩阵，不改变实体全集。
type Filter struct {
	expr string
	prg  cel.Program
}

// New 编译 CEL 表达式并创建过滤器。
// 编译错误在这里暴露（配置期），而不是矩阵构建中途。
func New(expr string) (*Filter, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("filter: init cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("filter: compile %q: %w", expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("filter: expression %q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("filter: build program for %q: %w", expr, err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// Keep 对单条交互记录求值；表达式为真时保留。
func (f *Filter) Keep(user, item string, value float64) (bool, error) {
	out, _, err := f.prg.Eval(map[string]any{
		"user":  user,
		"item":  item,
		"value": value,
	})
	if err != nil {
		return false, fmt.Errorf("filter: eval %q: %w", f.expr, err)
	}

	keep, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter: expression %q returned non-bool %v", f.expr, out.Value())
	}
	return keep, nil
}

// Expr 返回过滤器的原始表达式（诊断用）。
func (f *Filter) Expr() string { return f.expr }
