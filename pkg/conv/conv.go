// Package conv 提供类型转换工具，用于简化内存表格读取中的重复逻辑。
package conv

import (
	"fmt"
	"strconv"
)

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32、数值字符串；bool 视为 1.0/0.0。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	default:
		return 0, false
	}
}

// ToString 将 any 转为 string。
// 仅支持 string 类型，否则返回 ("", false)。
func ToString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ToID 将 any 转为外部标识符字符串。
// string 直接保留；数字格式化为 "%.0f"（表格数据中的数值型 ID 常见于
// JSON/YAML 解析结果）。
func ToID(v any) (string, bool) {
	if s, ok := ToString(v); ok {
		return s, true
	}
	if f, ok := ToFloat64(v); ok {
		return fmt.Sprintf("%.0f", f), true
	}
	return "", false
}
