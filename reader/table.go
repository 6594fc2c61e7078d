package reader

import (
	"context"
	"fmt"

	"github.com/rushteam/recbatch/core"
	"github.com/rushteam/recbatch/pkg/conv"
)

// Table 从内存表格行读取交互数据（对应文件之外的"dataframe"入口）。
// 每行至少 3 列：user、item、feedback_value；ID 列兼容字符串与数值。
type Table struct {
	Rows     [][]any
	AsBinary bool
}

// NewTable 创建内存表格读取器。
func NewTable(rows [][]any, asBinary bool) *Table {
	return &Table{Rows: rows, AsBinary: asBinary}
}

// Read 把表格行转换为 Dataset；任一行无法解释时返回 DATA_LOAD。
func (r *Table) Read(ctx context.Context) (*core.Dataset, error) {
	interactions := make([]core.Interaction, 0, len(r.Rows))
	for i, row := range r.Rows {
		if len(row) < 3 {
			return nil, core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
				fmt.Sprintf("reader: table row %d: expected at least 3 columns, got %d", i, len(row)))
		}
		user, ok := conv.ToID(row[0])
		if !ok {
			return nil, core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
				fmt.Sprintf("reader: table row %d: bad user column %v", i, row[0]))
		}
		item, ok := conv.ToID(row[1])
		if !ok {
			return nil, core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
				fmt.Sprintf("reader: table row %d: bad item column %v", i, row[1]))
		}
		value, ok := conv.ToFloat64(row[2])
		if !ok {
			return nil, core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
				fmt.Sprintf("reader: table row %d: bad feedback column %v", i, row[2]))
		}
		interactions = append(interactions, core.Interaction{User: user, Item: item, Value: value})
	}
	return core.NewDataset(interactions, r.AsBinary), nil
}
