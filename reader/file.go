// Package reader 提供交互数据源的读取实现：分隔文本文件、内存表格、KV 存储。
// 所有实现产出同一种 core.Dataset，管线核心不关心数据来自哪里。
package reader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rushteam/recbatch/core"
)

// File 从分隔文本文件读取交互数据。
// 文件每行至少 3 列：user item feedback_value，列间以 Sep 分隔。
type File struct {
	Path     string
	Sep      string
	AsBinary bool
}

// NewFile 创建文件读取器；sep 为空时取制表符。
func NewFile(path, sep string, asBinary bool) *File {
	if sep == "" {
		sep = "\t"
	}
	return &File{Path: path, Sep: sep, AsBinary: asBinary}
}

// Read 解析整个文件并构建 Dataset。
// 文件不可读或任一行格式非法都返回 DATA_LOAD，不产出部分数据集。
func (r *File) Read(ctx context.Context) (*core.Dataset, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
			fmt.Sprintf("reader: open %s: %v", r.Path, err))
	}
	defer f.Close()

	var interactions []core.Interaction
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if text == "" {
			continue
		}

		fields := strings.Split(text, r.Sep)
		if len(fields) < 3 {
			return nil, core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
				fmt.Sprintf("reader: %s:%d: expected at least 3 fields, got %d", r.Path, line, len(fields)))
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return nil, core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
				fmt.Sprintf("reader: %s:%d: bad feedback value %q", r.Path, line, fields[2]))
		}

		interactions = append(interactions, core.Interaction{
			User:  strings.TrimSpace(fields[0]),
			Item:  strings.TrimSpace(fields[1]),
			Value: value,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
			fmt.Sprintf("reader: scan %s: %v", r.Path, err))
	}

	return core.NewDataset(interactions, r.AsBinary), nil
}
