// Package writer 负责排名结果的持久化。
package writer

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/rushteam/recbatch/core"
)

// File 把排名按行写入分隔文本文件：user<sep>item<sep>score。
type File struct {
	Path string
	Sep  string
}

// NewFile 创建文件写出器；sep 为空时取制表符。
func NewFile(path, sep string) *File {
	if sep == "" {
		sep = "\t"
	}
	return &File{Path: path, Sep: sep}
}

// Write 覆盖写出整份排名，保持输入顺序。
func (w *File) Write(ctx context.Context, ranking core.Ranking) error {
	f, err := os.Create(w.Path)
	if err != nil {
		return fmt.Errorf("writer: create %s: %w", w.Path, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	for _, item := range ranking {
		if _, err := fmt.Fprintf(buf, "%s%s%s%s%v\n", item.User, w.Sep, item.Item, w.Sep, item.Score); err != nil {
			return fmt.Errorf("writer: write %s: %w", w.Path, err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writer: flush %s: %w", w.Path, err)
	}
	return nil
}
