package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/rushteam/mycontent/core"
)

// CSV 列名。article_id 必选，其余可选。
const (
	colArticleID  = "article_id"
	colTitle      = "title"
	colCategoryID = "category_id"
	colWordsCount = "words_count"
)

// Load 从 CSV 制品加载目录。元数据制品缺失或损坏是加载期致命错误。
func Load(path string, logger zerolog.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open metadata %s: %w", path, err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("articles", c.Len()).Msg("catalog loaded")
	return c, nil
}

// Parse 从 CSV 流解析目录。
func Parse(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeMalformed,
			fmt.Sprintf("catalog: read header: %v", err))
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	idCol, ok := cols[colArticleID]
	if !ok {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeMalformed,
			"catalog: metadata has no article_id column")
	}

	var entries []Entry
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeMalformed,
				fmt.Sprintf("catalog: line %d: %v", line, err))
		}
		id, err := strconv.ParseInt(field(record, idCol), 10, 64)
		if err != nil {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeMalformed,
				fmt.Sprintf("catalog: line %d: bad article_id %q", line, field(record, idCol)))
		}
		e := Entry{ID: id}
		if i, ok := cols[colTitle]; ok {
			e.Title = field(record, i)
		}
		if i, ok := cols[colCategoryID]; ok {
			// 类目保留为字符串表示；无法解析时视为缺失，走 "unknown"
			if v, err := strconv.ParseInt(field(record, i), 10, 64); err == nil {
				e.Category = FormatCategory(v)
			}
		}
		if i, ok := cols[colWordsCount]; ok {
			if v, err := strconv.ParseInt(field(record, i), 10, 64); err == nil && v >= 0 {
				e.WordsCount = v
			}
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeMalformed,
			"catalog: metadata has no rows")
	}
	return New(entries), nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
