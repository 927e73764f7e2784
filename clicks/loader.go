package clicks

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/mycontent/core"
)

// DefaultFileLimit 是单次加载读取的点击文件上限。
// 初期部署的限流策略，不是架构上限。
const DefaultFileLimit = 10

// CSV 列名。两列均为必选。
const (
	colUserID    = "user_id"
	colArticleID = "click_article_id"
)

// LoadDir 从目录加载前 fileLimit 个点击 CSV 文件（按文件名排序）。
//
// 软失败策略：单个文件不可读或损坏时告警并跳过，继续加载其余文件；
// 零个成功文件得到空日志，而不是错误。目录不存在同样得到空日志。
func LoadDir(dir string, fileLimit int, logger zerolog.Logger) (*Log, error) {
	if fileLimit <= 0 {
		fileLimit = DefaultFileLimit
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil || len(paths) == 0 {
		logger.Warn().Str("dir", dir).Msg("no click files found, interaction log is empty")
		return NewLog(nil), nil
	}
	sort.Strings(paths)
	if len(paths) > fileLimit {
		paths = paths[:fileLimit]
	}

	// 并发读文件，按文件名顺序合并，保证事件顺序确定。
	perFile := make([][]Event, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			events, err := loadFile(path)
			if err != nil {
				logger.Warn().Str("file", path).Err(err).Msg("skipping click file")
				return nil
			}
			perFile[i] = events
			return nil
		})
	}
	_ = g.Wait()

	var all []Event
	loaded := 0
	for _, events := range perFile {
		if events == nil {
			continue
		}
		loaded++
		all = append(all, events...)
	}

	log := NewLog(all)
	if log.Empty() {
		logger.Warn().Msg("no click files loaded, interaction log is empty")
	} else {
		logger.Info().Int("files", loaded).Int("clicks", log.Len()).Msg("click log loaded")
	}
	return log, nil
}

func loadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) ([]Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleClicks, core.ErrorCodeMalformed,
			fmt.Sprintf("clicks: read header: %v", err))
	}
	userCol, articleCol := -1, -1
	for i, name := range header {
		switch name {
		case colUserID:
			userCol = i
		case colArticleID:
			articleCol = i
		}
	}
	if userCol < 0 || articleCol < 0 {
		return nil, core.NewDomainError(core.ModuleClicks, core.ErrorCodeMalformed,
			"clicks: file has no user_id/click_article_id columns")
	}

	var events []Event
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.NewDomainError(core.ModuleClicks, core.ErrorCodeMalformed,
				fmt.Sprintf("clicks: read row: %v", err))
		}
		if userCol >= len(record) || articleCol >= len(record) {
			continue
		}
		userID, err := strconv.ParseInt(record[userCol], 10, 64)
		if err != nil {
			continue
		}
		articleID, err := strconv.ParseInt(record[articleCol], 10, 64)
		if err != nil {
			continue
		}
		events = append(events, Event{UserID: userID, ArticleID: articleID})
	}
	return events, nil
}
