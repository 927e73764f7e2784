package embedding

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rushteam/mycontent/core"
)

// pairArtifact 是 pair 形态的 JSON 布局。
type pairArtifact struct {
	ArticleIDs []int64     `json:"article_ids"`
	Embeddings [][]float64 `json:"embeddings"`
}

// Decode 识别制品形态并归一化为 Store：
//   - 顶层是数组      -> matrix 形态（需要 catalogIDs 做位置赋值）
//   - 顶层是对象且带有 article_ids/embeddings 键 -> pair 形态
//   - 其余对象        -> mapping 形态，键必须可解析为整数 ID
func Decode(data []byte, catalogIDs []int64) (*Store, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed, "embedding: artifact is empty")
	}

	switch trimmed[0] {
	case '[':
		var matrix [][]float64
		if err := json.Unmarshal(trimmed, &matrix); err != nil {
			return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed,
				fmt.Sprintf("embedding: decode matrix artifact: %v", err))
		}
		return FromMatrix(matrix, catalogIDs)

	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed,
				fmt.Sprintf("embedding: decode object artifact: %v", err))
		}
		if _, hasIDs := raw["article_ids"]; hasIDs {
			if _, hasVecs := raw["embeddings"]; hasVecs {
				var pair pairArtifact
				if err := json.Unmarshal(trimmed, &pair); err != nil {
					return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed,
						fmt.Sprintf("embedding: decode pair artifact: %v", err))
				}
				return FromPair(pair.ArticleIDs, pair.Embeddings)
			}
		}
		mapping := make(map[int64][]float64, len(raw))
		for key, val := range raw {
			id, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed,
					fmt.Sprintf("embedding: mapping key %q is not an article id", key))
			}
			var vec []float64
			if err := json.Unmarshal(val, &vec); err != nil {
				return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed,
					fmt.Sprintf("embedding: vector of article %d: %v", id, err))
			}
			mapping[id] = vec
		}
		return FromMapping(mapping)
	}

	return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeMalformed,
		"embedding: unrecognized artifact layout, expected JSON object or array")
}

// Load 从文件读取向量制品并归一化。加载失败是致命的，直接向上返回。
func Load(path string, catalogIDs []int64, logger zerolog.Logger) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("embedding: read artifact %s: %w", path, err)
	}
	s, err := Decode(data, catalogIDs)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("shape", string(s.Shape())).
		Int("articles", s.Len()).
		Int("dimension", s.Dimension()).
		Msg("embeddings loaded")
	return s, nil
}
