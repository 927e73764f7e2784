package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 加载期的致命错误（embeddings/metadata 缺失或损坏）使用此类型显式返回
//   - 查询期的缺数据不走错误路径，而是降级为文档化的默认值/空结果
//   - 提供错误代码（Code）与模块（Module），便于调用方分类处理
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "MALFORMED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "embedding", "catalog"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound     = "NOT_FOUND"     // 资源不存在
	ErrorCodeMalformed    = "MALFORMED"     // 制品格式无法识别或损坏
	ErrorCodeInvalidInput = "INVALID_INPUT" // 输入无效
	ErrorCodeNotSupported = "NOT_SUPPORTED" // 操作不支持
)

// 模块名称常量
const (
	ModuleEmbedding = "embedding" // 向量存储
	ModuleCatalog   = "catalog"   // 文章目录
	ModuleClicks    = "clicks"    // 行为日志
	ModuleEngine    = "engine"    // 推荐引擎
	ModuleStore     = "store"     // KV 存储
)

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsMalformed 检查错误是否为 MALFORMED。
func IsMalformed(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeMalformed
	}
	return false
}
