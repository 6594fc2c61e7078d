package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 传播策略：管线中任何领域错误都立即终止本次运行，不产出部分结果；
// 是否整体重试由调用方决定。
type DomainError struct {
	Code    string // 错误代码（如 "MISSING_DATA", "UNKNOWN_METRIC"）
	Message string // 错误消息
	Module  string // 模块名称（如 "reader", "matrix", "similarity"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeDataLoad       = "DATA_LOAD"       // 数据源不可读或格式错误
	ErrorCodeMissingData    = "MISSING_DATA"    // 训练集实体全集为空
	ErrorCodeUnmappedEntity = "UNMAPPED_ENTITY" // 交互引用了映射之外的实体（契约错误）
	ErrorCodeEmptyMatrix    = "EMPTY_MATRIX"    // 反馈矩阵任一维度为零
	ErrorCodeUnknownMetric  = "UNKNOWN_METRIC"  // 相似度/评估度量名未注册
	ErrorCodeNotFound       = "NOT_FOUND"       // 存储中资源不存在
)

// 模块名称常量
const (
	ModuleReader     = "reader"     // 数据读取模块
	ModuleIndex      = "index"      // 标识符映射模块
	ModuleMatrix     = "matrix"     // 反馈矩阵模块
	ModuleSimilarity = "similarity" // 相似度模块
	ModulePipeline   = "pipeline"   // 管线编排模块
	ModuleEval       = "eval"       // 评估模块
	ModuleStore      = "store"      // 存储模块
)

// 通用错误检查函数

// IsDataLoad 检查错误是否为 DATA_LOAD
func IsDataLoad(err error) bool {
	return hasCode(err, ErrorCodeDataLoad)
}

// IsMissingData 检查错误是否为 MISSING_DATA
func IsMissingData(err error) bool {
	return hasCode(err, ErrorCodeMissingData)
}

// IsUnmappedEntity 检查错误是否为 UNMAPPED_ENTITY
func IsUnmappedEntity(err error) bool {
	return hasCode(err, ErrorCodeUnmappedEntity)
}

// IsEmptyMatrix 检查错误是否为 EMPTY_MATRIX
func IsEmptyMatrix(err error) bool {
	return hasCode(err, ErrorCodeEmptyMatrix)
}

// IsUnknownMetric 检查错误是否为 UNKNOWN_METRIC
func IsUnknownMetric(err error) bool {
	return hasCode(err, ErrorCodeUnknownMetric)
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}
