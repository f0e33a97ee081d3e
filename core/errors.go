package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）、消息（Message）与可选的底层错误（Err）
//   - 支持错误检查函数（IsXXX），按 errors.As 判断，包装后的错误同样可识别
//
// 使用场景：
//   - Catalog 错误：NOT_FOUND（召回后记录消失，由召回节点就地丢弃）
//   - Search 错误：UPSTREAM_FAILURE（外部话题检索失败，请求整体失败，不重试）
//   - Feed 错误：UNAUTHENTICATED（关注流缺少身份，在召回前拒绝）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UPSTREAM_FAILURE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "catalog", "search", "feed"）
	Err     error  // 底层错误，可为 nil
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is 使同 Module、同 Code 的 DomainError 可用 errors.Is 比较。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Module == "" || t.Module == e.Module)
}

// GetDomainError 获取错误链上的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
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

// WrapDomainError 创建携带底层错误的领域错误
func WrapDomainError(module, code string, err error, format string, args ...any) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound        = "NOT_FOUND"        // 资源不存在
	ErrorCodeUnavailable     = "UNAVAILABLE"      // 服务不可用
	ErrorCodeInvalidInput    = "INVALID_INPUT"    // 输入无效
	ErrorCodeUnauthenticated = "UNAUTHENTICATED"  // 缺少身份
	ErrorCodeUpstream        = "UPSTREAM_FAILURE" // 外部依赖返回失败
)

// 模块名称常量
const (
	ModuleCore    = "core"
	ModuleStore   = "store"   // 存储模块
	ModuleCatalog = "catalog" // 目录模块
	ModuleSearch  = "search"  // 话题检索模块
	ModuleFeed    = "feed"    // feed 模块
)

// ErrUnauthenticated 表示请求需要身份但未提供。
var ErrUnauthenticated = NewDomainError(ModuleFeed, ErrorCodeUnauthenticated, "feed: authentication required")

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsUnauthenticated 检查错误是否为 UNAUTHENTICATED
func IsUnauthenticated(err error) bool { return hasCode(err, ErrorCodeUnauthenticated) }

// IsUpstreamFailure 检查错误是否为 UPSTREAM_FAILURE
func IsUpstreamFailure(err error) bool { return hasCode(err, ErrorCodeUpstream) }
