package config

import "errors"

// 目录边界的错误类型
// 调用者可使用 errors.Is 检查错误类型：
//
//	if errors.Is(err, config.ErrInvalidLevelReference) {
//	    // 关卡ID不存在，保持当前状态
//	}
var (
	// ErrMissingEntityDefinition 刷怪表引用了不存在的目标类型
	ErrMissingEntityDefinition = errors.New("missing entity definition")

	// ErrInvalidLevelReference 加载请求引用了不存在的关卡
	ErrInvalidLevelReference = errors.New("invalid level reference")

	// ErrResourceNotReady 资源仍在异步解码中，调用方应在下一帧重试
	ErrResourceNotReady = errors.New("resource not ready")
)
