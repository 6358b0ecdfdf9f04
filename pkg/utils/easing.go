// Package utils 提供插值、缓动和阻尼弹簧等通用工具
package utils

import "math"

// 插值与缓动工具
//
// 所有缓动函数接受一个进度值 t，返回缓动后的值。

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp 将 value 限制在 [lo, hi] 范围内
func Clamp(value, lo, hi float64) float64 {
	return math.Min(math.Max(value, lo), hi)
}

// EaseOutTanh 双曲正切缓出
// 特点：开始快，无限趋近 1（结算界面的文字放大、分数飞入）
// 公式：f(t) = tanh(t)
func EaseOutTanh(t float64) float64 {
	return math.Tanh(t)
}

// DecayQuart 四次方衰减，t 超出 [0, 1] 时被截断
// 公式：f(t) = (1-t)⁴（受击抖动强度随时间衰减到 0）
func DecayQuart(t float64) float64 {
	t = Clamp(t, 0, 1)
	return math.Pow(1-t, 4)
}
