package utils

import (
	"math"
	"testing"
)

// TestLerp 测试线性插值
func TestLerp(t *testing.T) {
	tests := []struct {
		name     string
		a, b, t  float64
		expected float64
	}{
		{"起点", 10, 20, 0, 10},
		{"终点", 10, 20, 1, 20},
		{"中点", 10, 20, 0.5, 15},
		{"反向", 20, 10, 0.25, 17.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lerp(tt.a, tt.b, tt.t); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Lerp(%v, %v, %v) = %v, 期望 %v", tt.a, tt.b, tt.t, got, tt.expected)
			}
		})
	}
}

// TestClamp 测试范围限制
func TestClamp(t *testing.T) {
	if got := Clamp(0.1, 0.2, 1); got != 0.2 {
		t.Errorf("Clamp below = %v, 期望 0.2", got)
	}
	if got := Clamp(5, 0.2, 1); got != 1 {
		t.Errorf("Clamp above = %v, 期望 1", got)
	}
	if got := Clamp(0.5, 0.2, 1); got != 0.5 {
		t.Errorf("Clamp inside = %v, 期望 0.5", got)
	}
}

// TestDecayQuart 测试四次方衰减
func TestDecayQuart(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0, 1},
		{"中点", 0.5, 0.0625},
		{"终点", 1, 0},
		{"超出终点", 3, 0},
		{"负值", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecayQuart(tt.input); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("DecayQuart(%v) = %v, 期望 %v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestEaseOutTanh 测试 tanh 缓出单调且趋近 1
func TestEaseOutTanh(t *testing.T) {
	prev := EaseOutTanh(0)
	if prev != 0 {
		t.Errorf("EaseOutTanh(0) = %v, 期望 0", prev)
	}
	for x := 0.1; x < 5; x += 0.1 {
		v := EaseOutTanh(x)
		if v <= prev || v >= 1 {
			t.Fatalf("EaseOutTanh(%v) = %v 不满足单调递增且小于 1", x, v)
		}
		prev = v
	}
}
