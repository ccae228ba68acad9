package model

import (
	"reflect"
	"testing"
)

// ═══════════════════════════════════════════════════════════
// StringArray 编解码测试
// ═══════════════════════════════════════════════════════════

func TestStringArray_RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   StringArray
	}{
		{"普通元素", StringArray{"R101", "R102", "F1"}},
		{"含逗号", StringArray{"R1,R2"}},
		{"含双引号", StringArray{`Lab "A"`}},
		{"含反斜杠", StringArray{`Block\West`}},
		{"混合", StringArray{"R101", `Lab "A", annex`, `C:\rooms`}},
		{"空数组", StringArray{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := tc.in.Value()
			if err != nil {
				t.Fatalf("Value 失败: %v", err)
			}

			var out StringArray
			if err := out.Scan(v); err != nil {
				t.Fatalf("Scan 失败: %v", err)
			}
			if !reflect.DeepEqual(out, tc.in) {
				t.Errorf("往返不一致: in=%q out=%q", tc.in, out)
			}
		})
	}
}

func TestStringArray_ScanPostgresLiterals(t *testing.T) {
	// 直接喂 PostgreSQL 的原生数组字面量（非引号元素与引号元素混合）
	cases := []struct {
		name string
		in   string
		want StringArray
	}{
		{"非引号元素", "{R101,R102}", StringArray{"R101", "R102"}},
		{"引号内逗号", `{"R1,R2",R3}`, StringArray{"R1,R2", "R3"}},
		{"转义引号", `{"Lab \"A\""}`, StringArray{`Lab "A"`}},
		{"转义反斜杠", `{"a\\b"}`, StringArray{`a\b`}},
		{"空数组", "{}", StringArray{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out StringArray
			if err := out.Scan(tc.in); err != nil {
				t.Fatalf("Scan 失败: %v", err)
			}
			if !reflect.DeepEqual(out, tc.want) {
				t.Errorf("解析结果不符: got %q, want %q", out, tc.want)
			}
		})
	}
}

func TestStringArray_ScanEdgeCases(t *testing.T) {
	var out StringArray
	if err := out.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) 失败: %v", err)
	}
	if out != nil {
		t.Errorf("Scan(nil) 应得到 nil，got %q", out)
	}

	if err := out.Scan("not-an-array"); err == nil {
		t.Error("非法字面量应返回错误")
	}

	if err := out.Scan([]byte(`{"bytes"}`)); err != nil {
		t.Fatalf("Scan([]byte) 失败: %v", err)
	}
	if !reflect.DeepEqual(out, StringArray{"bytes"}) {
		t.Errorf("Scan([]byte) 结果不符: %q", out)
	}
}

func TestStringArray_SetSemantics(t *testing.T) {
	a := StringArray{"R101"}

	a = a.Add("R102")
	a = a.Add("R102") // 重复添加不生效
	if len(a) != 2 {
		t.Errorf("Add 应去重，got %q", a)
	}
	if !a.Contains("R102") {
		t.Error("Contains 应命中新增元素")
	}

	a = a.Remove("R101")
	a = a.Remove("R101") // 幂等
	if len(a) != 1 || a.Contains("R101") {
		t.Errorf("Remove 后状态不符: %q", a)
	}
}
