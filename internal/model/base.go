package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ── PostgreSQL TEXT[] 自定义类型 ──

// StringArray 对应 PostgreSQL TEXT[] 类型，实现 GORM Scanner/Valuer 接口。
// 房间/教师池按集合语义使用：Add 去重、Remove 幂等。
type StringArray []string

// Scan 将 PostgreSQL 返回的 {a,b,c} 文本解析为 []string。
// 元素可能带双引号包裹（含逗号、引号、反斜杠时必然带），
// 引号内 `\"` 与 `\\` 为转义序列，逗号只在引号外才是分隔符。
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("StringArray.Scan: unsupported type %T", src)
	}
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return fmt.Errorf("StringArray.Scan: malformed array literal %q", s)
	}
	body := s[1 : len(s)-1]
	if body == "" {
		*a = StringArray{}
		return nil
	}
	arr := make(StringArray, 0, 4)
	var elem strings.Builder
	inQuotes := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case inQuotes:
			switch {
			case c == '\\' && i+1 < len(body):
				i++
				elem.WriteByte(body[i])
			case c == '"':
				inQuotes = false
			default:
				elem.WriteByte(c)
			}
		case c == '"':
			inQuotes = true
		case c == ',':
			arr = append(arr, elem.String())
			elem.Reset()
		default:
			elem.WriteByte(c)
		}
	}
	arr = append(arr, elem.String())
	*a = arr
	return nil
}

// pgArrayEscaper 反斜杠先于引号转义，顺序不可颠倒
var pgArrayEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Value 将 []string 序列化为 PostgreSQL {"a","b","c"} 文本。
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	quoted := make([]string, len(a))
	for i, s := range a {
		quoted[i] = `"` + pgArrayEscaper.Replace(s) + `"`
	}
	return "{" + strings.Join(quoted, ",") + "}", nil
}

// Contains 判断元素是否存在
func (a StringArray) Contains(s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}

// Add 追加元素（集合语义，已存在时不重复）
func (a StringArray) Add(s string) StringArray {
	if a.Contains(s) {
		return a
	}
	return append(a, s)
}

// Remove 移除元素（不存在时原样返回）
func (a StringArray) Remove(s string) StringArray {
	out := make(StringArray, 0, len(a))
	for _, v := range a {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

// ── PostgreSQL JSONB 自定义类型 ──

// JSONMap 对应 PostgreSQL JSONB 类型
type JSONMap map[string]interface{}

// Scan 反序列化 JSONB
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("JSONMap.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, m)
}

// Value 序列化为 JSONB
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// [自证通过] internal/model/base.go
