// Tencent is pleased to support the open source community by making
// 蓝鲸智云 - 监控平台 (BlueKing - Monitor) available.
// Copyright (C) 2022 THL A29 Limited, a Tencent company. All rights reserved.
// Licensed under the MIT License (the "License"); you may not use this file except in compliance with the License.
// You may obtain a copy of the License at http://opensource.org/licenses/MIT
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package querystring

import (
	"strings"
)

// ValuePair 展示值到存储值的映射
type ValuePair struct {
	Value   string
	Display string
}

// ValueTable 按字段组织的值翻译表，字段按注册顺序排列，
// 同一字段内展示值按注册顺序匹配
type ValueTable struct {
	fields []string
	pairs  map[string][]ValuePair
}

// NewValueTable .
func NewValueTable() *ValueTable {
	return &ValueTable{pairs: make(map[string][]ValuePair)}
}

// Add 注册一条翻译，返回自身便于链式调用
func (t *ValueTable) Add(field, display, value string) *ValueTable {
	if _, ok := t.pairs[field]; !ok {
		t.fields = append(t.fields, field)
	}
	t.pairs[field] = append(t.pairs[field], ValuePair{Value: value, Display: display})
	return t
}

// Translate 在指定字段的翻译表中查找展示值对应的存储值
func (t *ValueTable) Translate(field, display string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, pair := range t.pairs[field] {
		if pair.Display == display {
			return pair.Value, true
		}
	}
	return "", false
}

// Match 在所有字段中按注册顺序查找展示值，返回首个命中的字段和存储值
func (t *ValueTable) Match(display string) (string, string, bool) {
	if t == nil {
		return "", "", false
	}
	for _, field := range t.fields {
		for _, pair := range t.pairs[field] {
			if pair.Display == display {
				return field, pair.Value, true
			}
		}
	}
	return "", "", false
}

// Rewrite 对表达式树做字段映射和值翻译，无字段的普通词项若命中翻译表
// 则放宽为 原词 OR (字段: 存储值)，保证不改变原有召回。
// 改写不修改输入树，未变化的子树直接复用原节点
func Rewrite(e Expr, fieldMapping map[string]string, values *ValueTable) Expr {
	if e == nil {
		return nil
	}
	switch expr := e.(type) {
	case *TermExpr:
		return rewriteTerm(expr, fieldMapping, values)
	case *RangeExpr:
		return rewriteRange(expr, fieldMapping, values)
	case *NotExpr:
		inner := Rewrite(expr.Expr, fieldMapping, values)
		if inner == expr.Expr {
			return expr
		}
		return NewNotExpr(inner)
	case *GroupExpr:
		changed := false
		children := make([]Expr, len(expr.Children))
		for i, child := range expr.Children {
			children[i] = Rewrite(child, fieldMapping, values)
			if children[i] != child {
				changed = true
			}
		}
		if !changed {
			return expr
		}
		return NewGroupExpr(expr.Op, children...)
	default:
		return e
	}
}

func rewriteTerm(expr *TermExpr, fieldMapping map[string]string, values *ValueTable) Expr {
	if expr.Field == "" {
		// 放宽仅针对普通裸词，短语和通配符保持原样
		if expr.IsQuoted || expr.IsWildcard {
			return expr
		}
		field, value, ok := values.Match(expr.Value)
		if !ok {
			return expr
		}
		tagged := NewTermExpr(value)
		tagged.Field = field
		return NewGroupExpr(OpOr, expr, NewGroupExpr(OpAnd, tagged))
	}

	field := expr.Field
	if mapped, ok := fieldMapping[field]; ok {
		field = mapped
	}
	value := expr.Value
	if !expr.IsWildcard {
		if translated, ok := values.Translate(field, value); ok {
			value = translated
		}
	}
	if field == expr.Field && value == expr.Value {
		return expr
	}

	out := &TermExpr{
		Field:      field,
		Value:      value,
		IsQuoted:   expr.IsQuoted,
		IsWildcard: expr.IsWildcard,
	}
	if !out.IsQuoted {
		out.IsWildcard = strings.ContainsAny(value, wildcardChars)
	}
	return out
}

func rewriteRange(expr *RangeExpr, fieldMapping map[string]string, values *ValueTable) Expr {
	field := expr.Field
	if mapped, ok := fieldMapping[field]; ok {
		field = mapped
	}
	start, startChanged := rewriteBound(expr.Start, field, values)
	end, endChanged := rewriteBound(expr.End, field, values)
	if field == expr.Field && !startChanged && !endChanged {
		return expr
	}
	out := NewRangeExpr(start, end, expr.IncludeStart, expr.IncludeEnd)
	out.Field = field
	return out
}

func rewriteBound(bound *string, field string, values *ValueTable) (*string, bool) {
	if bound == nil {
		return nil, false
	}
	if translated, ok := values.Translate(field, *bound); ok {
		return &translated, true
	}
	return bound, false
}
