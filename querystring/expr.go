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
	"regexp"
	"strings"
)

// BoolOp 布尔连接符
type BoolOp string

const (
	OpAnd BoolOp = "AND"
	OpOr  BoolOp = "OR"
)

// Expr 查询语法树节点
type Expr interface {
}

// FieldableExpr 可以挂载字段名的节点
type FieldableExpr interface {
	SetField(field string)
}

// TermExpr 单个字段匹配，Field 为空表示无字段的全文匹配
type TermExpr struct {
	Field      string
	Value      string
	IsQuoted   bool
	IsWildcard bool
}

// NewTermExpr .
func NewTermExpr(s string) *TermExpr {
	return &TermExpr{
		Value:      s,
		IsWildcard: strings.ContainsAny(s, "*?"),
	}
}

// SetField .
func (q *TermExpr) SetField(field string) {
	q.Field = field
}

// RangeExpr 范围匹配，Start / End 为 nil 表示开边界
type RangeExpr struct {
	Field        string
	Start        *string
	End          *string
	IncludeStart bool
	IncludeEnd   bool
}

// NewRangeExpr .
func NewRangeExpr(start, end *string, includeStart, includeEnd bool) *RangeExpr {
	return &RangeExpr{
		Start:        start,
		End:          end,
		IncludeStart: includeStart,
		IncludeEnd:   includeEnd,
	}
}

// SetField .
func (q *RangeExpr) SetField(field string) {
	q.Field = field
}

// NotExpr .
type NotExpr struct {
	Expr Expr
}

// NewNotExpr .
func NewNotExpr(q Expr) *NotExpr {
	return &NotExpr{Expr: q}
}

// GroupExpr 布尔组合节点，Children 顺序有意义，至少一个子节点。
// 单子节点的组用于保留显式括号。
type GroupExpr struct {
	Op       BoolOp
	Children []Expr
}

// NewGroupExpr .
func NewGroupExpr(op BoolOp, children ...Expr) *GroupExpr {
	return &GroupExpr{Op: op, Children: children}
}

// RawExpr 语法合法但不做语义建模的内容，例如正则表达式，
// 改写和序列化时原样透传
type RawExpr struct {
	Field string
	Text  string
}

var identifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// ValidIdentifier 检查字段名是否符合标识符规则
func ValidIdentifier(field string) bool {
	return identifierRegexp.MatchString(field)
}
