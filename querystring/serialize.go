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
	"fmt"
	"strings"
)

// String 将表达式树序列化为查询字符串，输出可以被 Parse 重新解析为
// 等价的树。nil 树序列化为空串，空组或未知节点类型会 panic
func String(e Expr) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	writeExpr(&b, e, "")
	return b.String()
}

// parentOp 为父节点的布尔运算符，NOT 同样视为一种父运算符，
// 顶层为空串
func writeExpr(b *strings.Builder, e Expr, parentOp string) {
	switch expr := e.(type) {
	case *TermExpr:
		if expr.Field != "" {
			b.WriteString(expr.Field)
			b.WriteString(": ")
		}
		b.WriteString(formatValue(expr))
	case *RangeExpr:
		writeRange(b, expr)
	case *NotExpr:
		b.WriteString("NOT ")
		writeExpr(b, expr.Expr, "NOT")
	case *GroupExpr:
		writeGroup(b, expr, parentOp)
	case *RawExpr:
		if expr.Field != "" {
			b.WriteString(expr.Field)
			b.WriteString(": ")
		}
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(expr.Text, "/", `\/`))
		b.WriteByte('/')
	default:
		panic(fmt.Sprintf("querystring: unknown expr type %T", e))
	}
}

func formatValue(expr *TermExpr) string {
	switch {
	case expr.IsQuoted:
		return Quote(expr.Value)
	case expr.IsWildcard:
		return EscapeKeepWildcard(expr.Value)
	case strings.ContainsAny(expr.Value, " \t\n\r"), isKeyword(expr.Value):
		return Quote(expr.Value)
	default:
		return Escape(expr.Value)
	}
}

// isKeyword 裸值与关键字同形时必须加引号，否则无法再次解析
func isKeyword(value string) bool {
	switch value {
	case "AND", "OR", "NOT", "TO":
		return true
	}
	return false
}

func writeRange(b *strings.Builder, expr *RangeExpr) {
	if expr.Field != "" {
		b.WriteString(expr.Field)
		b.WriteString(": ")
	}

	// 单边区间使用比较运算符简写
	if expr.Start != nil && expr.End == nil {
		if expr.IncludeStart {
			b.WriteString(">=")
		} else {
			b.WriteString(">")
		}
		b.WriteString(rangeBoundString(expr.Start))
		return
	}
	if expr.Start == nil && expr.End != nil {
		if expr.IncludeEnd {
			b.WriteString("<=")
		} else {
			b.WriteString("<")
		}
		b.WriteString(rangeBoundString(expr.End))
		return
	}

	// 无界一侧按惯例使用方括号
	if expr.IncludeStart || expr.Start == nil {
		b.WriteByte('[')
	} else {
		b.WriteByte('{')
	}
	b.WriteString(rangeBoundString(expr.Start))
	b.WriteString(" TO ")
	b.WriteString(rangeBoundString(expr.End))
	if expr.IncludeEnd || expr.End == nil {
		b.WriteByte(']')
	} else {
		b.WriteByte('}')
	}
}

func rangeBoundString(bound *string) string {
	if bound == nil {
		return "*"
	}
	if isKeyword(*bound) {
		return Quote(*bound)
	}
	return Escape(*bound)
}

func writeGroup(b *strings.Builder, group *GroupExpr, parentOp string) {
	if len(group.Children) == 0 {
		panic("querystring: empty group")
	}

	// 所有子节点共享同一字段时折叠为 field: (v1 OP v2) 形式
	if field, ok := sharedField(group); ok {
		b.WriteString(field)
		b.WriteString(": (")
		for i, child := range group.Children {
			if i > 0 {
				b.WriteByte(' ')
				b.WriteString(string(group.Op))
				b.WriteByte(' ')
			}
			b.WriteString(formatValue(child.(*TermExpr)))
		}
		b.WriteByte(')')
		return
	}

	needParens := len(group.Children) == 1 ||
		parentOp == "NOT" ||
		(parentOp != "" && parentOp != string(group.Op))
	if needParens {
		b.WriteByte('(')
	}
	for i, child := range group.Children {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(string(group.Op))
			b.WriteByte(' ')
		}
		writeExpr(b, child, string(group.Op))
	}
	if needParens {
		b.WriteByte(')')
	}
}

// sharedField 多个同字段词项组成的组可以折叠，单子节点的组保留
// 显式括号不折叠
func sharedField(group *GroupExpr) (string, bool) {
	if len(group.Children) < 2 {
		return "", false
	}
	var field string
	for i, child := range group.Children {
		term, ok := child.(*TermExpr)
		if !ok || term.Field == "" {
			return "", false
		}
		if i == 0 {
			field = term.Field
		} else if term.Field != field {
			return "", false
		}
	}
	return field, true
}
