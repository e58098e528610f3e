// Tencent is pleased to support the open source community by making
// 蓝鲸智云 - 监控平台 (BlueKing - Monitor) available.
// Copyright (C) 2022 THL A29 Limited, a Tencent company. All rights reserved.
// Licensed under the MIT License (the "License"); you may not use this file except in compliance with the License.
// You may obtain a copy of the License at http://opensource.org/licenses/MIT
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package builder

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/TencentBlueKing/bk-esquery/querystring"
	"github.com/TencentBlueKing/bk-esquery/structured"
)

// ConditionParser 单个条件到语法树的转换，自定义操作符的扩展点
type ConditionParser interface {
	Parse(c structured.Condition) (querystring.Expr, error)
}

// QueryStringBuilder 将结构化条件拼装为查询字符串
type QueryStringBuilder struct {
	conditions []structured.Condition
	relation   structured.GroupRelation
	parser     ConditionParser
}

// NewQueryStringBuilder 默认按 and 关系组合条件
func NewQueryStringBuilder() *QueryStringBuilder {
	return &QueryStringBuilder{relation: structured.RelationAnd}
}

// WithRelation .
func (b *QueryStringBuilder) WithRelation(relation structured.GroupRelation) *QueryStringBuilder {
	b.relation = relation
	return b
}

// WithParser 注册自定义条件解析器，内置操作符不认识的条件交给它处理
func (b *QueryStringBuilder) WithParser(parser ConditionParser) *QueryStringBuilder {
	b.parser = parser
	return b
}

// AddCondition .
func (b *QueryStringBuilder) AddCondition(c structured.Condition) *QueryStringBuilder {
	b.conditions = append(b.conditions, c)
	return b
}

// Build 没有条件时返回空字符串
func (b *QueryStringBuilder) Build() (string, error) {
	if len(b.conditions) == 0 {
		return "", nil
	}
	children := make([]querystring.Expr, 0, len(b.conditions))
	for _, c := range b.conditions {
		e, err := b.conditionExpr(c)
		if err != nil {
			return "", err
		}
		children = append(children, e)
	}
	if len(children) == 1 {
		return querystring.String(children[0]), nil
	}
	op := querystring.OpAnd
	if b.relation == structured.RelationOr {
		op = querystring.OpOr
	}
	return querystring.String(querystring.NewGroupExpr(op, children...)), nil
}

// Build 按 and 关系把条件列表拼装为查询字符串
func Build(conditions []structured.Condition) (string, error) {
	b := NewQueryStringBuilder()
	for _, c := range conditions {
		b.AddCondition(c)
	}
	return b.Build()
}

func (b *QueryStringBuilder) conditionExpr(c structured.Condition) (querystring.Expr, error) {
	if !querystring.ValidIdentifier(c.FieldName) {
		return nil, &querystring.InvalidIdentifierError{Field: c.FieldName}
	}

	switch c.Operator {
	case structured.ConditionEqual:
		return b.equalExpr(c)
	case structured.ConditionNotEqual:
		inner, err := b.equalExpr(c)
		if err != nil {
			return nil, err
		}
		return querystring.NewNotExpr(inner), nil
	case structured.ConditionInclude:
		return b.includeExpr(c)
	case structured.ConditionNotInclude:
		inner, err := b.includeExpr(c)
		if err != nil {
			return nil, err
		}
		return querystring.NewNotExpr(inner), nil
	case structured.ConditionGt, structured.ConditionGte, structured.ConditionLt, structured.ConditionLte:
		return b.compareExpr(c)
	case structured.ConditionBetween:
		if len(c.Value) != 2 {
			return nil, errors.Errorf("operator between requires exactly 2 values, got %d", len(c.Value))
		}
		start := cast.ToString(c.Value[0])
		end := cast.ToString(c.Value[1])
		r := querystring.NewRangeExpr(&start, &end, true, true)
		r.Field = c.FieldName
		return r, nil
	case structured.ConditionExists:
		return existsExpr(c.FieldName), nil
	case structured.ConditionNotExists:
		return querystring.NewNotExpr(existsExpr(c.FieldName)), nil
	case structured.ConditionReg:
		if len(c.Value) == 0 {
			return nil, errors.Errorf("operator reg requires a value")
		}
		return &querystring.RawExpr{Field: c.FieldName, Text: cast.ToString(c.Value[0])}, nil
	case structured.ConditionNotReg:
		if len(c.Value) == 0 {
			return nil, errors.Errorf("operator nreg requires a value")
		}
		raw := &querystring.RawExpr{Field: c.FieldName, Text: cast.ToString(c.Value[0])}
		return querystring.NewNotExpr(raw), nil
	default:
		if b.parser != nil {
			return b.parser.Parse(c)
		}
		return nil, &UnsupportedOperatorError{Operator: c.Operator}
	}
}

// equalExpr 多值等于组合为同字段 or 组，序列化为 field: ("v1" OR "v2")
func (b *QueryStringBuilder) equalExpr(c structured.Condition) (querystring.Expr, error) {
	terms, err := valueTerms(c, func(value string) *querystring.TermExpr {
		term := querystring.NewTermExpr(value)
		if c.IsWildcard {
			return term
		}
		term.IsQuoted = true
		term.IsWildcard = false
		return term
	})
	if err != nil {
		return nil, err
	}
	return combineValues(terms, c.GroupRelation), nil
}

// includeExpr 包含语义，值两侧拼接通配符；调用方已带通配符的值原样使用
func (b *QueryStringBuilder) includeExpr(c structured.Condition) (querystring.Expr, error) {
	terms, err := valueTerms(c, func(value string) *querystring.TermExpr {
		term := querystring.NewTermExpr(includePattern(c, value))
		term.IsWildcard = true
		return term
	})
	if err != nil {
		return nil, err
	}
	return combineValues(terms, c.GroupRelation), nil
}

func (b *QueryStringBuilder) compareExpr(c structured.Condition) (querystring.Expr, error) {
	if len(c.Value) == 0 {
		return nil, errors.Errorf("operator %s requires a value", c.Operator)
	}
	bound := cast.ToString(c.Value[0])
	var r *querystring.RangeExpr
	switch c.Operator {
	case structured.ConditionGt:
		r = querystring.NewRangeExpr(&bound, nil, false, false)
	case structured.ConditionGte:
		r = querystring.NewRangeExpr(&bound, nil, true, false)
	case structured.ConditionLt:
		r = querystring.NewRangeExpr(nil, &bound, false, false)
	default:
		r = querystring.NewRangeExpr(nil, &bound, false, true)
	}
	r.Field = c.FieldName
	return r, nil
}

func existsExpr(field string) querystring.Expr {
	term := querystring.NewTermExpr("*")
	term.Field = field
	return term
}

func valueTerms(c structured.Condition, build func(string) *querystring.TermExpr) ([]querystring.Expr, error) {
	if len(c.Value) == 0 {
		return nil, errors.Errorf("operator %s requires at least one value", c.Operator)
	}
	terms := make([]querystring.Expr, 0, len(c.Value))
	for _, v := range c.Value {
		term := build(cast.ToString(v))
		term.Field = c.FieldName
		terms = append(terms, term)
	}
	return terms, nil
}

// includePattern 通配符值由调用方负责，其余值两侧拼接 *
func includePattern(c structured.Condition, value string) string {
	if c.IsWildcard && strings.ContainsAny(value, "*?") {
		return value
	}
	return "*" + value + "*"
}

// combineValues 多个查询值按条件的 group_relation 组合，默认 or
func combineValues(terms []querystring.Expr, relation structured.GroupRelation) querystring.Expr {
	if len(terms) == 1 {
		return terms[0]
	}
	op := querystring.OpOr
	if relation == structured.RelationAnd {
		op = querystring.OpAnd
	}
	return querystring.NewGroupExpr(op, terms...)
}
