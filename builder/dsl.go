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
	"context"
	"strconv"

	"github.com/olivere/elastic/v7"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/TencentBlueKing/bk-esquery/metric"
	"github.com/TencentBlueKing/bk-esquery/querystring"
	"github.com/TencentBlueKing/bk-esquery/structured"
	"github.com/TencentBlueKing/bk-esquery/transformer"
)

// DslParser 单个条件到 ES 查询的转换，与 ConditionParser 对应的 DSL 侧扩展点
type DslParser interface {
	Parse(c structured.Condition) (elastic.Query, error)
}

type defaultDslParser struct{}

func (defaultDslParser) Parse(c structured.Condition) (elastic.Query, error) {
	if !querystring.ValidIdentifier(c.FieldName) {
		return nil, &querystring.InvalidIdentifierError{Field: c.FieldName}
	}

	switch c.Operator {
	case structured.ConditionEqual:
		return equalQuery(c)
	case structured.ConditionNotEqual:
		query, err := equalQuery(c)
		if err != nil {
			return nil, err
		}
		return elastic.NewBoolQuery().MustNot(query), nil
	case structured.ConditionInclude:
		return includeQuery(c)
	case structured.ConditionNotInclude:
		query, err := includeQuery(c)
		if err != nil {
			return nil, err
		}
		return elastic.NewBoolQuery().MustNot(query), nil
	case structured.ConditionGt:
		return rangeQuery(c, func(q *elastic.RangeQuery, v any) { q.Gt(v) })
	case structured.ConditionGte:
		return rangeQuery(c, func(q *elastic.RangeQuery, v any) { q.Gte(v) })
	case structured.ConditionLt:
		return rangeQuery(c, func(q *elastic.RangeQuery, v any) { q.Lt(v) })
	case structured.ConditionLte:
		return rangeQuery(c, func(q *elastic.RangeQuery, v any) { q.Lte(v) })
	case structured.ConditionBetween:
		if len(c.Value) != 2 {
			return nil, errors.Errorf("operator between requires exactly 2 values, got %d", len(c.Value))
		}
		return elastic.NewRangeQuery(c.FieldName).Gte(c.Value[0]).Lte(c.Value[1]), nil
	case structured.ConditionExists:
		return elastic.NewExistsQuery(c.FieldName), nil
	case structured.ConditionNotExists:
		return elastic.NewBoolQuery().MustNot(elastic.NewExistsQuery(c.FieldName)), nil
	case structured.ConditionReg:
		if len(c.Value) == 0 {
			return nil, errors.Errorf("operator reg requires a value")
		}
		return elastic.NewRegexpQuery(c.FieldName, cast.ToString(c.Value[0])), nil
	case structured.ConditionNotReg:
		if len(c.Value) == 0 {
			return nil, errors.Errorf("operator nreg requires a value")
		}
		return elastic.NewBoolQuery().MustNot(
			elastic.NewRegexpQuery(c.FieldName, cast.ToString(c.Value[0])),
		), nil
	default:
		return nil, &UnsupportedOperatorError{Operator: c.Operator}
	}
}

func equalQuery(c structured.Condition) (elastic.Query, error) {
	if len(c.Value) == 0 {
		return nil, errors.Errorf("operator %s requires at least one value", c.Operator)
	}
	if c.IsWildcard {
		queries := make([]elastic.Query, 0, len(c.Value))
		for _, v := range c.Value {
			queries = append(queries, elastic.NewWildcardQuery(c.FieldName, cast.ToString(v)))
		}
		return combineQueries(queries, c.GroupRelation), nil
	}
	if len(c.Value) == 1 {
		return elastic.NewTermQuery(c.FieldName, c.Value[0]), nil
	}
	// terms 查询本身是 or 语义，and 关系要求每个值都命中
	if c.GroupRelation == structured.RelationAnd {
		queries := make([]elastic.Query, 0, len(c.Value))
		for _, v := range c.Value {
			queries = append(queries, elastic.NewTermQuery(c.FieldName, v))
		}
		return elastic.NewBoolQuery().Must(queries...), nil
	}
	return elastic.NewTermsQuery(c.FieldName, c.Value...), nil
}

func includeQuery(c structured.Condition) (elastic.Query, error) {
	if len(c.Value) == 0 {
		return nil, errors.Errorf("operator %s requires at least one value", c.Operator)
	}
	queries := make([]elastic.Query, 0, len(c.Value))
	for _, v := range c.Value {
		queries = append(queries, elastic.NewWildcardQuery(c.FieldName, includePattern(c, cast.ToString(v))))
	}
	return combineQueries(queries, c.GroupRelation), nil
}

func combineQueries(queries []elastic.Query, relation structured.GroupRelation) elastic.Query {
	if len(queries) == 1 {
		return queries[0]
	}
	if relation == structured.RelationAnd {
		return elastic.NewBoolQuery().Must(queries...)
	}
	return elastic.NewBoolQuery().Should(queries...).MinimumShouldMatch("1")
}

func rangeQuery(c structured.Condition, bind func(*elastic.RangeQuery, any)) (elastic.Query, error) {
	if len(c.Value) == 0 {
		return nil, errors.Errorf("operator %s requires a value", c.Operator)
	}
	query := elastic.NewRangeQuery(c.FieldName)
	bind(query, c.Value[0])
	return query, nil
}

// rawAggregation 未建模的聚合配置，原样进入 search source
type rawAggregation struct {
	body map[string]any
}

func (a rawAggregation) Source() (interface{}, error) {
	return a.body, nil
}

// RawAggregation .
func RawAggregation(body map[string]any) elastic.Aggregation {
	return rawAggregation{body: body}
}

// DslBuilder 组装查询条件为 elastic.SearchSource
type DslBuilder struct {
	parser      DslParser
	transformer *transformer.Transformer

	boolQuery   *elastic.BoolQuery
	queryString string
	hasQuery    bool

	sorters      []elastic.Sorter
	aggregations map[string]elastic.Aggregation
	aggOrder     []string

	from *int
	size *int

	err error
}

// NewDslBuilder .
func NewDslBuilder() *DslBuilder {
	return &DslBuilder{
		parser:       defaultDslParser{},
		boolQuery:    elastic.NewBoolQuery(),
		aggregations: make(map[string]elastic.Aggregation),
	}
}

// WithParser 替换条件到 DSL 的转换实现
func (b *DslBuilder) WithParser(parser DslParser) *DslBuilder {
	b.parser = parser
	return b
}

// WithTransformer 查询字符串在进入 DSL 前先经过转换管道
func (b *DslBuilder) WithTransformer(t *transformer.Transformer) *DslBuilder {
	b.transformer = t
	return b
}

// AddConditions 条件按 filter 语义进入 bool 查询
func (b *DslBuilder) AddConditions(conditions ...structured.Condition) *DslBuilder {
	for _, c := range conditions {
		query, err := b.parser.Parse(c)
		if err != nil {
			b.setErr(errors.WithMessagef(err, "condition %s", c.String()))
			return b
		}
		b.boolQuery.Filter(query)
		b.hasQuery = true
	}
	return b
}

// AddConditionGroup 条件组整体作为一个 filter 子句
func (b *DslBuilder) AddConditionGroup(group structured.ConditionGroup) *DslBuilder {
	query, err := b.conditionGroupQuery(group)
	if err != nil {
		b.setErr(err)
		return b
	}
	b.boolQuery.Filter(query)
	b.hasQuery = true
	return b
}

// AddNestedCondition nested 字段上的条件组
func (b *DslBuilder) AddNestedCondition(nested structured.NestedCondition) *DslBuilder {
	if nested.Path == "" {
		b.setErr(errors.New("nested condition requires a path"))
		return b
	}
	inner, err := b.conditionGroupQuery(nested.Group)
	if err != nil {
		b.setErr(err)
		return b
	}
	query := elastic.NewNestedQuery(nested.Path, inner)
	if nested.ScoreMode != "" {
		query.ScoreMode(nested.ScoreMode)
	}
	if nested.InnerHits {
		query.InnerHit(elastic.NewInnerHit())
	}
	b.boolQuery.Filter(query)
	b.hasQuery = true
	return b
}

// AddFilter 已经构造好的查询直接作为 filter 子句
func (b *DslBuilder) AddFilter(query elastic.Query) *DslBuilder {
	b.boolQuery.Filter(query)
	b.hasQuery = true
	return b
}

// QueryString .
func (b *DslBuilder) QueryString(query string) *DslBuilder {
	b.queryString = query
	return b
}

// Ordering .
func (b *DslBuilder) Ordering(field string, ascending bool) *DslBuilder {
	b.sorters = append(b.sorters, elastic.NewFieldSort(field).Order(ascending))
	return b
}

// Pagination .
func (b *DslBuilder) Pagination(from, size int) *DslBuilder {
	b.from = &from
	b.size = &size
	return b
}

// AddAggregation 同名聚合后写覆盖前写
func (b *DslBuilder) AddAggregation(name string, agg elastic.Aggregation) *DslBuilder {
	if _, ok := b.aggregations[name]; !ok {
		b.aggOrder = append(b.aggOrder, name)
	}
	b.aggregations[name] = agg
	return b
}

// SearchSource 组装最终的 search source，任何一步失败都会在这里返回
func (b *DslBuilder) SearchSource(ctx context.Context) (*elastic.SearchSource, error) {
	if b.err != nil {
		metric.HandleCountInc(ctx, metric.ActionBuild, metric.StatusFailed)
		return nil, b.err
	}

	if b.queryString != "" {
		text := b.queryString
		if b.transformer != nil {
			transformed, err := b.transformer.Transform(ctx, text)
			if err != nil {
				metric.HandleCountInc(ctx, metric.ActionBuild, metric.StatusFailed)
				return nil, err
			}
			text = transformed
		}
		if text != "" && text != "*" {
			b.boolQuery.Must(elastic.NewQueryStringQuery(text).AnalyzeWildcard(true))
			b.hasQuery = true
		}
	}

	source := elastic.NewSearchSource()
	if b.hasQuery {
		source.Query(b.boolQuery)
	}
	for _, sorter := range b.sorters {
		source.SortBy(sorter)
	}
	for _, name := range b.aggOrder {
		source.Aggregation(name, b.aggregations[name])
	}
	if b.from != nil {
		source.From(*b.from)
	}
	if b.size != nil {
		source.Size(*b.size)
	}
	metric.HandleCountInc(ctx, metric.ActionBuild, metric.StatusSuccess)
	return source, nil
}

func (b *DslBuilder) conditionGroupQuery(group structured.ConditionGroup) (elastic.Query, error) {
	if len(group.Conditions) == 0 {
		return nil, errors.New("condition group requires at least one condition")
	}
	queries := make([]elastic.Query, 0, len(group.Conditions))
	for _, c := range group.Conditions {
		query, err := b.parser.Parse(c)
		if err != nil {
			return nil, errors.WithMessagef(err, "condition %s", c.String())
		}
		queries = append(queries, query)
	}

	switch group.Relation {
	case structured.RelationOr:
		query := elastic.NewBoolQuery().Should(queries...)
		minimum := group.MinimumShouldMatch
		if minimum <= 0 {
			minimum = 1
		}
		query.MinimumShouldMatch(strconv.Itoa(minimum))
		return query, nil
	default:
		return elastic.NewBoolQuery().Must(queries...), nil
	}
}

func (b *DslBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}
