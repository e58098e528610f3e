// Tencent is pleased to support the open source community by making
// 蓝鲸智云 - 监控平台 (BlueKing - Monitor) available.
// Copyright (C) 2022 THL A29 Limited, a Tencent company. All rights reserved.
// Licensed under the MIT License (the "License"); you may not use this file except in compliance with the License.
// You may obtain a copy of the License at http://opensource.org/licenses/MIT
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package analyzer

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/TencentBlueKing/bk-esquery/log"
	"github.com/TencentBlueKing/bk-esquery/metric"
)

// Sourcer olivere 的查询和 search source 都实现了这个接口
type Sourcer interface {
	Source() (interface{}, error)
}

// Analyzer 查询 DSL 的静态分析器，不连接集群
type Analyzer struct {
	engine *RuleEngine
}

// New .
func New() *Analyzer {
	return &Analyzer{engine: NewRuleEngine()}
}

// RegisterRule .
func (a *Analyzer) RegisterRule(rule Rule) {
	a.engine.Register(rule)
}

// Analyze 接受原始 DSL 字典、JSON 字节或任意 Sourcer
func (a *Analyzer) Analyze(ctx context.Context, input any) (*Result, error) {
	query, err := normalizeQuery(input)
	if err != nil {
		metric.HandleCountInc(ctx, metric.ActionAnalyze, metric.StatusFailed)
		return nil, err
	}

	result := &Result{
		Suggestions:     a.engine.Analyze(query),
		ComplexityScore: ComplexityScore(query),
	}
	metric.HandleCountInc(ctx, metric.ActionAnalyze, metric.StatusSuccess)
	log.Debugf(ctx, "static analysis done, suggestions->[%d] complexity->[%d]",
		len(result.Suggestions), result.ComplexityScore)
	return result, nil
}

func normalizeQuery(input any) (map[string]any, error) {
	switch query := input.(type) {
	case map[string]any:
		return query, nil
	case []byte:
		var out map[string]any
		if err := sonic.Unmarshal(query, &out); err != nil {
			return nil, errors.WithMessage(err, "invalid dsl json")
		}
		return out, nil
	case Sourcer:
		source, err := query.Source()
		if err != nil {
			return nil, errors.WithMessage(err, "failed to render dsl source")
		}
		// Source 返回的树里可能混有具体类型，经过一次 JSON 归一化
		data, err := sonic.Marshal(source)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to marshal dsl source")
		}
		var out map[string]any
		if err = sonic.Unmarshal(data, &out); err != nil {
			return nil, errors.WithMessage(err, "failed to unmarshal dsl source")
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported query input type %T", input)
	}
}

// ComplexityScore 查询复杂度评分，按嵌套深度、子查询数量和聚合数量
// 加权，封顶 100
func ComplexityScore(query map[string]any) int {
	score := scoreQuery(query, 0)
	if score > 100 {
		score = 100
	}
	return score
}

func scoreQuery(clause map[string]any, depth int) int {
	// 每层嵌套 +5 分
	score := depth * 5

	for key, value := range clause {
		if key == "aggs" || key == "aggregations" {
			if aggs, ok := value.(map[string]any); ok {
				// 每个聚合 +4 分
				score += countAggregations(aggs) * 4
			}
			continue
		}
		if key == "bool" {
			if boolClause, ok := value.(map[string]any); ok {
				// 每个子查询 +3 分
				for _, boolKey := range []string{"must", "filter", "should", "must_not"} {
					switch children := boolClause[boolKey].(type) {
					case []any:
						score += len(children) * 3
					case map[string]any:
						score += 3
					}
				}
			}
			continue
		}
		switch child := value.(type) {
		case map[string]any:
			score += scoreQuery(child, depth+1)
		case []any:
			for _, item := range child {
				if m, ok := item.(map[string]any); ok {
					score += scoreQuery(m, depth)
				}
			}
		}
	}
	return score
}

func countAggregations(aggs map[string]any) int {
	count := 0
	for _, value := range aggs {
		count++
		body, ok := value.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range []string{"aggs", "aggregations"} {
			if nested, ok := body[key].(map[string]any); ok {
				count += countAggregations(nested)
			}
		}
	}
	return count
}
