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
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Rule 单条优化规则
type Rule interface {
	RuleID() string
	Check(query map[string]any) []Suggestion
}

// RuleEngine 规则引擎，默认带全部内置规则
type RuleEngine struct {
	rules []Rule
}

// NewRuleEngine .
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{
		rules: []Rule{
			leadingWildcardRule{},
			scoringInFilterRule{},
			scriptQueryRule{},
			deepNestedRule{},
			smallRangeRule{},
			regexQueryRule{},
		},
	}
}

// Register 注册自定义规则
func (e *RuleEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules .
func (e *RuleEngine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Analyze 运行所有规则，汇总优化建议
func (e *RuleEngine) Analyze(query map[string]any) []Suggestion {
	var suggestions []Suggestion
	for _, rule := range e.rules {
		suggestions = append(suggestions, rule.Check(query)...)
	}
	return suggestions
}

// walkMaps 深度优先遍历 DSL 树里的所有字典节点
func walkMaps(v any, fn func(map[string]any)) {
	switch node := v.(type) {
	case map[string]any:
		fn(node)
		for _, child := range node {
			walkMaps(child, fn)
		}
	case []any:
		for _, item := range node {
			walkMaps(item, fn)
		}
	}
}

// patternValue 通配符和正则查询的值可能是字符串，也可能是
// {"value": ...} 或 {"wildcard": ...} 形式的字典
func patternValue(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case map[string]any:
		for _, key := range []string{"value", "wildcard"} {
			if s, ok := value[key].(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

type leadingWildcardRule struct{}

func (leadingWildcardRule) RuleID() string { return "leading_wildcard" }

func (leadingWildcardRule) Check(query map[string]any) []Suggestion {
	var suggestions []Suggestion
	walkMaps(query, func(clause map[string]any) {
		wildcard, ok := clause["wildcard"].(map[string]any)
		if !ok {
			return
		}
		for field, raw := range wildcard {
			pattern, ok := patternValue(raw)
			if !ok {
				continue
			}
			if strings.HasPrefix(pattern, "*") || strings.HasPrefix(pattern, "?") {
				suggestions = append(suggestions, Suggestion{
					Type:            OptimizeAvoidWildcardStart,
					Severity:        SeverityCritical,
					Message:         fmt.Sprintf("检测到前导通配符查询: %s:%s", field, pattern),
					AffectedField:   field,
					Suggestion:      "前导通配符需要扫描所有文档，建议使用前缀查询 (prefix) 或倒排索引优化",
					EstimatedImpact: "可能导致全表扫描，性能严重下降",
				})
			}
		}
	})
	return suggestions
}

// scoringQueryTypes 会计算评分的查询类型，不适合放在 filter 上下文
var scoringQueryTypes = map[string]struct{}{
	"match":               {},
	"match_phrase":        {},
	"match_phrase_prefix": {},
	"multi_match":         {},
	"query_string":        {},
	"simple_query_string": {},
	"fuzzy":               {},
}

type scoringInFilterRule struct{}

func (scoringInFilterRule) RuleID() string { return "full_text_in_filter" }

func (scoringInFilterRule) Check(query map[string]any) []Suggestion {
	var suggestions []Suggestion
	walkMaps(query, func(clause map[string]any) {
		filter, ok := clause["filter"]
		if !ok {
			return
		}
		walkMaps(filter, func(inner map[string]any) {
			for key, value := range inner {
				if _, scoring := scoringQueryTypes[key]; !scoring {
					continue
				}
				var fields []string
				if m, ok := value.(map[string]any); ok {
					for field := range m {
						fields = append(fields, field)
					}
				}
				suggestions = append(suggestions, Suggestion{
					Type:            OptimizeUseFilterInsteadQuery,
					Severity:        SeverityInfo,
					Message:         fmt.Sprintf("在 filter 上下文中使用评分查询: %s", key),
					AffectedField:   strings.Join(fields, ", "),
					Suggestion:      fmt.Sprintf("评分查询 %s 会计算文档评分，filter 上下文会忽略评分。如不需要评分，考虑使用 term 等精确查询；如需评分，请移至 query 上下文", key),
					EstimatedImpact: "可能影响查询性能和结果准确性",
				})
			}
		})
	})
	return suggestions
}

type scriptQueryRule struct{}

func (scriptQueryRule) RuleID() string { return "script_query" }

func (scriptQueryRule) Check(query map[string]any) []Suggestion {
	var suggestions []Suggestion
	walkMaps(query, func(clause map[string]any) {
		if _, ok := clause["script"].(map[string]any); !ok {
			return
		}
		suggestions = append(suggestions, Suggestion{
			Type:            OptimizeAvoidScriptQuery,
			Severity:        SeverityWarning,
			Message:         "检测到脚本查询的使用",
			Suggestion:      "脚本查询性能较差，建议将计算结果预先存储到文档字段中，或使用 painless 脚本优化",
			EstimatedImpact: "脚本查询无法利用索引，性能显著低于原生查询",
		})
	})
	return suggestions
}

// maxBoolDepth 推荐的 bool 嵌套深度上限
const maxBoolDepth = 3

type deepNestedRule struct{}

func (deepNestedRule) RuleID() string { return "deep_nested_query" }

func (deepNestedRule) Check(query map[string]any) []Suggestion {
	depth := boolDepth(query, 0)
	if depth <= maxBoolDepth {
		return nil
	}
	return []Suggestion{{
		Type:            OptimizeReduceNestedDepth,
		Severity:        SeverityWarning,
		Message:         fmt.Sprintf("检测到深度嵌套查询 (深度: %d)", depth),
		Suggestion:      fmt.Sprintf("查询嵌套深度为 %d，超过推荐值 %d。考虑简化查询结构或拆分为多个查询", depth, maxBoolDepth),
		EstimatedImpact: "深层嵌套会增加查询复杂度，影响性能和可维护性",
	}}
}

func boolDepth(v any, depth int) int {
	deepest := depth
	switch node := v.(type) {
	case map[string]any:
		for key, child := range node {
			next := depth
			if key == "bool" {
				next = depth + 1
			}
			if d := boolDepth(child, next); d > deepest {
				deepest = d
			}
		}
	case []any:
		for _, item := range node {
			if d := boolDepth(item, depth); d > deepest {
				deepest = d
			}
		}
	}
	return deepest
}

// maxTermsRangeSize 小范围查询的阈值
const maxTermsRangeSize = 10

type smallRangeRule struct{}

func (smallRangeRule) RuleID() string { return "small_range_query" }

func (smallRangeRule) Check(query map[string]any) []Suggestion {
	var suggestions []Suggestion
	walkMaps(query, func(clause map[string]any) {
		rangeClause, ok := clause["range"].(map[string]any)
		if !ok {
			return
		}
		for field, raw := range rangeClause {
			bounds, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			lower, hasLower := rangeBound(bounds, "gte", "gt")
			upper, hasUpper := rangeBound(bounds, "lte", "lt")
			if !hasLower || !hasUpper {
				continue
			}
			size := upper - lower + 1
			if size > 0 && size <= maxTermsRangeSize {
				suggestions = append(suggestions, Suggestion{
					Type:            OptimizeUseTermsQuery,
					Severity:        SeverityInfo,
					Message:         fmt.Sprintf("检测到小范围查询: %s 在 [%d, %d] 范围内 (范围大小: %d)", field, lower, upper, size),
					AffectedField:   field,
					Suggestion:      "小范围查询建议使用 terms 查询替代 range 查询以提高性能",
					EstimatedImpact: fmt.Sprintf("terms 查询对 %d 个值可能有更好的性能", size),
				})
			}
		}
	})
	return suggestions
}

func rangeBound(bounds map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		raw, ok := bounds[key]
		if !ok {
			continue
		}
		value, err := cast.ToInt64E(raw)
		if err != nil {
			return 0, false
		}
		return value, true
	}
	return 0, false
}

type regexQueryRule struct{}

func (regexQueryRule) RuleID() string { return "regex_query" }

func (regexQueryRule) Check(query map[string]any) []Suggestion {
	var suggestions []Suggestion
	walkMaps(query, func(clause map[string]any) {
		regexp, ok := clause["regexp"].(map[string]any)
		if !ok {
			return
		}
		for field, raw := range regexp {
			pattern, ok := patternValue(raw)
			if !ok {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				Type:            OptimizeAvoidRegexQuery,
				Severity:        SeverityWarning,
				Message:         fmt.Sprintf("检测到正则表达式查询: %s:%s", field, pattern),
				AffectedField:   field,
				Suggestion:      "正则表达式查询性能较差。如果模式简单，建议使用 wildcard 或 prefix 查询；如果必须使用正则，考虑添加前缀以利用索引",
				EstimatedImpact: "正则查询可能导致性能下降，特别是在复杂模式下",
			})
		}
	})
	return suggestions
}
