// Tencent is pleased to support the open source community by making
// 蓝鲸智云 - 监控平台 (BlueKing - Monitor) available.
// Copyright (C) 2022 THL A29 Limited, a Tencent company. All rights reserved.
// Licensed under the MIT License (the "License"); you may not use this file except in compliance with the License.
// You may obtain a copy of the License at http://opensource.org/licenses/MIT
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package analyzer

// OptimizationType 优化建议类型
type OptimizationType string

const (
	OptimizeUseFilterInsteadQuery OptimizationType = "use_filter_instead_query"
	OptimizeAvoidWildcardStart    OptimizationType = "avoid_wildcard_start"
	OptimizeAvoidRegexQuery       OptimizationType = "avoid_regex_query"
	OptimizeUseTermsQuery         OptimizationType = "use_terms_query"
	OptimizeAvoidScriptQuery      OptimizationType = "avoid_script_query"
	OptimizeReduceNestedDepth     OptimizationType = "reduce_nested_depth"
)

// Severity 严重级别
type Severity string

const (
	// SeverityCritical 严重问题，必须修复
	SeverityCritical Severity = "critical"
	// SeverityWarning 警告，建议修复
	SeverityWarning Severity = "warning"
	// SeverityInfo 信息提示，可选优化
	SeverityInfo Severity = "info"
)

// Suggestion 查询优化建议
type Suggestion struct {
	Type            OptimizationType `json:"type"`
	Severity        Severity         `json:"severity"`
	Message         string           `json:"message"`
	AffectedField   string           `json:"affected_field,omitempty"`
	Suggestion      string           `json:"suggestion,omitempty"`
	EstimatedImpact string           `json:"estimated_impact,omitempty"`
}

// Result 静态分析结果
type Result struct {
	Suggestions     []Suggestion `json:"suggestions"`
	ComplexityScore int          `json:"query_complexity_score"`
}
