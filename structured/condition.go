// Tencent is pleased to support the open source community by making
// 蓝鲸智云 - 监控平台 (BlueKing - Monitor) available.
// Copyright (C) 2022 THL A29 Limited, a Tencent company. All rights reserved.
// Licensed under the MIT License (the "License"); you may not use this file except in compliance with the License.
// You may obtain a copy of the License at http://opensource.org/licenses/MIT
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package structured

import (
	"fmt"
)

// Operator 过滤条件操作符，闭集
type Operator string

const (
	ConditionEqual      Operator = "equal"
	ConditionNotEqual   Operator = "not_equal"
	ConditionInclude    Operator = "include"
	ConditionNotInclude Operator = "not_include"
	ConditionGt         Operator = "gt"
	ConditionGte        Operator = "gte"
	ConditionLt         Operator = "lt"
	ConditionLte        Operator = "lte"
	ConditionBetween    Operator = "between"
	ConditionExists     Operator = "exists"
	ConditionNotExists  Operator = "not_exists"
	ConditionReg        Operator = "reg"
	ConditionNotReg     Operator = "nreg"
)

// GroupRelation 条件组内的组合关系
type GroupRelation string

const (
	RelationAnd GroupRelation = "and"
	RelationOr  GroupRelation = "or"
)

// Condition 单个过滤条件的字段描述
type Condition struct {
	// FieldName 过滤字段
	FieldName string `json:"field_name" example:"status"`
	// Operator 操作符
	Operator Operator `json:"op" example:"equal"`
	// Value 查询值，between 需要恰好两个
	Value []any `json:"value" example:"error"`
	// GroupRelation 多个查询值之间的组合关系，默认 or
	GroupRelation GroupRelation `json:"group_relation,omitempty" example:"or"`
	// IsWildcard 是否是通配符匹配
	IsWildcard bool `json:"is_wildcard,omitempty"`
}

func (c *Condition) String() string {
	return fmt.Sprintf("field_name->[%s] op->[%s] value->[%v]", c.FieldName, c.Operator, c.Value)
}

// ConditionGroup 一组条件及其组合关系
type ConditionGroup struct {
	Relation   GroupRelation `json:"relation"`
	Conditions []Condition   `json:"conditions"`
	// MinimumShouldMatch 只在 or 关系下生效
	MinimumShouldMatch int `json:"minimum_should_match,omitempty"`
}

// NestedCondition nested 类型字段上的条件组
type NestedCondition struct {
	Path      string         `json:"path"`
	Group     ConditionGroup `json:"group"`
	ScoreMode string         `json:"score_mode,omitempty"`
	// InnerHits 返回命中的 nested 子文档
	InnerHits bool `json:"inner_hits,omitempty"`
}
