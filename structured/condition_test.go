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
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionString(t *testing.T) {
	c := Condition{
		FieldName: "status",
		Operator:  ConditionEqual,
		Value:     []any{"error", "warning"},
	}
	assert.Equal(t, "field_name->[status] op->[equal] value->[[error warning]]", c.String())
}

func TestConditionGroupJSON(t *testing.T) {
	var group ConditionGroup
	require.NoError(t, sonic.Unmarshal([]byte(`{
		"relation": "or",
		"minimum_should_match": 2,
		"conditions": [
			{"field_name": "status", "op": "equal", "value": ["error"]},
			{"field_name": "level", "op": "gte", "value": [3]},
			{"field_name": "host", "op": "equal", "value": ["web*"], "is_wildcard": true},
			{"field_name": "tags", "op": "equal", "value": ["db", "slow"], "group_relation": "and"}
		]
	}`), &group))

	assert.Equal(t, RelationOr, group.Relation)
	assert.Equal(t, 2, group.MinimumShouldMatch)
	require.Len(t, group.Conditions, 4)
	assert.Equal(t, ConditionGte, group.Conditions[1].Operator)
	assert.True(t, group.Conditions[2].IsWildcard)
	assert.Equal(t, RelationAnd, group.Conditions[3].GroupRelation)
}
