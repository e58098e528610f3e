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
	"testing"

	"github.com/stretchr/testify/assert"
)

func testValueTable() *ValueTable {
	return NewValueTable().
		Add("severity", "致命", "1").
		Add("severity", "预警", "2").
		Add("status", "成功", "success")
}

func TestRewrite(t *testing.T) {
	fieldMapping := map[string]string{
		"level": "severity",
		"state": "status",
	}

	testCases := map[string]struct {
		q   string
		out string
	}{
		"field_mapping": {
			q:   `level: 3`,
			out: `severity: 3`,
		},
		"value_translation": {
			q:   `severity: 致命`,
			out: `severity: 1`,
		},
		"mapping_then_translation": {
			q:   `level: 致命`,
			out: `severity: 1`,
		},
		"quoted_value_translated": {
			q:   `severity: "致命"`,
			out: `severity: "1"`,
		},
		"untranslated_value_kept": {
			q:   `severity: fatal`,
			out: `severity: fatal`,
		},
		"untagged_broadening": {
			q:   `致命`,
			out: `致命 OR (severity: 1)`,
		},
		"untagged_broadening_in_bool": {
			q:   `致命 AND host: web01`,
			out: `(致命 OR (severity: 1)) AND host: web01`,
		},
		"untagged_no_match": {
			q:   `timeout`,
			out: `timeout`,
		},
		"untagged_phrase_untouched": {
			q:   `"致命"`,
			out: `"致命"`,
		},
		"untagged_wildcard_untouched": {
			q:   `致命*`,
			out: `致命*`,
		},
		"wildcard_value_not_translated": {
			q:   `severity: 致命*`,
			out: `severity: 致命*`,
		},
		"range_bounds_translated": {
			q:   `level: [致命 TO 预警]`,
			out: `severity: [1 TO 2]`,
		},
		"range_mapping_only": {
			q:   `level: >=3`,
			out: `severity: >=3`,
		},
		"not_recursion": {
			q:   `NOT level: 致命`,
			out: `NOT severity: 1`,
		},
		"group_recursion": {
			q:   `state: 成功 OR severity: 预警`,
			out: `status: success OR severity: 2`,
		},
		"regex_untouched": {
			q:   `message: /致命.*/`,
			out: `message: /致命.*/`,
		},
		"declaration_order_wins": {
			// 成功 只登记在 status 表里，severity 表在前但不命中
			q:   `成功`,
			out: `成功 OR (status: success)`,
		},
	}

	for name, c := range testCases {
		t.Run(name, func(t *testing.T) {
			e, err := Parse(c.q)
			assert.NoError(t, err)
			out := Rewrite(e, fieldMapping, testValueTable())
			assert.Equal(t, c.out, String(out))
			// 原树不能被修改
			assert.Equal(t, c.q, String(e))
		})
	}
}

func TestRewriteSharing(t *testing.T) {
	e, err := Parse(`host: web01 AND NOT message: "boot"`)
	assert.NoError(t, err)

	// 没有任何命中时整棵树原样返回
	same := Rewrite(e, nil, nil)
	assert.Same(t, e, same)

	// 只有命中的分支被重建，其余子树直接复用
	out := Rewrite(e, map[string]string{"host": "hostname"}, nil)
	assert.NotSame(t, e, out)
	group := out.(*GroupExpr)
	orig := e.(*GroupExpr)
	assert.NotSame(t, orig.Children[0], group.Children[0])
	assert.Same(t, orig.Children[1], group.Children[1])
}

func TestRewriteNil(t *testing.T) {
	assert.Nil(t, Rewrite(nil, nil, nil))
}

func TestValueTable(t *testing.T) {
	table := testValueTable()

	value, ok := table.Translate("severity", "致命")
	assert.True(t, ok)
	assert.Equal(t, "1", value)

	_, ok = table.Translate("severity", "成功")
	assert.False(t, ok)

	field, value, ok := table.Match("预警")
	assert.True(t, ok)
	assert.Equal(t, "severity", field)
	assert.Equal(t, "2", value)

	_, _, ok = table.Match("missing")
	assert.False(t, ok)

	// nil 表所有查询都不命中
	var nilTable *ValueTable
	_, ok = nilTable.Translate("severity", "致命")
	assert.False(t, ok)
	_, _, ok = nilTable.Match("致命")
	assert.False(t, ok)
}
